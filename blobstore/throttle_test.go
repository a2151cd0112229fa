package blobstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestThrottledStore(t *testing.T) {
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		s := NewThrottledStore(NewMemoryStore(), 1<<20)

		w, err := s.Create(ctx, "snap-001")
		require.NoError(t, err)
		_, err = w.Write([]byte("throttled bytes"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		data, err := ReadAll(ctx, s, "snap-001")
		require.NoError(t, err)
		assert.Equal(t, []byte("throttled bytes"), data)
	})

	t.Run("PassesThroughErrors", func(t *testing.T) {
		s := NewThrottledStore(NewMemoryStore(), 1<<20)
		_, err := s.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("LargeWriteSplitsAcrossBurst", func(t *testing.T) {
		// Budget far above the payload so the test stays fast; the point is
		// that a request larger than the burst still completes.
		s := NewThrottledStore(NewMemoryStore(), 1<<20)
		payload := make([]byte, 3<<20)

		done := make(chan error, 1)
		go func() {
			done <- s.Put(ctx, "big", payload)
		}()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(30 * time.Second):
			t.Fatal("throttled write did not complete")
		}

		data, err := ReadAll(ctx, s, "big")
		require.NoError(t, err)
		assert.Len(t, data, len(payload))
	})

	t.Run("CancelledContext", func(t *testing.T) {
		s := NewThrottledStore(NewMemoryStore(), 1) // 1 B/s, nothing moves
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := s.Put(cctx, "snap-001", []byte("xx"))
		assert.Error(t, err)
	})
}
