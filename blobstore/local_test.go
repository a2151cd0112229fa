package blobstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()

	newStore := func(t *testing.T) *LocalStore {
		t.Helper()
		s, err := NewLocalStore(t.TempDir())
		require.NoError(t, err)
		return s
	}

	t.Run("PutOpenRoundTrip", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "snap-001", []byte("hello")))

		data, err := ReadAll(ctx, s, "snap-001")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), data)
	})

	t.Run("OpenMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Open(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("CreateStreamsAndPublishes", func(t *testing.T) {
		s := newStore(t)

		w, err := s.Create(ctx, "snap-001")
		require.NoError(t, err)
		_, err = w.Write([]byte("streamed "))
		require.NoError(t, err)
		_, err = w.Write([]byte("content"))
		require.NoError(t, err)
		require.NoError(t, w.Sync())
		require.NoError(t, w.Close())

		data, err := ReadAll(ctx, s, "snap-001")
		require.NoError(t, err)
		assert.Equal(t, []byte("streamed content"), data)
	})

	t.Run("NestedNames", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "snapshots/2020/snap-001", []byte("x")))

		names, err := s.List(ctx, "snapshots/")
		require.NoError(t, err)
		assert.Equal(t, []string{"snapshots/2020/snap-001"}, names)
	})

	t.Run("ListSkipsInFlightWrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "snap-001", []byte("x")))

		w, err := s.Create(ctx, "snap-002")
		require.NoError(t, err)
		defer w.Close()

		names, err := s.List(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, []string{"snap-001"}, names)
	})

	t.Run("DeleteThenOpen", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "snap-001", []byte("x")))
		require.NoError(t, s.Delete(ctx, "snap-001"))

		_, err := s.Open(ctx, "snap-001")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ReadAtOffset", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Put(ctx, "snap-001", []byte("abcdef")))

		b, err := s.Open(ctx, "snap-001")
		require.NoError(t, err)
		defer b.Close()

		assert.Equal(t, int64(6), b.Size())

		buf := make([]byte, 2)
		n, err := b.ReadAt(ctx, buf, 2)
		require.NoError(t, err)
		assert.Equal(t, []byte("cd"), buf[:n])
	})
}
