package blobstore

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// ThrottledStore wraps a BlobStore and bounds the byte rate of uploads and
// downloads. Useful when bulk snapshot traffic shares a link with serving
// traffic.
type ThrottledStore struct {
	inner   BlobStore
	limiter *rate.Limiter
}

// NewThrottledStore creates a ThrottledStore allowing bytesPerSec sustained
// throughput with a burst of the same size.
func NewThrottledStore(inner BlobStore, bytesPerSec int) *ThrottledStore {
	return &ThrottledStore{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Limit(bytesPerSec), bytesPerSec),
	}
}

// waitN blocks until n bytes of budget are available. Requests larger than
// the burst are split so they cannot starve forever.
func (s *ThrottledStore) waitN(ctx context.Context, n int) error {
	burst := s.limiter.Burst()
	for n > 0 {
		chunk := n
		if chunk > burst {
			chunk = burst
		}
		if err := s.limiter.WaitN(ctx, chunk); err != nil {
			return err
		}
		n -= chunk
	}
	return nil
}

// Open opens a blob whose reads draw from the rate budget.
func (s *ThrottledStore) Open(ctx context.Context, name string) (Blob, error) {
	b, err := s.inner.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledBlob{inner: b, store: s}, nil
}

// Create creates a blob whose writes draw from the rate budget.
func (s *ThrottledStore) Create(ctx context.Context, name string) (WritableBlob, error) {
	w, err := s.inner.Create(ctx, name)
	if err != nil {
		return nil, err
	}
	return &throttledWritableBlob{inner: w, store: s, ctx: ctx}, nil
}

// Put writes a blob after acquiring budget for its full size.
func (s *ThrottledStore) Put(ctx context.Context, name string, data []byte) error {
	if err := s.waitN(ctx, len(data)); err != nil {
		return err
	}
	return s.inner.Put(ctx, name, data)
}

// Delete removes a blob; deletes are not throttled.
func (s *ThrottledStore) Delete(ctx context.Context, name string) error {
	return s.inner.Delete(ctx, name)
}

// List lists blobs; listings are not throttled.
func (s *ThrottledStore) List(ctx context.Context, prefix string) ([]string, error) {
	return s.inner.List(ctx, prefix)
}

type throttledBlob struct {
	inner Blob
	store *ThrottledStore
}

func (b *throttledBlob) Close() error {
	return b.inner.Close()
}

func (b *throttledBlob) Size() int64 {
	return b.inner.Size()
}

func (b *throttledBlob) ReadAt(ctx context.Context, p []byte, off int64) (int, error) {
	if err := b.store.waitN(ctx, len(p)); err != nil {
		return 0, err
	}
	return b.inner.ReadAt(ctx, p, off)
}

func (b *throttledBlob) ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error) {
	if length > b.inner.Size()-off {
		length = b.inner.Size() - off
	}
	if length > 0 {
		if err := b.store.waitN(ctx, int(length)); err != nil {
			return nil, err
		}
	}
	return b.inner.ReadRange(ctx, off, length)
}

type throttledWritableBlob struct {
	inner WritableBlob
	store *ThrottledStore
	ctx   context.Context
}

func (w *throttledWritableBlob) Write(p []byte) (int, error) {
	if err := w.store.waitN(w.ctx, len(p)); err != nil {
		return 0, err
	}
	return w.inner.Write(p)
}

func (w *throttledWritableBlob) Sync() error {
	return w.inner.Sync()
}

func (w *throttledWritableBlob) Close() error {
	return w.inner.Close()
}
