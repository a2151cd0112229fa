// Package galgo provides an embedded, in-memory image gallery for Go with
// incrementally maintained ordered indexes.
//
// Galgo keeps every image in an append-only record table and maintains one
// pre-sorted index per view: a global index over all images and one per
// album. Indexes order by upload time with insertion order as the tiebreak,
// so paginated queries slice a sorted run directly instead of filtering and
// sorting the whole collection per request:
//
//   - Query cost is O(page size), independent of collection size
//   - Single inserts keep indexes sorted with one binary search per index
//   - Batch inserts sort only the batch and merge it in one linear pass
//   - Album counts are O(1) via Roaring Bitmap membership sets
//
// # Quick Start
//
// Create a gallery and add images:
//
//	ctx := context.Background()
//	g := galgo.New()
//
//	seq, err := g.AddImage(ctx, galgo.Image{
//	    ID:         "img_000001",
//	    Filename:   "photo_000001.jpg",
//	    AlbumID:    "vacation",
//	    UploadedAt: time.Now(),
//	})
//
// Query a page, newest first:
//
//	page, err := g.Query(ctx, func(o *galgo.QueryOptions) {
//	    o.Album = "vacation"
//	    o.Page = 1
//	    o.PageSize = 20
//	})
//
// Bulk load:
//
//	err := g.AddImages(ctx, images)
//
// # Maintenance Policies
//
// By default every album index is maintained eagerly on each write. For
// ingest-heavy workloads where most albums are never queried, the lazy
// policy defers building an album's index until its first query:
//
//	g := galgo.New(galgo.WithMaintenancePolicy(engine.MaintenanceLazy))
//
// # Snapshots
//
// A gallery can be saved to any io.Writer or blob store and restored with
// identical ordering:
//
//	err := g.SaveToFile("gallery.snap")
//	g, err := galgo.NewFromFile("gallery.snap")
//
// Blob-store snapshots (local disk, S3, MinIO) maintain a CURRENT pointer
// naming the latest snapshot:
//
//	store := blobstore.NewMemoryStore()
//	err := g.SaveSnapshot(ctx, store, "snap-001")
//	g, err := galgo.LoadSnapshot(ctx, store)
package galgo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/hupe1980/galgo/blobstore"
	"github.com/hupe1980/galgo/codec"
	"github.com/hupe1980/galgo/engine"
	"github.com/hupe1980/galgo/model"
)

// Image is the stored record type. An empty AlbumID means the image is not
// in any album.
type Image = model.Image

// ImageView is the wire representation of an image returned by queries.
type ImageView = model.ImageView

// PageResult is one page of a query along with its count metadata.
type PageResult = model.PageResult

// SeqNum identifies an image by its insertion position.
type SeqNum = model.SeqNum

// CurrentPointer is the blob name that tracks the latest committed snapshot.
const CurrentPointer = "CURRENT"

// Gallery is an in-memory image collection with O(page size) paginated
// queries. It is safe for concurrent use.
type Gallery struct {
	engine      *engine.Engine
	codec       codec.Codec
	metrics     MetricsCollector
	logger      *Logger
	compression engine.Compression
}

// New creates an empty Gallery.
func New(optFns ...Option) *Gallery {
	opts := applyOptions(optFns)

	return &Gallery{
		engine:      engine.New(engine.WithMaintenancePolicy(opts.policy)),
		codec:       opts.codec,
		metrics:     opts.metricsCollector,
		logger:      opts.logger,
		compression: opts.compression,
	}
}

func validateImage(img Image) error {
	if img.ID == "" || img.UploadedAt.IsZero() {
		return ErrInvalidImage
	}
	return nil
}

// AddImage stores a single image and returns its sequence number. Every
// affected index is updated in place, so the gallery stays queryable at
// full speed between writes.
func (g *Gallery) AddImage(ctx context.Context, img Image) (SeqNum, error) {
	start := time.Now()

	if err := validateImage(img); err != nil {
		g.metrics.RecordInsert(time.Since(start), err)
		g.logger.LogInsert(ctx, 0, img.AlbumID, err)
		return 0, err
	}

	seq := g.engine.Insert(img)

	g.metrics.RecordInsert(time.Since(start), nil)
	g.logger.LogInsert(ctx, uint32(seq), img.AlbumID, nil)
	return seq, nil
}

// AddImages stores a batch of images. This is more efficient than calling
// AddImage in a loop: the batch is sorted once and merged into each affected
// index in a single linear pass. Within equal timestamps, batch order is
// preserved.
func (g *Gallery) AddImages(ctx context.Context, imgs []Image) error {
	start := time.Now()

	for _, img := range imgs {
		if err := validateImage(img); err != nil {
			err = fmt.Errorf("%w: image %q", err, img.ID)
			g.metrics.RecordBatchInsert(len(imgs), time.Since(start), err)
			g.logger.LogBatchInsert(ctx, len(imgs), err)
			return err
		}
	}

	g.engine.InsertBatch(imgs)

	g.metrics.RecordBatchInsert(len(imgs), time.Since(start), nil)
	g.logger.LogBatchInsert(ctx, len(imgs), nil)
	return nil
}

// QueryOptions contains options for a paginated query.
type QueryOptions struct {
	// Album restricts the view to one album. Empty means all images,
	// including untagged ones.
	Album string

	// Page is the 1-based page number. Values below 1 fail with
	// ErrInvalidPage.
	Page int

	// PageSize is the number of images per page.
	PageSize int

	// Ascending orders oldest first. The default is newest first.
	Ascending bool
}

// Query returns one page of a time-ordered view. The default is the first
// 20 images of the whole collection, newest first.
func (g *Gallery) Query(ctx context.Context, optFns ...func(o *QueryOptions)) (*PageResult, error) {
	start := time.Now()
	opts := QueryOptions{
		Page:     1,
		PageSize: 20,
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	p := model.AllImages()
	if opts.Album != "" {
		p = model.Album(opts.Album)
	}

	result, err := g.engine.Query(p, opts.Page, opts.PageSize, opts.Ascending)
	err = translateError(err)

	g.metrics.RecordQuery(opts.PageSize, time.Since(start), err)
	if err != nil {
		g.logger.LogQuery(ctx, opts.Album, opts.Page, opts.PageSize, 0, err)
		return nil, err
	}

	g.logger.LogQuery(ctx, opts.Album, opts.Page, opts.PageSize, len(result.Images), nil)
	return result, nil
}

// Get retrieves an image by sequence number.
func (g *Gallery) Get(seq SeqNum) (Image, error) {
	img, err := g.engine.Get(seq)
	return img, translateError(err)
}

// Len returns the total number of stored images.
func (g *Gallery) Len() int {
	return g.engine.Len()
}

// AlbumCount returns the number of images in the given album. O(1) under
// both maintenance policies.
func (g *Gallery) AlbumCount(album string) int {
	return g.engine.AlbumCount(album)
}

// Albums returns every album that has at least one image, sorted.
func (g *Gallery) Albums() []string {
	return g.engine.Albums()
}

// SaveToWriter saves the gallery to an io.Writer using the configured codec
// and compression.
func (g *Gallery) SaveToWriter(w io.Writer) error {
	return translateError(g.engine.SaveToWriter(w, g.codec, g.compression))
}

// SaveToFile saves the gallery to a file.
func (g *Gallery) SaveToFile(filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	if err := g.SaveToWriter(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// NewFromReader restores a gallery from a snapshot. The snapshot records its
// own codec and compression, so options only affect the restored gallery's
// future behavior. Restored indexes are identical to the saved gallery's.
func NewFromReader(r io.Reader, optFns ...Option) (*Gallery, error) {
	opts := applyOptions(optFns)

	e, err := engine.NewFromReader(r, engine.WithMaintenancePolicy(opts.policy))
	if err != nil {
		return nil, translateError(err)
	}

	return &Gallery{
		engine:      e,
		codec:       opts.codec,
		metrics:     opts.metricsCollector,
		logger:      opts.logger,
		compression: opts.compression,
	}, nil
}

// NewFromFile restores a gallery from a snapshot file.
func NewFromFile(filename string, optFns ...Option) (*Gallery, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return NewFromReader(f, optFns...)
}

// SaveSnapshot streams a snapshot into the blob store under name and then
// commits it by pointing CURRENT at it. With a plain store the commit is a
// Put; with a commit store (e.g. s3.DDBCommitStore) it is a conditional
// write that detects concurrent writers.
func (g *Gallery) SaveSnapshot(ctx context.Context, store blobstore.BlobStore, name string) error {
	start := time.Now()

	err := g.saveSnapshot(ctx, store, name)

	g.metrics.RecordSnapshot(time.Since(start), err)
	g.logger.LogSnapshot(ctx, name, err)
	return err
}

func (g *Gallery) saveSnapshot(ctx context.Context, store blobstore.BlobStore, name string) error {
	w, err := store.Create(ctx, name)
	if err != nil {
		return fmt.Errorf("create snapshot blob: %w", err)
	}

	if err := g.SaveToWriter(w); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalize snapshot blob: %w", err)
	}

	if err := store.Put(ctx, CurrentPointer, []byte(name)); err != nil {
		return fmt.Errorf("commit snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot restores the gallery named by the store's CURRENT pointer.
func LoadSnapshot(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Gallery, error) {
	start := time.Now()
	opts := applyOptions(optFns)

	g, name, err := loadSnapshot(ctx, store, optFns...)

	opts.metricsCollector.RecordSnapshot(time.Since(start), err)
	if err != nil {
		opts.logger.LogLoad(ctx, name, 0, err)
		return nil, err
	}

	opts.logger.LogLoad(ctx, name, g.Len(), nil)
	return g, nil
}

func loadSnapshot(ctx context.Context, store blobstore.BlobStore, optFns ...Option) (*Gallery, string, error) {
	current, err := blobstore.ReadAll(ctx, store, CurrentPointer)
	if err != nil {
		return nil, "", fmt.Errorf("read %s: %w", CurrentPointer, err)
	}
	name := string(current)

	data, err := blobstore.ReadAll(ctx, store, name)
	if err != nil {
		return nil, name, fmt.Errorf("read snapshot %q: %w", name, err)
	}

	g, err := NewFromReader(bytes.NewReader(data), optFns...)
	if err != nil {
		return nil, name, err
	}
	return g, name, nil
}
