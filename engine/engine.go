package engine

import (
	"slices"
	"sort"
	"sync"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/galgo/model"
)

// Engine owns the record store and every group index. It is safe for
// concurrent use: one RWMutex guards the whole structure as a single unit,
// so a query never observes a half-applied insertion.
type Engine struct {
	mu     sync.RWMutex
	store  *recordStore
	all    *groupIndex
	albums map[string]*groupIndex

	// members tracks, per album, the bitmap of sequence numbers tagged with
	// that album. It is maintained on every write under both policies, which
	// makes AlbumCount O(1) and gives lazy index construction an
	// ascending-seq source that avoids scanning the full record table.
	members map[string]*roaring.Bitmap

	policy MaintenancePolicy
	sf     singleflight.Group
}

// Option defines a configuration option for the Engine.
type Option func(*Engine)

// WithMaintenancePolicy sets the group-index maintenance policy.
// The default is MaintenanceEager.
func WithMaintenancePolicy(policy MaintenancePolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// New creates an empty Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		store:   newRecordStore(),
		all:     newGroupIndex(0),
		albums:  make(map[string]*groupIndex),
		members: make(map[string]*roaring.Bitmap),
		policy:  MaintenanceEager,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Policy returns the configured maintenance policy.
func (e *Engine) Policy() MaintenancePolicy {
	return e.policy
}

// Insert stores a single image and updates every affected group index.
func (e *Engine) Insert(img model.Image) model.SeqNum {
	e.mu.Lock()
	defer e.mu.Unlock()

	seq := e.store.Append(img)
	k := keyOf(img, seq)

	e.all.insert(k)

	if img.AlbumID != "" {
		e.memberBitmap(img.AlbumID).Add(uint32(seq))
		if g := e.albumGroupForWrite(img.AlbumID); g != nil {
			g.insert(k)
		}
	}

	return seq
}

// InsertBatch stores a batch of images. Sequence numbers are assigned to the
// whole batch first (batch order is the tiebreak source), the new keys are
// bucketed per partition and sorted once, and each bucket is merged into its
// partition's existing run in a single linear pass. The per-partition merges
// touch disjoint indexes, so they run concurrently.
func (e *Engine) InsertBatch(imgs []model.Image) {
	if len(imgs) == 0 {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	allRun := make([]orderKey, 0, len(imgs))
	albumRuns := make(map[string][]orderKey)

	for _, img := range imgs {
		seq := e.store.Append(img)
		k := keyOf(img, seq)
		allRun = append(allRun, k)

		if img.AlbumID != "" {
			albumRuns[img.AlbumID] = append(albumRuns[img.AlbumID], k)
			e.memberBitmap(img.AlbumID).Add(uint32(seq))
		}
	}

	var eg errgroup.Group

	eg.Go(func() error {
		slices.SortFunc(allRun, compareKeys)
		e.all.mergeRun(allRun)
		return nil
	})

	for album, run := range albumRuns {
		g := e.albumGroupForWrite(album)
		if g == nil {
			continue // lazy policy, index not built yet
		}
		run := run
		eg.Go(func() error {
			slices.SortFunc(run, compareKeys)
			g.mergeRun(run)
			return nil
		})
	}

	// The merge goroutines cannot fail; Wait only joins them.
	_ = eg.Wait()
}

// Get returns the image stored under seq.
func (e *Engine) Get(seq model.SeqNum) (model.Image, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.store.Get(seq)
}

// Len returns the total number of stored images.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	return e.store.Len()
}

// AlbumCount returns the number of images tagged with the given album.
// O(1) under both maintenance policies.
func (e *Engine) AlbumCount(tag string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()

	bm, ok := e.members[tag]
	if !ok {
		return 0
	}
	return int(bm.GetCardinality())
}

// Albums returns every album tag that has at least one image, sorted.
func (e *Engine) Albums() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	tags := make([]string, 0, len(e.members))
	for tag := range e.members {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// memberBitmap returns the album's membership bitmap, creating it on first
// use. Caller must hold the write lock.
func (e *Engine) memberBitmap(tag string) *roaring.Bitmap {
	bm, ok := e.members[tag]
	if !ok {
		bm = roaring.New()
		e.members[tag] = bm
	}
	return bm
}

// albumGroupForWrite returns the group index a write must update for the
// given album: under the eager policy a missing index is created, under the
// lazy policy only an already-built index is returned. Caller must hold the
// write lock.
func (e *Engine) albumGroupForWrite(tag string) *groupIndex {
	if g, ok := e.albums[tag]; ok {
		return g
	}
	if e.policy == MaintenanceLazy {
		return nil
	}
	g := newGroupIndex(1)
	e.albums[tag] = g
	return g
}

// ensureAlbum builds the album's group index if the lazy policy deferred it.
// Concurrent queries against the same unbuilt album collapse into one build
// via singleflight; the build itself holds the write lock.
func (e *Engine) ensureAlbum(tag string) error {
	e.mu.RLock()
	_, built := e.albums[tag]
	e.mu.RUnlock()
	if built {
		return nil
	}

	_, err, _ := e.sf.Do(tag, func() (any, error) {
		e.mu.Lock()
		defer e.mu.Unlock()

		if _, ok := e.albums[tag]; ok {
			return nil, nil
		}
		bm, ok := e.members[tag]
		if !ok {
			// Unknown album: nothing to build, queries return empty pages.
			return nil, nil
		}

		g := newGroupIndex(int(bm.GetCardinality()))
		it := bm.Iterator()
		for it.HasNext() {
			seq := model.SeqNum(it.Next())
			img, err := e.store.Get(seq)
			if err != nil {
				return nil, err
			}
			g.keys = append(g.keys, keyOf(img, seq))
		}
		slices.SortFunc(g.keys, compareKeys)
		e.albums[tag] = g
		return nil, nil
	})
	return err
}
