// Package testutil provides deterministic data generators for gallery tests
// and benchmarks.
package testutil

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/hupe1980/galgo/model"
)

// BaseDate is the start of the timestamp range used by GenerateImages.
var BaseDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// RNG encapsulates a seeded random number generator. It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// GenerateImages produces count images spread over numAlbums albums. Every
// fifth image is untagged, album tags cycle round-robin, and timestamps are
// drawn uniformly from a four-year window starting at BaseDate. Collisions
// in the timestamp dimension are likely for large counts, which is what the
// sequence-number tiebreak tests want.
func (r *RNG) GenerateImages(count, numAlbums int) []model.Image {
	r.mu.Lock()
	defer r.mu.Unlock()

	widths := []int{1920, 3840, 4032, 1080}
	heights := []int{1080, 2160, 3024, 1920}

	images := make([]model.Image, count)
	for i := range count {
		albumID := ""
		if i%5 != 0 {
			albumID = fmt.Sprintf("album_%03d", i%numAlbums)
		}

		images[i] = model.Image{
			ID:         fmt.Sprintf("img_%06d", i),
			Filename:   fmt.Sprintf("photo_%06d.jpg", i),
			AlbumID:    albumID,
			UploadedAt: BaseDate.Add(time.Duration(r.rand.Int63n(86400*365*4)) * time.Second),
			SizeBytes:  int64(100000 + r.rand.Intn(4900001)),
			Width:      widths[r.rand.Intn(len(widths))],
			Height:     heights[r.rand.Intn(len(heights))],
		}
	}

	return images
}

// GenerateImagesAt produces count images that all share the same timestamp.
// Ordering among them is then decided purely by insertion order.
func (r *RNG) GenerateImagesAt(count int, at time.Time, albumID string) []model.Image {
	images := make([]model.Image, count)
	for i := range count {
		images[i] = model.Image{
			ID:         fmt.Sprintf("img_%06d", i),
			Filename:   fmt.Sprintf("photo_%06d.jpg", i),
			AlbumID:    albumID,
			UploadedAt: at,
			SizeBytes:  1,
			Width:      1920,
			Height:     1080,
		}
	}
	return images
}
