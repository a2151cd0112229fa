package engine

import (
	"fmt"
	"math/rand"
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/galgo/model"
)

// rebuildGroup recomputes a partition's index from scratch by scanning the
// record store. Test-only: for any interleaving of single and batch inserts
// the rebuilt sequence must be identical to the maintained one.
func (e *Engine) rebuildGroup(p model.Partition) []orderKey {
	e.mu.RLock()
	defer e.mu.RUnlock()

	var keys []orderKey
	for seq, img := range e.store.images {
		if p.IsAll() || (img.AlbumID != "" && img.AlbumID == p.Tag()) {
			keys = append(keys, keyOf(img, model.SeqNum(seq)))
		}
	}
	slices.SortFunc(keys, compareKeys)
	return keys
}

func imageAt(id string, album string, at time.Time) model.Image {
	return model.Image{
		ID:         id,
		Filename:   id + ".jpg",
		AlbumID:    album,
		UploadedAt: at,
		SizeBytes:  1024,
		Width:      1920,
		Height:     1080,
	}
}

func TestEngineInsert(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("SequenceNumbersAreInsertionOrder", func(t *testing.T) {
		e := New()

		for i := range 5 {
			seq := e.Insert(imageAt(fmt.Sprintf("img_%d", i), "", t0))
			assert.Equal(t, model.SeqNum(i), seq)
		}
		assert.Equal(t, 5, e.Len())
	})

	t.Run("GetRoundTrip", func(t *testing.T) {
		e := New()
		seq := e.Insert(imageAt("img_0", "a", t0))

		img, err := e.Get(seq)
		require.NoError(t, err)
		assert.Equal(t, "img_0", img.ID)
	})

	t.Run("GetUnknownSeq", func(t *testing.T) {
		e := New()

		_, err := e.Get(model.SeqNum(7))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("AlbumCountAndAlbums", func(t *testing.T) {
		e := New()
		e.Insert(imageAt("img_0", "b", t0))
		e.Insert(imageAt("img_1", "a", t0))
		e.Insert(imageAt("img_2", "a", t0))
		e.Insert(imageAt("img_3", "", t0))

		assert.Equal(t, 2, e.AlbumCount("a"))
		assert.Equal(t, 1, e.AlbumCount("b"))
		assert.Equal(t, 0, e.AlbumCount("missing"))
		assert.Equal(t, []string{"a", "b"}, e.Albums())
	})
}

// Seven records over six seconds, three of them in album "A".
func sevenRecords(t0 time.Time) []model.Image {
	albums := []string{"A", "", "A", "B", "", "A", "B"}
	imgs := make([]model.Image, 7)
	for i := range imgs {
		imgs[i] = imageAt(fmt.Sprintf("img_%d", i), albums[i], t0.Add(time.Duration(i)*time.Second))
	}
	return imgs
}

func TestEngineQueryScenario(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, policy := range []MaintenancePolicy{MaintenanceEager, MaintenanceLazy} {
		t.Run(policy.String(), func(t *testing.T) {
			e := New(WithMaintenancePolicy(policy))
			for _, img := range sevenRecords(t0) {
				e.Insert(img)
			}

			t.Run("AlbumAscending", func(t *testing.T) {
				res, err := e.Query(model.Album("A"), 1, 2, true)
				require.NoError(t, err)

				assert.Equal(t, 3, res.TotalCount)
				assert.Equal(t, 2, res.TotalPages)
				require.Len(t, res.Images, 2)
				assert.Equal(t, "img_0", res.Images[0].ID)
				assert.Equal(t, "img_2", res.Images[1].ID)
			})

			t.Run("AllDescending", func(t *testing.T) {
				res, err := e.Query(model.AllImages(), 1, 3, false)
				require.NoError(t, err)

				assert.Equal(t, 7, res.TotalCount)
				assert.Equal(t, 3, res.TotalPages)
				require.Len(t, res.Images, 3)
				assert.Equal(t, "img_6", res.Images[0].ID)
				assert.Equal(t, "img_5", res.Images[1].ID)
				assert.Equal(t, "img_4", res.Images[2].ID)
			})

			t.Run("LastAlbumPage", func(t *testing.T) {
				res, err := e.Query(model.Album("A"), 2, 2, true)
				require.NoError(t, err)

				require.Len(t, res.Images, 1)
				assert.Equal(t, "img_5", res.Images[0].ID)
			})
		})
	}
}

func TestEngineBatchTiebreak(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rand.New(rand.NewSource(7))

	for _, policy := range []MaintenancePolicy{MaintenanceEager, MaintenanceLazy} {
		t.Run(policy.String(), func(t *testing.T) {
			e := New(WithMaintenancePolicy(policy))

			batch := make([]model.Image, 1000)
			for i := range batch {
				batch[i] = imageAt(fmt.Sprintf("img_%04d", i), "bulk", t0.Add(time.Duration(r.Intn(3600))*time.Second))
			}
			e.InsertBatch(batch)

			// Land one more record exactly on an existing timestamp. Its higher
			// sequence number must sort it immediately after the existing record.
			dupAt := batch[500].UploadedAt
			e.Insert(imageAt("img_late", "bulk", dupAt))

			res, err := e.Query(model.Album("bulk"), 1, 1001, true)
			require.NoError(t, err)
			require.Len(t, res.Images, 1001)

			var prevIdx int
			for i, iv := range res.Images {
				if iv.ID == "img_late" {
					require.Positive(t, i, "duplicate timestamp cannot sort first")
					prev := res.Images[i-1]
					assert.Equal(t, iv.UploadedAt, prev.UploadedAt,
						"img_late must directly follow a record with its timestamp")
					prevIdx = i
				}
			}
			require.Positive(t, prevIdx, "img_late missing from result")

			// Stable across repeated queries.
			res2, err := e.Query(model.Album("bulk"), 1, 1001, true)
			require.NoError(t, err)
			assert.Equal(t, res.Images, res2.Images)
		})
	}
}

func TestEngineRebuildMatchesIncremental(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rand.New(rand.NewSource(99))

	albums := []string{"", "a", "b", "c"}

	newImage := func(i int) model.Image {
		return imageAt(fmt.Sprintf("img_%04d", i), albums[r.Intn(len(albums))], t0.Add(time.Duration(r.Intn(600))*time.Second))
	}

	e := New()
	n := 0

	// Interleave single and batch inserts.
	for round := range 20 {
		if round%2 == 0 {
			e.Insert(newImage(n))
			n++
		} else {
			batch := make([]model.Image, 30)
			for i := range batch {
				batch[i] = newImage(n)
				n++
			}
			e.InsertBatch(batch)
		}
	}

	for _, p := range []model.Partition{model.AllImages(), model.Album("a"), model.Album("b"), model.Album("c")} {
		rebuilt := e.rebuildGroup(p)

		e.mu.RLock()
		maintained := append([]orderKey(nil), e.partitionKeys(p)...)
		e.mu.RUnlock()

		assert.Equal(t, rebuilt, maintained, "partition %s", p)
	}
}

func TestEngineLazyBuildOnFirstQuery(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	e := New(WithMaintenancePolicy(MaintenanceLazy))
	for _, img := range sevenRecords(t0) {
		e.Insert(img)
	}

	e.mu.RLock()
	_, built := e.albums["A"]
	e.mu.RUnlock()
	require.False(t, built, "lazy policy must not build album indexes on write")

	res, err := e.Query(model.Album("A"), 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 3, res.TotalCount)

	e.mu.RLock()
	_, built = e.albums["A"]
	e.mu.RUnlock()
	assert.True(t, built, "first query must build the album index")

	// Writes after the build keep the index current.
	e.Insert(imageAt("img_7", "A", t0.Add(10*time.Second)))
	res, err = e.Query(model.Album("A"), 1, 10, true)
	require.NoError(t, err)
	assert.Equal(t, 4, res.TotalCount)
	assert.Equal(t, "img_7", res.Images[3].ID)
}

func TestEngineEagerLazyEquivalence(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	r := rand.New(rand.NewSource(5))

	imgs := make([]model.Image, 300)
	for i := range imgs {
		album := ""
		if i%5 != 0 {
			album = fmt.Sprintf("album_%02d", i%7)
		}
		imgs[i] = imageAt(fmt.Sprintf("img_%04d", i), album, t0.Add(time.Duration(r.Intn(120))*time.Second))
	}

	eager := New(WithMaintenancePolicy(MaintenanceEager))
	lazy := New(WithMaintenancePolicy(MaintenanceLazy))

	eager.InsertBatch(imgs[:200])
	lazy.InsertBatch(imgs[:200])
	for _, img := range imgs[200:] {
		eager.Insert(img)
		lazy.Insert(img)
	}

	partitions := []model.Partition{model.AllImages()}
	for i := range 7 {
		partitions = append(partitions, model.Album(fmt.Sprintf("album_%02d", i)))
	}

	for _, p := range partitions {
		for _, ascending := range []bool{true, false} {
			for page := 1; page <= 4; page++ {
				got, err := lazy.Query(p, page, 25, ascending)
				require.NoError(t, err)
				want, err := eager.Query(p, page, 25, ascending)
				require.NoError(t, err)

				assert.Equal(t, want, got, "partition=%s page=%d asc=%v", p, page, ascending)
			}
		}
	}
}

func TestEngineConcurrentQueries(t *testing.T) {
	t0 := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	e := New(WithMaintenancePolicy(MaintenanceLazy))
	batch := make([]model.Image, 500)
	for i := range batch {
		batch[i] = imageAt(fmt.Sprintf("img_%04d", i), fmt.Sprintf("album_%d", i%3), t0.Add(time.Duration(i%60)*time.Second))
	}
	e.InsertBatch(batch)

	done := make(chan error, 16)
	for w := range 16 {
		album := fmt.Sprintf("album_%d", w%3)
		go func() {
			for range 50 {
				if _, err := e.Query(model.Album(album), 1, 20, false); err != nil {
					done <- err
					return
				}
			}
			done <- nil
		}()
	}

	for range 16 {
		require.NoError(t, <-done)
	}
}
