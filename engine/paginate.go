package engine

import (
	"github.com/hupe1980/galgo/model"
)

// Query answers a paginated, time-ordered view of one partition.
//
// page is 1-based; page < 1 fails with ErrInvalidPage. pageSize 0 yields an
// empty page with TotalPages 1. A page beyond the last yields an empty page,
// not an error, with the count metadata intact. The cost is O(page size): the partition's pre-sorted index
// is sliced directly and only the selected records are materialized.
func (e *Engine) Query(p model.Partition, page, pageSize int, ascending bool) (*model.PageResult, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	if pageSize < 0 {
		pageSize = 0
	}

	if !p.IsAll() && e.policy == MaintenanceLazy {
		if err := e.ensureAlbum(p.Tag()); err != nil {
			return nil, err
		}
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	keys := e.partitionKeys(p)
	totalCount := len(keys)

	totalPages := 1
	if totalCount > 0 && pageSize > 0 {
		// Ceiling division written so totalCount+pageSize-1 cannot overflow.
		totalPages = (totalCount-1)/pageSize + 1
	}

	// The window arithmetic must not trust (page-1)*pageSize: both factors
	// are caller-controlled and the product can overflow int. Any page whose
	// start index lies past the last record is an empty page, so detect that
	// with the overflow-safe division form before multiplying.
	var start, end int
	if pageSize == 0 || page-1 > (totalCount-1)/pageSize {
		start, end = totalCount, totalCount
	} else {
		start = (page - 1) * pageSize
		end = min(start+pageSize, totalCount)
	}

	var window []orderKey
	reverse := false
	if ascending {
		window = keys[start:end]
	} else {
		// Map the descending window onto the ascending index so only the
		// k-sized slice is reversed, never the whole partition.
		revStart := max(0, totalCount-end)
		revEnd := max(0, totalCount-start)
		window = keys[revStart:revEnd]
		reverse = true
	}

	images := make([]model.ImageView, 0, len(window))
	for i := range window {
		k := window[i]
		if reverse {
			k = window[len(window)-1-i]
		}
		img, err := e.store.Get(k.seq)
		if err != nil {
			return nil, err
		}
		images = append(images, img.View())
	}

	return &model.PageResult{
		Images:     images,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

// partitionKeys returns the sorted key sequence backing a partition, or nil
// for an album with no built index. Caller must hold at least a read lock.
func (e *Engine) partitionKeys(p model.Partition) []orderKey {
	if p.IsAll() {
		return e.all.keys
	}
	if g, ok := e.albums[p.Tag()]; ok {
		return g.keys
	}
	return nil
}
