// Package oracle provides a deliberately naive gallery used as a reference
// in equivalence tests. It keeps no indexes: every query filters the full
// record slice, sorts it, and cuts the requested page. Slow, but each step
// is simple enough to be obviously correct, which makes it a useful oracle
// for the incremental engine.
package oracle

import (
	"sort"

	"github.com/hupe1980/galgo/engine"
	"github.com/hupe1980/galgo/model"
)

// Gallery is the reference implementation. Not safe for concurrent use.
type Gallery struct {
	images []model.Image
}

// New creates an empty reference gallery.
func New() *Gallery {
	return &Gallery{}
}

// Add appends one image.
func (g *Gallery) Add(img model.Image) {
	g.images = append(g.images, img)
}

// AddBatch appends a batch of images in order.
func (g *Gallery) AddBatch(imgs []model.Image) {
	g.images = append(g.images, imgs...)
}

// Len returns the number of stored images.
func (g *Gallery) Len() int {
	return len(g.images)
}

// Query mirrors the engine's pagination contract: 1-based pages,
// ErrInvalidPage for page < 1, an empty page with TotalPages 1 for
// pageSize 0, and empty pages past the end.
func (g *Gallery) Query(p model.Partition, page, pageSize int, ascending bool) (*model.PageResult, error) {
	if page < 1 {
		return nil, engine.ErrInvalidPage
	}
	if pageSize < 0 {
		pageSize = 0
	}

	type entry struct {
		img model.Image
		seq int
	}

	var matched []entry
	for seq, img := range g.images {
		if p.IsAll() || (img.AlbumID != "" && img.AlbumID == p.Tag()) {
			matched = append(matched, entry{img: img, seq: seq})
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if c := matched[i].img.UploadedAt.Compare(matched[j].img.UploadedAt); c != 0 {
			return c < 0
		}
		return matched[i].seq < matched[j].seq
	})

	if !ascending {
		for i, j := 0, len(matched)-1; i < j; i, j = i+1, j-1 {
			matched[i], matched[j] = matched[j], matched[i]
		}
	}

	totalCount := len(matched)

	totalPages := 1
	if totalCount > 0 && pageSize > 0 {
		// Ceiling division written so totalCount+pageSize-1 cannot overflow.
		totalPages = (totalCount-1)/pageSize + 1
	}

	// Same overflow-safe window arithmetic as the engine: (page-1)*pageSize
	// can overflow int for huge but valid page numbers, and the oracle has to
	// agree with the engine on every non-error input.
	var start, end int
	if pageSize == 0 || page-1 > (totalCount-1)/pageSize {
		start, end = totalCount, totalCount
	} else {
		start = (page - 1) * pageSize
		end = min(start+pageSize, totalCount)
	}

	images := make([]model.ImageView, 0, end-start)
	for _, e := range matched[start:end] {
		images = append(images, e.img.View())
	}

	return &model.PageResult{
		Images:     images,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}
