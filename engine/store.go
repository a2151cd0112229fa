package engine

import (
	"github.com/hupe1980/galgo/model"
)

// recordStore is the authoritative, insertion-ordered table of images.
// A record's sequence number is its slot in the backing slice, so lookup is
// a bounds check plus an index. Records are never mutated or removed.
type recordStore struct {
	images []model.Image
}

func newRecordStore() *recordStore {
	return &recordStore{}
}

// Append stores the image and returns its assigned sequence number.
func (s *recordStore) Append(img model.Image) model.SeqNum {
	seq := model.SeqNum(len(s.images))
	s.images = append(s.images, img)
	return seq
}

// Get returns the image for a previously assigned sequence number.
func (s *recordStore) Get(seq model.SeqNum) (model.Image, error) {
	if int(seq) >= len(s.images) {
		return model.Image{}, ErrNotFound
	}
	return s.images[seq], nil
}

// Len returns the number of stored images.
func (s *recordStore) Len() int {
	return len(s.images)
}
