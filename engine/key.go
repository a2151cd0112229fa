package engine

import (
	"time"

	"github.com/hupe1980/galgo/model"
)

// orderKey is the composite ordering key of a record: upload timestamp first,
// sequence number as tiebreak. Because sequence numbers are unique, no two
// records compare equal, which fixes a deterministic total order even when
// timestamps collide.
type orderKey struct {
	at  time.Time
	seq model.SeqNum
}

// compareKeys orders two keys: -1 if a sorts before b, +1 if after.
// It never returns 0 for keys of distinct records.
func compareKeys(a, b orderKey) int {
	if c := a.at.Compare(b.at); c != 0 {
		return c
	}
	switch {
	case a.seq < b.seq:
		return -1
	case a.seq > b.seq:
		return 1
	default:
		return 0
	}
}

// keyOf derives the ordering key of an image at a given sequence number.
func keyOf(img model.Image, seq model.SeqNum) orderKey {
	return orderKey{at: img.UploadedAt, seq: seq}
}
