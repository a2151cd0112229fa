package engine

import (
	"slices"
)

// groupIndex is the sorted view of one partition: the ordering keys of
// exactly the records belonging to that partition, ascending, no duplicates.
type groupIndex struct {
	keys []orderKey
}

func newGroupIndex(capacity int) *groupIndex {
	return &groupIndex{
		keys: make([]orderKey, 0, capacity),
	}
}

// insert places a single key at its sorted position.
// O(log m) search plus O(m) shift; fine for interactive inserts, batches go
// through mergeRun instead.
func (g *groupIndex) insert(k orderKey) {
	pos, _ := slices.BinarySearchFunc(g.keys, k, compareKeys)
	g.keys = slices.Insert(g.keys, pos, k)
}

// mergeRun folds an already-sorted run of new keys into the index in one
// linear pass. The run must be sorted ascending by compareKeys.
func (g *groupIndex) mergeRun(run []orderKey) {
	g.keys = mergeSorted(g.keys, run)
}

func (g *groupIndex) size() int {
	return len(g.keys)
}
