package engine

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroupIndex(t *testing.T) {
	t.Run("InsertKeepsSorted", func(t *testing.T) {
		g := newGroupIndex(0)
		r := rand.New(rand.NewSource(42))

		for seq := range 200 {
			g.insert(key(r.Intn(50), uint32(seq)))
		}

		require.Equal(t, 200, g.size())
		assert.True(t, slices.IsSortedFunc(g.keys, compareKeys))
	})

	t.Run("EqualTimestampsOrderBySeq", func(t *testing.T) {
		g := newGroupIndex(0)
		g.insert(key(5, 0))
		g.insert(key(5, 1))
		g.insert(key(5, 2))

		assert.Equal(t, []orderKey{key(5, 0), key(5, 1), key(5, 2)}, g.keys)
	})

	t.Run("InsertBeforeExisting", func(t *testing.T) {
		g := newGroupIndex(0)
		g.insert(key(10, 0))
		g.insert(key(1, 1))

		assert.Equal(t, []orderKey{key(1, 1), key(10, 0)}, g.keys)
	})

	t.Run("MergeRunIntoExisting", func(t *testing.T) {
		g := newGroupIndex(0)
		for seq, sec := range []int{1, 3, 5, 7} {
			g.insert(key(sec, uint32(seq)))
		}

		run := []orderKey{key(0, 4), key(4, 5), key(8, 6)}
		g.mergeRun(run)

		require.Equal(t, 7, g.size())
		assert.True(t, slices.IsSortedFunc(g.keys, compareKeys))
		assert.Equal(t, key(0, 4), g.keys[0])
		assert.Equal(t, key(8, 6), g.keys[6])
	})

	t.Run("MergeRunIntoEmpty", func(t *testing.T) {
		g := newGroupIndex(0)
		run := []orderKey{key(1, 0), key(2, 1)}
		g.mergeRun(run)

		assert.Equal(t, run, g.keys)
	})
}
