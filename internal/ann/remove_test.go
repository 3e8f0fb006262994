package ann

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRemoveNotFound(t *testing.T) {
	idx := New[int](2, 4, 16)
	_, err := idx.Remove("missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRemoveReturnsPayload(t *testing.T) {
	idx := New[string](2, 4, 16, WithSeed(1))
	payload := "p"
	require.NoError(t, idx.Insert("a", []float32{0, 0}, &payload))

	got, err := idx.Remove("a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "p", *got)
	assert.False(t, idx.Contains("a"))
	assert.Equal(t, 0, idx.Len())
}

// Removing the middle of five points along the x-axis leaves a search
// finding the other four, none of them the removed node, sorted by
// distance.
func TestRemoveThenSearch(t *testing.T) {
	idx := New[int](3, 4, 16, WithSeed(21))
	for i := 0; i < 5; i++ {
		require.NoError(t, idx.Insert(gridIDn(i), []float32{float32(i), 0, 0}, nil))
	}

	_, err := idx.Remove(gridIDn(2))
	require.NoError(t, err)

	results := idx.Search([]float32{0, 0, 0}, 5)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.NotEqual(t, gridIDn(2), r.ID)
	}
	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i].Distance, results[i-1].Distance)
	}
}

// Removing the entry point still leaves the index searchable, and the
// new entry point refers to a remaining node.
func TestRemoveEntryPointPromotesReplacement(t *testing.T) {
	idx := New[int](2, 4, 16, WithSeed(31))
	for i := 0; i < 5; i++ {
		require.NoError(t, idx.Insert(gridIDn(i), []float32{float32(i), float32(-i)}, nil))
	}

	removedID := idx.nodes[idx.entryPoint].id
	_, err := idx.Remove(removedID)
	require.NoError(t, err)

	require.GreaterOrEqual(t, idx.entryPoint, 0)
	require.Less(t, idx.entryPoint, idx.Len())

	results := idx.Search([]float32{0, 0}, 4)
	assert.Len(t, results, 4)
	for _, r := range results {
		assert.NotEqual(t, removedID, r.ID)
	}
}

// Removing every inserted id empties the index entirely.
func TestRemoveAllEmptiesIndex(t *testing.T) {
	idx := New[int](2, 4, 16, WithSeed(41))
	ids := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		id := gridIDn(i)
		ids = append(ids, id)
		require.NoError(t, idx.Insert(id, []float32{float32(i), float32(i)}, nil))
	}

	for _, id := range ids {
		_, err := idx.Remove(id)
		require.NoError(t, err)
	}

	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, -1, idx.entryPoint)
	assert.Empty(t, idx.AllIDs())
}

func TestRemoveMultipleAllOrNothing(t *testing.T) {
	idx := New[string](2, 4, 16, WithSeed(51))
	pa, pb := "pa", "pb"
	require.NoError(t, idx.Insert("a", []float32{0, 0}, &pa))
	require.NoError(t, idx.Insert("b", []float32{1, 1}, &pb))

	_, err := idx.RemoveMultiple([]string{"a", "missing"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	// No partial mutation: both ids still present.
	assert.Equal(t, 2, idx.Len())
	assert.True(t, idx.Contains("a"))
	assert.True(t, idx.Contains("b"))
}

func TestRemoveMultipleRejectsRepeatedID(t *testing.T) {
	idx := New[int](2, 4, 16, WithSeed(52))
	require.NoError(t, idx.Insert("a", []float32{0, 0}, nil))

	_, err := idx.RemoveMultiple([]string{"a", "a"})
	require.Error(t, err)
	assert.Equal(t, 1, idx.Len())
}

func TestRemoveMultipleSucceedsInOrder(t *testing.T) {
	idx := New[string](2, 4, 16, WithSeed(53))
	pa, pb := "pa", "pb"
	require.NoError(t, idx.Insert("a", []float32{0, 0}, &pa))
	require.NoError(t, idx.Insert("b", []float32{1, 1}, &pb))

	payloads, err := idx.RemoveMultiple([]string{"b", "a"})
	require.NoError(t, err)
	require.Len(t, payloads, 2)
	assert.Equal(t, "pb", *payloads[0])
	assert.Equal(t, "pa", *payloads[1])
	assert.Equal(t, 0, idx.Len())
}

// idToSlot stays a bijection onto [0, Len()) across inserts and removals.
func TestIDBijectionHoldsAfterMutations(t *testing.T) {
	idx := New[int](2, 4, 16, WithSeed(61))
	for i := 0; i < 8; i++ {
		require.NoError(t, idx.Insert(gridIDn(i), []float32{float32(i), 0}, nil))
	}
	_, err := idx.Remove(gridIDn(3))
	require.NoError(t, err)
	_, err = idx.Remove(gridIDn(0))
	require.NoError(t, err)

	assert.Equal(t, len(idx.idToSlot), idx.Len())
	for id, slot := range idx.idToSlot {
		require.GreaterOrEqual(t, slot, 0)
		require.Less(t, slot, idx.Len())
		assert.Equal(t, id, idx.nodes[slot].id)
	}
}

// No node ever links to itself, even after removal re-indexes connections.
func TestNoSelfLoopsAfterRemoval(t *testing.T) {
	idx := New[int](2, 4, 16, WithSeed(71))
	for i := 0; i < 12; i++ {
		require.NoError(t, idx.Insert(gridIDn(i), []float32{float32(i), float32(i % 3)}, nil))
	}
	_, err := idx.Remove(gridIDn(5))
	require.NoError(t, err)

	for i := range idx.nodes {
		for layer, conns := range idx.nodes[i].connections {
			for _, n := range conns {
				assert.NotEqual(t, i, n, "self-loop at slot %d layer %d", i, layer)
			}
		}
	}
}
