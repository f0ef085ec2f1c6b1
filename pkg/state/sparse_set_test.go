package state

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func sortedValues(s *SparseSet) []int {
	v := s.Values()
	sort.Ints(v)
	return v
}

func TestSparseSet_RemoveTracksBounds(t *testing.T) {
	tr := NewTrailer()
	s := NewSparseSet(tr, 5, 10) // {10..14}

	require.True(t, s.Remove(10))
	require.False(t, s.Remove(10))
	require.Equal(t, 11, s.Min())
	require.True(t, s.Remove(14))
	require.Equal(t, 13, s.Max())
	require.Equal(t, []int{11, 12, 13}, sortedValues(s))
	require.False(t, s.Contains(9))
	require.False(t, s.Contains(15))
}

func TestSparseSet_RestoreBringsValuesBack(t *testing.T) {
	tr := NewTrailer()
	s := NewSparseSet(tr, 6, 0)

	m := tr.Save()
	s.Remove(2)
	s.RemoveBelow(1)
	s.RemoveAbove(4)
	require.Equal(t, []int{1, 3, 4}, sortedValues(s))

	inner := tr.Save()
	s.RemoveAllBut(3)
	require.Equal(t, 1, s.Size())
	require.Equal(t, 3, s.Min())
	require.Equal(t, 3, s.Max())
	tr.Restore(inner)
	require.Equal(t, []int{1, 3, 4}, sortedValues(s))

	tr.Restore(m)
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, sortedValues(s))
	require.Equal(t, 0, s.Min())
	require.Equal(t, 5, s.Max())
}

func TestSparseSet_RemoveBelowPastMaxEmpties(t *testing.T) {
	tr := NewTrailer()
	s := NewSparseSet(tr, 3, 0)
	s.RemoveBelow(7)
	require.True(t, s.IsEmpty())
	require.Panics(t, func() { s.Min() })
}

func TestSparseSet_String(t *testing.T) {
	tr := NewTrailer()
	s := NewSparseSet(tr, 1, -2)
	require.Equal(t, "{-2}", s.String())
}
