package state

import (
	"strconv"
	"strings"
)

// SparseSet is a reversible set of integers drawn from {ofs, ..., ofs+n-1}.
//
// The values array holds a permutation of {0..n-1}; the first size entries
// are the members. Removing a value swaps it past the size boundary, so only
// size, min and max need to be reversible: restoring size brings removed
// values back without touching the permutation.
type SparseSet struct {
	values  []int
	indexes []int
	size    *Int
	min     *Int
	max     *Int
	ofs     int
	n       int
}

// NewSparseSet creates the full set {ofs, ..., ofs+n-1}. n must be positive.
func NewSparseSet(m Manager, n, ofs int) *SparseSet {
	if n <= 0 {
		panic("state: sparse set needs at least one value")
	}
	s := &SparseSet{
		values:  make([]int, n),
		indexes: make([]int, n),
		size:    m.MakeInt(n),
		min:     m.MakeInt(0),
		max:     m.MakeInt(n - 1),
		ofs:     ofs,
		n:       n,
	}
	for i := 0; i < n; i++ {
		s.values[i] = i
		s.indexes[i] = i
	}
	return s
}

func (s *SparseSet) exchangePositions(v1, v2 int) {
	i1, i2 := s.indexes[v1], s.indexes[v2]
	s.values[i1] = v2
	s.values[i2] = v1
	s.indexes[v1] = i2
	s.indexes[v2] = i1
}

// Size returns the number of members.
func (s *SparseSet) Size() int { return s.size.Value() }

// IsEmpty reports whether the set has no member.
func (s *SparseSet) IsEmpty() bool { return s.size.Value() == 0 }

// Min returns the smallest member. It panics on an empty set.
func (s *SparseSet) Min() int {
	if s.IsEmpty() {
		panic("state: Min of empty sparse set")
	}
	return s.min.Value() + s.ofs
}

// Max returns the largest member. It panics on an empty set.
func (s *SparseSet) Max() int {
	if s.IsEmpty() {
		panic("state: Max of empty sparse set")
	}
	return s.max.Value() + s.ofs
}

func (s *SparseSet) internalContains(v int) bool {
	if v < 0 || v >= s.n {
		return false
	}
	return s.indexes[v] < s.size.Value()
}

// Contains reports whether v is a member.
func (s *SparseSet) Contains(v int) bool { return s.internalContains(v - s.ofs) }

func (s *SparseSet) updateBoundsValRemoved(v int) {
	if s.IsEmpty() {
		return
	}
	if s.max.Value() == v {
		for w := v - 1; w >= s.min.Value(); w-- {
			if s.internalContains(w) {
				s.max.SetValue(w)
				break
			}
		}
	}
	if s.min.Value() == v {
		for w := v + 1; w <= s.max.Value(); w++ {
			if s.internalContains(w) {
				s.min.SetValue(w)
				break
			}
		}
	}
}

// Remove deletes v and reports whether it was a member.
func (s *SparseSet) Remove(v int) bool {
	if !s.Contains(v) {
		return false
	}
	v -= s.ofs
	last := s.size.Value() - 1
	s.exchangePositions(v, s.values[last])
	s.size.Decrement()
	s.updateBoundsValRemoved(v)
	return true
}

// RemoveAllBut keeps only v, which must be a member.
func (s *SparseSet) RemoveAllBut(v int) {
	v -= s.ofs
	first := s.values[0]
	index := s.indexes[v]
	s.indexes[v] = 0
	s.values[0] = v
	s.indexes[first] = index
	s.values[index] = first
	s.min.SetValue(v)
	s.max.SetValue(v)
	s.size.SetValue(1)
}

// RemoveAll empties the set.
func (s *SparseSet) RemoveAll() { s.size.SetValue(0) }

// RemoveBelow deletes every member < v.
func (s *SparseSet) RemoveBelow(v int) {
	if s.IsEmpty() {
		return
	}
	if s.Max() < v {
		s.RemoveAll()
		return
	}
	for w := s.Min(); w < v; w++ {
		s.Remove(w)
	}
}

// RemoveAbove deletes every member > v.
func (s *SparseSet) RemoveAbove(v int) {
	if s.IsEmpty() {
		return
	}
	if s.Min() > v {
		s.RemoveAll()
		return
	}
	for w := s.Max(); w > v; w-- {
		s.Remove(w)
	}
}

// FillArray copies the members into dest, which must hold at least Size()
// elements, and returns the count. Order is unspecified.
func (s *SparseSet) FillArray(dest []int) int {
	n := s.size.Value()
	for i := 0; i < n; i++ {
		dest[i] = s.values[i] + s.ofs
	}
	return n
}

// Values returns the members in unspecified order.
func (s *SparseSet) Values() []int {
	out := make([]int, s.Size())
	s.FillArray(out)
	return out
}

func (s *SparseSet) String() string {
	var b strings.Builder
	b.WriteByte('{')
	n := s.size.Value()
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(s.values[i] + s.ofs))
	}
	b.WriteByte('}')
	return b.String()
}
