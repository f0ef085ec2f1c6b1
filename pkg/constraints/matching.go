// Package constraints provides propagators for the cp engine: global
// constraints (all-different, disjunctive) and the basic arithmetic
// relations used to build models around them.
package constraints

import (
	"math"

	"github.com/gitrdm/gokancp/pkg/cp"
)

// unmatched marks a variable without a partner value.
const unmatched = math.MinInt

// MaximumMatching maintains a maximum matching between variables and the
// values of their domains. The matching survives between calls and is
// repaired incrementally: pairs whose value left the domain are dropped and
// the free variables are re-augmented.
//
// Visited marks use a uint64 stamp bumped per augmentation, so they never
// need clearing.
type MaximumMatching struct {
	x []cp.IntVar

	match    []int // var -> value, or unmatched
	varSeen  []uint64
	min      int
	valMatch []int // value-min -> var, or -1
	valSeen  []uint64
	size     int
	magic    uint64
}

// NewMaximumMatching creates the matching over x and seeds it greedily.
func NewMaximumMatching(x ...cp.IntVar) *MaximumMatching {
	m := &MaximumMatching{x: x}
	lo, hi := math.MaxInt, math.MinInt
	for _, v := range x {
		lo = min(lo, v.Min())
		hi = max(hi, v.Max())
	}
	if len(x) == 0 {
		lo, hi = 0, -1
	}
	m.min = lo
	m.valMatch = make([]int, hi-lo+1)
	for i := range m.valMatch {
		m.valMatch[i] = -1
	}
	m.valSeen = make([]uint64, len(m.valMatch))
	m.match = make([]int, len(x))
	for i := range m.match {
		m.match[i] = unmatched
	}
	m.varSeen = make([]uint64, len(x))
	m.findInitialMatching()
	return m
}

// Compute repairs the matching against the current domains, extends it as
// far as possible, copies it into match (len >= len(x)) and returns its
// size. A size below len(x) means the variables cannot all differ.
func (m *MaximumMatching) Compute(match []int) int {
	for k, v := range m.match {
		if v != unmatched && !m.x[k].Contains(v) {
			m.valMatch[v-m.min] = -1
			m.match[k] = unmatched
			m.size--
		}
	}
	if m.size < len(m.x) {
		for k := range m.x {
			if m.match[k] == unmatched {
				m.magic++
				if m.augment(k) {
					m.size++
				}
			}
		}
	}
	copy(match, m.match)
	return m.size
}

func (m *MaximumMatching) findInitialMatching() {
	m.size = 0
	for k, x := range m.x {
		for v := x.Min(); v <= x.Max(); v++ {
			if m.valMatch[v-m.min] < 0 && x.Contains(v) {
				m.match[k] = v
				m.valMatch[v-m.min] = k
				m.size++
				break
			}
		}
	}
}

// augment searches an alternating path from variable i to a free value.
func (m *MaximumMatching) augment(i int) bool {
	if m.varSeen[i] == m.magic {
		return false
	}
	m.varSeen[i] = m.magic
	x := m.x[i]
	for v := x.Min(); v <= x.Max(); v++ {
		if m.match[i] == v || !x.Contains(v) {
			continue
		}
		if m.augmentValue(v) {
			m.match[i] = v
			m.valMatch[v-m.min] = i
			return true
		}
	}
	return false
}

func (m *MaximumMatching) augmentValue(v int) bool {
	j := v - m.min
	if m.valSeen[j] == m.magic {
		return false
	}
	m.valSeen[j] = m.magic
	return m.valMatch[j] == -1 || m.augment(m.valMatch[j])
}
