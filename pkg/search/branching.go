package search

import (
	"fmt"

	"github.com/gitrdm/gokancp/pkg/cp"
)

// Assign is the branch x = v followed by a fixpoint.
func Assign(x cp.IntVar, v int) Branch {
	return func() error {
		if err := x.Assign(v); err != nil {
			return err
		}
		return x.Solver().FixPoint()
	}
}

// Remove is the branch x != v followed by a fixpoint.
func Remove(x cp.IntVar, v int) Branch {
	return func() error {
		if err := x.Remove(v); err != nil {
			return err
		}
		return x.Solver().FixPoint()
	}
}

// binary is the usual two-way split on the minimum of x.
func binary(x cp.IntVar) []Branch {
	v := x.Min()
	return []Branch{Assign(x, v), Remove(x, v)}
}

// FirstFail branches on the unbound variable with the smallest domain
// (ties go to the earliest), trying its minimum first.
func FirstFail(vars ...cp.IntVar) Branching {
	xs := append([]cp.IntVar(nil), vars...)
	return func() []Branch {
		var best cp.IntVar
		for _, x := range xs {
			if !x.IsBound() && (best == nil || x.Size() < best.Size()) {
				best = x
			}
		}
		if best == nil {
			return nil
		}
		return binary(best)
	}
}

// Lexico branches on the first unbound variable in the given order.
func Lexico(vars ...cp.IntVar) Branching {
	xs := append([]cp.IntVar(nil), vars...)
	return func() []Branch {
		for _, x := range xs {
			if !x.IsBound() {
				return binary(x)
			}
		}
		return nil
	}
}

// And uses each branching in turn: the first one that still has
// alternatives decides the node.
func And(branchings ...Branching) Branching {
	return func() []Branch {
		for _, b := range branchings {
			if alts := b(); len(alts) > 0 {
				return alts
			}
		}
		return nil
	}
}

// Sequencer is And under the name used by search-heuristic literature.
func Sequencer(branchings ...Branching) Branching { return And(branchings...) }

// LimitedDiscrepancy restricts b to the nodes reachable with at most
// maxDiscrepancy deviations from its first choice: taking the i-th
// alternative of a node costs i. The counter is reset along each path by
// the branch that enters it, so it needs no trailing.
func LimitedDiscrepancy(b Branching, maxDiscrepancy int) (Branching, error) {
	if maxDiscrepancy < 0 {
		return nil, fmt.Errorf("LimitedDiscrepancy: max discrepancy %d < 0: %w", maxDiscrepancy, cp.ErrInvalidArgument)
	}
	current := 0
	return func() []Branch {
		alts := b()
		k := min(maxDiscrepancy-current+1, len(alts))
		out := make([]Branch, k)
		for i := range out {
			at := current + i
			alt := alts[i]
			out[i] = func() error {
				current = at
				return alt()
			}
		}
		return out
	}, nil
}
