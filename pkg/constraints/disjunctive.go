package constraints

// This file provides the Disjunctive (unary resource) constraint.
//
// Disjunctive models a machine that runs one activity at a time. Activity i
// has a start variable start[i] and a fixed positive duration dur[i]; it
// occupies [start[i], start[i]+dur[i]). No two activities may overlap.
//
// Notation used below, for activity i:
//
//	est = min(start)        lst = max(start)
//	ect = min(start) + dur  lct = max(start) + dur
//
// Propagation runs three Θ-tree rules until a full pass changes nothing:
//   - Overload Checking: for activities taken by increasing lct, fail if
//     the ECT of every activity with lct <= lct_i exceeds lct_i.
//   - Detectable Precedences: j precedes i when ect_i > lst_j; est_i is
//     raised to the ECT of all such j.
//   - Not-Last: if the activities with lst < lct_i (i excluded) cannot all
//     complete before lst_i, then i cannot be last among them, so lct_i is
//     lowered to the largest lst of that set.
//
// A mirror constraint over the time-reversed activities (start' = -end)
// runs the same rules, which yields the symmetric filtering of latest
// start times (and Not-First). Edge-Finding is not implemented.

import (
	"fmt"
	"sort"

	"github.com/gitrdm/gokancp/pkg/cp"
)

// Disjunctive is the unary resource constraint.
type Disjunctive struct {
	*cp.BasePropagator
	start  []cp.IntVar
	end    []cp.IntVar
	dur    []int
	mirror bool

	permEst []int
	rankEst []int
	permLct []int
	permLst []int
	permEct []int
	bound   []int
	tree    *ThetaTree
}

// NewDisjunctive constructs a Disjunctive constraint.
//
// Parameters:
//   - starts: start-time variables (len n > 0)
//   - durations: strictly positive durations (len n; each > 0)
//
// Returns an error on invalid input. The slices are copied.
func NewDisjunctive(starts []cp.IntVar, durations []int) (*Disjunctive, error) {
	n := len(starts)
	if n == 0 {
		return nil, fmt.Errorf("Disjunctive: requires at least one activity: %w", cp.ErrInvalidArgument)
	}
	if len(durations) != n {
		return nil, fmt.Errorf("Disjunctive: mismatched lengths (starts=%d, durations=%d): %w",
			n, len(durations), cp.ErrInvalidArgument)
	}
	for i, d := range durations {
		if d <= 0 {
			return nil, fmt.Errorf("Disjunctive: duration[%d]=%d must be > 0: %w", i, d, cp.ErrInvalidArgument)
		}
	}
	return newDisjunctive(append([]cp.IntVar(nil), starts...), append([]int(nil), durations...), false), nil
}

func newDisjunctive(starts []cp.IntVar, durations []int, mirror bool) *Disjunctive {
	n := len(starts)
	c := &Disjunctive{
		BasePropagator: cp.NewBasePropagator(starts[0].Solver()),
		start:          starts,
		end:            make([]cp.IntVar, n),
		dur:            durations,
		mirror:         mirror,
		permEst:        identity(n),
		rankEst:        make([]int, n),
		permLct:        identity(n),
		permLst:        identity(n),
		permEct:        identity(n),
		bound:          make([]int, n),
		tree:           NewThetaTree(n),
	}
	for i := range starts {
		c.end[i] = cp.Offset(starts[i], durations[i])
	}
	return c
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

// Post subscribes to bound changes, posts the mirror, and filters.
func (c *Disjunctive) Post() error {
	for _, s := range c.start {
		s.PropagateOnBoundChange(c)
	}
	if !c.mirror {
		reversed := make([]cp.IntVar, len(c.start))
		for i := range c.start {
			reversed[i] = cp.Opposite(c.end[i])
		}
		if err := c.Solver().PostWith(newDisjunctive(reversed, c.dur, true), false); err != nil {
			return err
		}
	}
	return c.Propagate()
}

// Propagate runs the three rules to a local fixpoint.
func (c *Disjunctive) Propagate() error {
	for {
		if err := c.overloadCheck(); err != nil {
			return err
		}
		dpChanged, err := c.detectablePrecedences()
		if err != nil {
			return err
		}
		nlChanged, err := c.notLast()
		if err != nil {
			return err
		}
		if !dpChanged && !nlChanged {
			return nil
		}
	}
}

func (c *Disjunctive) est(i int) int { return c.start[i].Min() }
func (c *Disjunctive) lst(i int) int { return c.start[i].Max() }
func (c *Disjunctive) ect(i int) int { return c.end[i].Min() }
func (c *Disjunctive) lct(i int) int { return c.end[i].Max() }

// rankByEst numbers activities by increasing est; ranks are the Θ-tree
// leaves.
func (c *Disjunctive) rankByEst() {
	sort.Slice(c.permEst, func(a, b int) bool { return c.est(c.permEst[a]) < c.est(c.permEst[b]) })
	for r, i := range c.permEst {
		c.rankEst[i] = r
	}
}

func (c *Disjunctive) sortBy(perm []int, key func(int) int) {
	sort.Slice(perm, func(a, b int) bool { return key(perm[a]) < key(perm[b]) })
}

func (c *Disjunctive) overloadCheck() error {
	c.rankByEst()
	c.sortBy(c.permLct, c.lct)
	c.tree.Reset()
	for _, i := range c.permLct {
		c.tree.Insert(c.rankEst[i], c.ect(i), c.dur[i])
		if c.tree.ECT() > c.lct(i) {
			return cp.ErrInconsistent
		}
	}
	return nil
}

func (c *Disjunctive) detectablePrecedences() (bool, error) {
	c.rankByEst()
	c.sortBy(c.permEct, c.ect)
	c.sortBy(c.permLst, c.lst)
	c.tree.Reset()
	for i := range c.bound {
		c.bound[i] = c.est(i)
	}

	q := 0
	for _, i := range c.permEct {
		for q < len(c.permLst) && c.ect(i) > c.lst(c.permLst[q]) {
			j := c.permLst[q]
			c.tree.Insert(c.rankEst[j], c.ect(j), c.dur[j])
			q++
		}
		// i may itself be in Θ (ect_i > lst_i); it never precedes itself
		self := c.ect(i) > c.lst(i)
		if self {
			c.tree.Remove(c.rankEst[i])
		}
		c.bound[i] = max(c.bound[i], c.tree.ECT())
		if self {
			c.tree.Insert(c.rankEst[i], c.ect(i), c.dur[i])
		}
	}

	changed := false
	for i, s := range c.start {
		if c.bound[i] > s.Min() {
			if err := s.RemoveBelow(c.bound[i]); err != nil {
				return false, err
			}
			changed = true
		}
	}
	return changed, nil
}

func (c *Disjunctive) notLast() (bool, error) {
	c.rankByEst()
	c.sortBy(c.permLct, c.lct)
	c.sortBy(c.permLst, c.lst)
	c.tree.Reset()
	for i := range c.bound {
		c.bound[i] = c.lct(i)
	}

	q := 0
	for _, i := range c.permLct {
		for q < len(c.permLst) && c.lct(i) > c.lst(c.permLst[q]) {
			j := c.permLst[q]
			c.tree.Insert(c.rankEst[j], c.ect(j), c.dur[j])
			q++
		}
		// lst_i < lct_i always holds, so i is in Θ here
		c.tree.Remove(c.rankEst[i])
		if c.tree.ECT() > c.lst(i) {
			// the inserted activity with the largest lst, other than i
			k := q - 1
			if c.permLst[k] == i {
				k--
			}
			if k >= 0 {
				c.bound[i] = min(c.bound[i], c.lst(c.permLst[k]))
			}
		}
		c.tree.Insert(c.rankEst[i], c.ect(i), c.dur[i])
	}

	changed := false
	for i, e := range c.end {
		if c.bound[i] < e.Max() {
			if err := e.RemoveAbove(c.bound[i]); err != nil {
				return false, err
			}
			changed = true
		}
	}
	return changed, nil
}
