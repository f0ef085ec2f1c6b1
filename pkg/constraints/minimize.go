package constraints

import (
	"errors"
	"math"

	"github.com/gitrdm/gokancp/pkg/cp"
)

// ErrObjectiveUnbound is returned by Tighten when the objective variable is
// not bound, i.e. Tighten was called outside a solution.
var ErrObjectiveUnbound = errors.New("objective not bound")

// Minimize is a branch-and-bound objective: after each solution the bound
// drops below the solution's value, and every fixpoint re-applies it. The
// bound is a plain field, not reversible state, so it survives
// backtracking.
type Minimize struct {
	*cp.BasePropagator
	x     cp.IntVar
	bound int
}

// NewMinimize creates the objective "minimize x".
func NewMinimize(x cp.IntVar) *Minimize {
	return &Minimize{BasePropagator: cp.NewBasePropagator(x.Solver()), x: x, bound: math.MaxInt}
}

// Post hooks the objective into every fixpoint.
//
// The hook goes through Solver.OnFixPoint and is not reversible: a
// Minimize posted inside a saved level, e.g. from a SolveSubjectTo
// callback, keeps being scheduled with its bound after that level is
// restored. Objectives belong at the root of the model.
func (c *Minimize) Post() error {
	c.x.PropagateOnBoundChange(c)
	s := c.Solver()
	s.OnFixPoint(func() error {
		s.Schedule(c)
		return nil
	})
	return c.Propagate()
}

func (c *Minimize) Propagate() error {
	return c.x.RemoveAbove(c.bound)
}

// Tighten records the current solution: later solutions must be strictly
// better.
func (c *Minimize) Tighten() error {
	if !c.x.IsBound() {
		return ErrObjectiveUnbound
	}
	c.bound = c.x.Max() - 1
	return nil
}

// Bound returns the largest value still accepted for x.
func (c *Minimize) Bound() int { return c.bound }

// NewMaximize returns the objective "maximize x", expressed as minimizing -x.
func NewMaximize(x cp.IntVar) *Minimize {
	return NewMinimize(cp.Opposite(x))
}
