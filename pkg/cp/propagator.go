package cp

import "github.com/gitrdm/gokancp/pkg/state"

// Propagator is a stateful filtering rule over one or more variables.
//
// Post is called exactly once, when the propagator is added to the solver:
// it subscribes to variable events and performs the initial filtering.
// Propagate is called by the scheduler every time a subscribed event fires;
// it must be idempotent (calling it again with unchanged domains removes
// nothing). Both return ErrInconsistent when the current node is infeasible.
//
// Implementations embed *BasePropagator, which carries the scheduling flags
// and satisfies the unexported part of the interface.
type Propagator interface {
	Post() error
	Propagate() error

	propagatorBase() *BasePropagator
}

// BasePropagator holds the bookkeeping shared by every propagator: the
// owning solver, a reversible active flag and a transient scheduled flag.
// Its Post and Propagate do nothing, so an embedding type only overrides
// what it needs.
type BasePropagator struct {
	solver    *Solver
	active    *state.Bool
	scheduled bool
	id        int
}

// NewBasePropagator creates the base for a propagator of s.
func NewBasePropagator(s *Solver) *BasePropagator {
	return &BasePropagator{
		solver: s,
		active: s.sm.MakeBool(true),
		id:     s.nextPropagatorID(),
	}
}

func (b *BasePropagator) propagatorBase() *BasePropagator { return b }

// Solver returns the owning solver.
func (b *BasePropagator) Solver() *Solver { return b.solver }

// ID returns the solver-assigned identifier.
func (b *BasePropagator) ID() int { return b.id }

// IsActive reports whether the scheduler will still run this propagator.
func (b *BasePropagator) IsActive() bool { return b.active.Value() }

// SetActive enables or disables the propagator. Deactivation is
// reversible: backtracking above the point of deactivation re-enables it.
func (b *BasePropagator) SetActive(active bool) { b.active.SetValue(active) }

// IsScheduled reports whether the propagator sits in the queue.
func (b *BasePropagator) IsScheduled() bool { return b.scheduled }

// Post does nothing.
func (b *BasePropagator) Post() error { return nil }

// Propagate does nothing.
func (b *BasePropagator) Propagate() error { return nil }

// Closure adapts a filtering function to the Propagator contract. It backs
// the When* subscription methods of IntVar.
type Closure struct {
	*BasePropagator
	filter func() error
}

// NewClosure wraps filter as a propagator of s.
func NewClosure(s *Solver, filter func() error) *Closure {
	return &Closure{BasePropagator: NewBasePropagator(s), filter: filter}
}

// Propagate runs the wrapped function.
func (c *Closure) Propagate() error { return c.filter() }
