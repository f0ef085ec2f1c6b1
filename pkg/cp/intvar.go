package cp

import (
	"fmt"
	"sort"

	"github.com/gitrdm/gokancp/pkg/state"
)

// IntVar is a finite-domain integer variable.
//
// Mutators shrink the domain through the trail, schedule the subscribed
// propagators, and return ErrInconsistent when the domain becomes empty.
// Subscriptions are reversible: a propagator registered below a mark is
// forgotten when the mark is restored.
type IntVar interface {
	// Solver returns the solver the variable belongs to.
	Solver() *Solver

	Min() int
	Max() int
	Size() int
	IsBound() bool
	Contains(v int) bool

	// FillArray copies the domain into dest (len >= Size()) in unspecified
	// order and returns the count.
	FillArray(dest []int) int

	Remove(v int) error
	Assign(v int) error
	RemoveBelow(v int) error
	RemoveAbove(v int) error

	// WhenBind runs f each time the variable becomes bound.
	WhenBind(f func() error)
	// WhenBoundChange runs f each time the minimum or maximum moves.
	WhenBoundChange(f func() error)
	// WhenDomainChange runs f each time a value is removed.
	WhenDomainChange(f func() error)

	PropagateOnBind(p Propagator)
	PropagateOnBoundChange(p Propagator)
	PropagateOnDomainChange(p Propagator)

	String() string
}

// intVar is the variable backed by its own domain.
type intVar struct {
	solver   *Solver
	domain   IntDomain
	onDomain *state.Stack[Propagator]
	onBind   *state.Stack[Propagator]
	onBounds *state.Stack[Propagator]
	listener varListener
	name     string
}

// varListener turns domain events into scheduling.
type varListener struct {
	x *intVar
}

func (l varListener) Bind() { l.x.scheduleAll(l.x.onBind) }
func (l varListener) Change() { l.x.scheduleAll(l.x.onDomain) }
func (l varListener) ChangeMin() { l.x.scheduleAll(l.x.onBounds) }
func (l varListener) ChangeMax() { l.x.scheduleAll(l.x.onBounds) }

// NewIntVar creates a variable with domain {min..max}. It panics if
// min > max, since an empty initial domain is a modeling error.
func NewIntVar(s *Solver, min, max int) IntVar {
	return newNamedIntVar(s, min, max, "")
}

// NewNamedIntVar is NewIntVar with a name used by String.
func NewNamedIntVar(s *Solver, min, max int, name string) IntVar {
	return newNamedIntVar(s, min, max, name)
}

func newNamedIntVar(s *Solver, min, max int, name string) *intVar {
	if min > max {
		panic(fmt.Sprintf("cp: empty initial domain [%d,%d]", min, max))
	}
	x := &intVar{
		solver:   s,
		domain:   NewSparseSetDomain(s.sm, min, max),
		onDomain: state.NewStack[Propagator](s.sm),
		onBind:   state.NewStack[Propagator](s.sm),
		onBounds: state.NewStack[Propagator](s.sm),
		name:     name,
	}
	x.listener = varListener{x: x}
	s.registerVar(x)
	return x
}

// NewIntVarN creates a variable with domain {0..n-1}.
func NewIntVarN(s *Solver, n int) IntVar {
	return NewIntVar(s, 0, n-1)
}

// NewIntVarValues creates a variable whose domain is exactly values.
func NewIntVarValues(s *Solver, values []int) (IntVar, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("NewIntVarValues: empty value set: %w", ErrInvalidArgument)
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	x := newNamedIntVar(s, sorted[0], sorted[len(sorted)-1], "")
	keep := make(map[int]struct{}, len(sorted))
	for _, v := range sorted {
		keep[v] = struct{}{}
	}
	for v := sorted[0]; v < sorted[len(sorted)-1]; v++ {
		if _, ok := keep[v]; !ok {
			if err := x.Remove(v); err != nil {
				return nil, err
			}
		}
	}
	return x, nil
}

// MakeIntVarArray creates n variables with domain {min..max}.
func MakeIntVarArray(s *Solver, n, min, max int) []IntVar {
	xs := make([]IntVar, n)
	for i := range xs {
		xs[i] = NewIntVar(s, min, max)
	}
	return xs
}

func (x *intVar) scheduleAll(ps *state.Stack[Propagator]) {
	n := ps.Size()
	for i := 0; i < n; i++ {
		x.solver.Schedule(ps.Get(i))
	}
}

func (x *intVar) Solver() *Solver { return x.solver }
func (x *intVar) Min() int { return x.domain.Min() }
func (x *intVar) Max() int { return x.domain.Max() }
func (x *intVar) Size() int { return x.domain.Size() }
func (x *intVar) IsBound() bool { return x.domain.IsBound() }
func (x *intVar) Contains(v int) bool { return x.domain.Contains(v) }
func (x *intVar) FillArray(dest []int) int { return x.domain.FillArray(dest) }
func (x *intVar) Remove(v int) error { return x.domain.Remove(v, x.listener) }
func (x *intVar) Assign(v int) error { return x.domain.RemoveAllBut(v, x.listener) }
func (x *intVar) RemoveBelow(v int) error { return x.domain.RemoveBelow(v, x.listener) }
func (x *intVar) RemoveAbove(v int) error { return x.domain.RemoveAbove(v, x.listener) }
func (x *intVar) PropagateOnBind(p Propagator) { x.onBind.Push(p) }
func (x *intVar) PropagateOnBoundChange(p Propagator) { x.onBounds.Push(p) }
func (x *intVar) PropagateOnDomainChange(p Propagator) { x.onDomain.Push(p) }

func (x *intVar) WhenBind(f func() error) {
	x.onBind.Push(NewClosure(x.solver, f))
}

func (x *intVar) WhenBoundChange(f func() error) {
	x.onBounds.Push(NewClosure(x.solver, f))
}

func (x *intVar) WhenDomainChange(f func() error) {
	x.onDomain.Push(NewClosure(x.solver, f))
}

func (x *intVar) String() string {
	if x.name != "" {
		return x.name + x.domain.String()
	}
	return x.domain.String()
}
