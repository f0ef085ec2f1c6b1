package constraints

import (
	"fmt"

	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/state"
)

// Sum enforces x[0] + ... + x[n-1] == 0 with bounds consistency. The bound
// variables are moved to the tail of an index array and their total is kept
// in a reversible cell, so each propagation only scans the free ones.
type Sum struct {
	*cp.BasePropagator
	x         []cp.IntVar
	unbound   []int
	nUnbound  *state.Int
	sumBounds *state.Int
}

// NewSum creates x[0] + ... + x[n-1] == y.
func NewSum(x []cp.IntVar, y cp.IntVar) (*Sum, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("Sum: requires at least one term: %w", cp.ErrInvalidArgument)
	}
	terms := make([]cp.IntVar, 0, len(x)+1)
	terms = append(terms, x...)
	return newSum(append(terms, cp.Opposite(y))), nil
}

// NewSumEq creates x[0] + ... + x[n-1] == c.
func NewSumEq(x []cp.IntVar, c int) (*Sum, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("SumEq: requires at least one term: %w", cp.ErrInvalidArgument)
	}
	terms := make([]cp.IntVar, 0, len(x)+1)
	terms = append(terms, x...)
	return newSum(append(terms, cp.NewIntVar(x[0].Solver(), -c, -c))), nil
}

func newSum(x []cp.IntVar) *Sum {
	s := x[0].Solver()
	sm := s.StateManager()
	unbound := make([]int, len(x))
	for i := range unbound {
		unbound[i] = i
	}
	return &Sum{
		BasePropagator: cp.NewBasePropagator(s),
		x:              x,
		unbound:        unbound,
		nUnbound:       sm.MakeInt(len(x)),
		sumBounds:      sm.MakeInt(0),
	}
}

func (c *Sum) Post() error {
	for _, x := range c.x {
		x.PropagateOnBoundChange(c)
	}
	return c.Propagate()
}

func (c *Sum) Propagate() error {
	nU := c.nUnbound.Value()
	sumMin, sumMax := c.sumBounds.Value(), c.sumBounds.Value()
	for i := nU - 1; i >= 0; i-- {
		idx := c.unbound[i]
		x := c.x[idx]
		sumMin += x.Min()
		sumMax += x.Max()
		if x.IsBound() {
			c.sumBounds.SetValue(c.sumBounds.Value() + x.Min())
			c.unbound[i] = c.unbound[nU-1]
			c.unbound[nU-1] = idx
			nU--
		}
	}
	c.nUnbound.SetValue(nU)
	if sumMin > 0 || sumMax < 0 {
		return cp.ErrInconsistent
	}
	for i := nU - 1; i >= 0; i-- {
		x := c.x[c.unbound[i]]
		lo, hi := x.Min(), x.Max()
		if err := x.RemoveAbove(-(sumMin - lo)); err != nil {
			return err
		}
		if err := x.RemoveBelow(-(sumMax - hi)); err != nil {
			return err
		}
	}
	return nil
}
