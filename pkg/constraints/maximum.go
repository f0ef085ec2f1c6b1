package constraints

import (
	"fmt"
	"math"

	"github.com/gitrdm/gokancp/pkg/cp"
)

// Maximum enforces y == max(x) on bounds.
type Maximum struct {
	*cp.BasePropagator
	x []cp.IntVar
	y cp.IntVar
}

// NewMaximum creates y == max(x[0], ..., x[n-1]).
func NewMaximum(x []cp.IntVar, y cp.IntVar) (*Maximum, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("Maximum: requires at least one variable: %w", cp.ErrInvalidArgument)
	}
	return &Maximum{
		BasePropagator: cp.NewBasePropagator(y.Solver()),
		x:              append([]cp.IntVar(nil), x...),
		y:              y,
	}, nil
}

func (c *Maximum) Post() error {
	for _, x := range c.x {
		x.PropagateOnBoundChange(c)
	}
	c.y.PropagateOnBoundChange(c)
	return c.Propagate()
}

func (c *Maximum) Propagate() error {
	maxOfMin, maxOfMax := math.MinInt, math.MinInt
	nSupport, support := 0, -1
	for i, x := range c.x {
		if err := x.RemoveAbove(c.y.Max()); err != nil {
			return err
		}
		maxOfMin = max(maxOfMin, x.Min())
		maxOfMax = max(maxOfMax, x.Max())
		if x.Max() >= c.y.Min() {
			nSupport++
			support = i
		}
	}
	// a single variable can still reach y: it must
	if nSupport == 1 {
		if err := c.x[support].RemoveBelow(c.y.Min()); err != nil {
			return err
		}
	}
	if err := c.y.RemoveBelow(maxOfMin); err != nil {
		return err
	}
	return c.y.RemoveAbove(maxOfMax)
}

// MaxOf posts y == max(x) on a fresh y and returns it.
func MaxOf(x ...cp.IntVar) (cp.IntVar, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("MaxOf: requires at least one variable: %w", cp.ErrInvalidArgument)
	}
	lo, hi := math.MinInt, math.MinInt
	for _, v := range x {
		lo, hi = max(lo, v.Min()), max(hi, v.Max())
	}
	s := x[0].Solver()
	y := cp.NewIntVar(s, lo, hi)
	c, err := NewMaximum(x, y)
	if err != nil {
		return nil, err
	}
	if err := s.Post(c); err != nil {
		return nil, err
	}
	return y, nil
}

// MinOf returns min(x) as -max(-x).
func MinOf(x ...cp.IntVar) (cp.IntVar, error) {
	neg := make([]cp.IntVar, len(x))
	for i, v := range x {
		neg[i] = cp.Opposite(v)
	}
	y, err := MaxOf(neg...)
	if err != nil {
		return nil, err
	}
	return cp.Opposite(y), nil
}
