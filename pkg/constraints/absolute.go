package constraints

import "github.com/gitrdm/gokancp/pkg/cp"

// Absolute enforces y == |x| on bounds, with domain reasoning once y is
// bound.
type Absolute struct {
	*cp.BasePropagator
	x, y cp.IntVar
}

// NewAbsolute creates y == |x|.
func NewAbsolute(x, y cp.IntVar) *Absolute {
	return &Absolute{BasePropagator: cp.NewBasePropagator(x.Solver()), x: x, y: y}
}

func (c *Absolute) Post() error {
	if err := c.y.RemoveBelow(0); err != nil {
		return err
	}
	c.x.PropagateOnBoundChange(c)
	c.y.PropagateOnBoundChange(c)
	return c.Propagate()
}

func (c *Absolute) Propagate() error {
	x, y := c.x, c.y
	switch {
	case x.IsBound():
		c.SetActive(false)
		v := x.Min()
		if v < 0 {
			v = -v
		}
		return y.Assign(v)
	case y.IsBound():
		c.SetActive(false)
		v := y.Min()
		if !x.Contains(-v) {
			return x.Assign(v)
		}
		if !x.Contains(v) {
			return x.Assign(-v)
		}
		// x in {-v, v}
		return removeAllBut(x, -v, v)
	case x.Min() >= 0:
		return tightenBounds(x.Min(), x.Max(), y, x)
	case x.Max() <= 0:
		return tightenBounds(-x.Max(), -x.Min(), y, cp.Opposite(x))
	}
	maxAbs := max(x.Max(), -x.Min())
	if err := y.RemoveAbove(maxAbs); err != nil {
		return err
	}
	if err := x.RemoveAbove(y.Max()); err != nil {
		return err
	}
	if err := x.RemoveBelow(-y.Max()); err != nil {
		return err
	}
	for !x.Contains(y.Min()) && !x.Contains(-y.Min()) {
		if err := y.Remove(y.Min()); err != nil {
			return err
		}
	}
	return nil
}

// tightenBounds makes y and the non-negative side ax share the bounds
// [lo, hi] of |x|.
func tightenBounds(lo, hi int, y, ax cp.IntVar) error {
	if err := y.RemoveBelow(lo); err != nil {
		return err
	}
	if err := y.RemoveAbove(hi); err != nil {
		return err
	}
	if err := ax.RemoveBelow(y.Min()); err != nil {
		return err
	}
	return ax.RemoveAbove(y.Max())
}

// removeAllBut keeps only the values of x in keep.
func removeAllBut(x cp.IntVar, keep ...int) error {
	lo, hi := keep[0], keep[0]
	for _, v := range keep {
		lo, hi = min(lo, v), max(hi, v)
	}
	if err := x.RemoveBelow(lo); err != nil {
		return err
	}
	if err := x.RemoveAbove(hi); err != nil {
		return err
	}
	buf := make([]int, x.Size())
	n := x.FillArray(buf)
next:
	for _, v := range buf[:n] {
		for _, k := range keep {
			if v == k {
				continue next
			}
		}
		if err := x.Remove(v); err != nil {
			return err
		}
	}
	return nil
}

// Abs posts y == |x| on a fresh y and returns it.
func Abs(x cp.IntVar) (cp.IntVar, error) {
	s := x.Solver()
	y := cp.NewIntVar(s, 0, max(x.Max(), -x.Min(), 0))
	if err := s.Post(NewAbsolute(x, y)); err != nil {
		return nil, err
	}
	return y, nil
}
