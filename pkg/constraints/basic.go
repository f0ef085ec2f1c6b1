package constraints

import "github.com/gitrdm/gokancp/pkg/cp"

// NotEqual enforces x != y + c. It waits for one side to be bound, removes
// the forbidden value from the other and then deactivates itself.
type NotEqual struct {
	*cp.BasePropagator
	x, y cp.IntVar
	c    int
}

// NewNotEqual creates x != y + c.
func NewNotEqual(x, y cp.IntVar, c int) *NotEqual {
	return &NotEqual{BasePropagator: cp.NewBasePropagator(x.Solver()), x: x, y: y, c: c}
}

func (c *NotEqual) Post() error {
	switch {
	case c.y.IsBound():
		return c.x.Remove(c.y.Min() + c.c)
	case c.x.IsBound():
		return c.y.Remove(c.x.Min() - c.c)
	}
	c.x.PropagateOnBind(c)
	c.y.PropagateOnBind(c)
	return nil
}

func (c *NotEqual) Propagate() error {
	c.SetActive(false)
	if c.y.IsBound() {
		return c.x.Remove(c.y.Min() + c.c)
	}
	return c.y.Remove(c.x.Min() - c.c)
}

// LessOrEqual enforces x <= y on bounds.
type LessOrEqual struct {
	*cp.BasePropagator
	x, y cp.IntVar
}

// NewLessOrEqual creates x <= y.
func NewLessOrEqual(x, y cp.IntVar) *LessOrEqual {
	return &LessOrEqual{BasePropagator: cp.NewBasePropagator(x.Solver()), x: x, y: y}
}

func (c *LessOrEqual) Post() error {
	c.x.PropagateOnBoundChange(c)
	c.y.PropagateOnBoundChange(c)
	return c.Propagate()
}

func (c *LessOrEqual) Propagate() error {
	if err := c.x.RemoveAbove(c.y.Max()); err != nil {
		return err
	}
	if err := c.y.RemoveBelow(c.x.Min()); err != nil {
		return err
	}
	if c.x.Max() <= c.y.Min() {
		// entailed
		c.SetActive(false)
	}
	return nil
}

// Equal enforces x == y with domain consistency: every value missing from
// one domain is removed from the other.
type Equal struct {
	*cp.BasePropagator
	x, y cp.IntVar
	buf  []int
}

// NewEqual creates x == y.
func NewEqual(x, y cp.IntVar) *Equal {
	return &Equal{BasePropagator: cp.NewBasePropagator(x.Solver()), x: x, y: y}
}

func (c *Equal) Post() error {
	if c.y.IsBound() {
		return c.x.Assign(c.y.Min())
	}
	if c.x.IsBound() {
		return c.y.Assign(c.x.Min())
	}
	c.x.PropagateOnDomainChange(c)
	c.y.PropagateOnDomainChange(c)
	return c.Propagate()
}

func (c *Equal) Propagate() error {
	if err := c.intersectBounds(); err != nil {
		return err
	}
	if err := c.prune(c.x, c.y); err != nil {
		return err
	}
	return c.prune(c.y, c.x)
}

func (c *Equal) intersectBounds() error {
	lo := max(c.x.Min(), c.y.Min())
	hi := min(c.x.Max(), c.y.Max())
	for _, v := range []cp.IntVar{c.x, c.y} {
		if err := v.RemoveBelow(lo); err != nil {
			return err
		}
		if err := v.RemoveAbove(hi); err != nil {
			return err
		}
	}
	return nil
}

// prune removes from to every value of to that from lacks.
func (c *Equal) prune(from, to cp.IntVar) error {
	if cap(c.buf) < to.Size() {
		c.buf = make([]int, to.Size())
	}
	n := to.FillArray(c.buf[:to.Size()])
	for _, v := range c.buf[:n] {
		if !from.Contains(v) {
			if err := to.Remove(v); err != nil {
				return err
			}
		}
	}
	return nil
}
