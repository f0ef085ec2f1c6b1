package constraints

import (
	"fmt"

	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/state"
)

// IsEqual enforces b <=> x == c.
type IsEqual struct {
	*cp.BasePropagator
	b cp.BoolVar
	x cp.IntVar
	c int
}

// NewIsEqual creates b <=> x == c.
func NewIsEqual(b cp.BoolVar, x cp.IntVar, c int) *IsEqual {
	return &IsEqual{BasePropagator: cp.NewBasePropagator(x.Solver()), b: b, x: x, c: c}
}

func (c *IsEqual) Post() error {
	if err := c.Propagate(); err != nil {
		return err
	}
	if c.IsActive() {
		c.x.PropagateOnDomainChange(c)
		c.b.PropagateOnBind(c)
	}
	return nil
}

func (c *IsEqual) Propagate() error {
	switch {
	case c.b.IsTrue():
		c.SetActive(false)
		return c.x.Assign(c.c)
	case c.b.IsFalse():
		c.SetActive(false)
		return c.x.Remove(c.c)
	case !c.x.Contains(c.c):
		c.SetActive(false)
		return c.b.AssignBool(false)
	case c.x.IsBound():
		c.SetActive(false)
		return c.b.AssignBool(true)
	}
	return nil
}

// IsLessOrEqual enforces b <=> x <= c.
type IsLessOrEqual struct {
	*cp.BasePropagator
	b cp.BoolVar
	x cp.IntVar
	c int
}

// NewIsLessOrEqual creates b <=> x <= c.
func NewIsLessOrEqual(b cp.BoolVar, x cp.IntVar, c int) *IsLessOrEqual {
	return &IsLessOrEqual{BasePropagator: cp.NewBasePropagator(x.Solver()), b: b, x: x, c: c}
}

func (c *IsLessOrEqual) Post() error {
	c.b.PropagateOnBind(c)
	c.x.PropagateOnBoundChange(c)
	return c.Propagate()
}

func (c *IsLessOrEqual) Propagate() error {
	switch {
	case c.b.IsTrue():
		c.SetActive(false)
		return c.x.RemoveAbove(c.c)
	case c.b.IsFalse():
		c.SetActive(false)
		return c.x.RemoveBelow(c.c + 1)
	case c.x.Max() <= c.c:
		c.SetActive(false)
		return c.b.AssignBool(true)
	case c.x.Min() > c.c:
		c.SetActive(false)
		return c.b.AssignBool(false)
	}
	return nil
}

// IsLessOrEqualVar enforces b <=> x <= y. Once b is decided it posts the
// matching LessOrEqual and retires.
type IsLessOrEqualVar struct {
	*cp.BasePropagator
	b    cp.BoolVar
	x, y cp.IntVar
}

// NewIsLessOrEqualVar creates b <=> x <= y.
func NewIsLessOrEqualVar(b cp.BoolVar, x, y cp.IntVar) *IsLessOrEqualVar {
	return &IsLessOrEqualVar{BasePropagator: cp.NewBasePropagator(x.Solver()), b: b, x: x, y: y}
}

func (c *IsLessOrEqualVar) Post() error {
	c.b.PropagateOnBind(c)
	c.x.PropagateOnBoundChange(c)
	c.y.PropagateOnBoundChange(c)
	return c.Propagate()
}

func (c *IsLessOrEqualVar) Propagate() error {
	switch {
	case c.b.IsTrue():
		c.SetActive(false)
		return c.Solver().PostWith(NewLessOrEqual(c.x, c.y), false)
	case c.b.IsFalse():
		c.SetActive(false)
		return c.Solver().PostWith(NewLessOrEqual(cp.Offset(c.y, 1), c.x), false)
	case c.x.Max() <= c.y.Min():
		c.SetActive(false)
		return c.b.AssignBool(true)
	case c.x.Min() > c.y.Max():
		c.SetActive(false)
		return c.b.AssignBool(false)
	}
	return nil
}

// Or enforces that at least one of x is true. Two watched literals, the
// leftmost and rightmost unbound ones, are enough to detect both failure
// and the last remaining support.
type Or struct {
	*cp.BasePropagator
	x      []cp.BoolVar
	wL, wR *state.Int
}

// NewOr creates x[0] or ... or x[n-1].
func NewOr(x ...cp.BoolVar) (*Or, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("Or: requires at least one literal: %w", cp.ErrInvalidArgument)
	}
	s := x[0].Solver()
	return &Or{
		BasePropagator: cp.NewBasePropagator(s),
		x:              append([]cp.BoolVar(nil), x...),
		wL:             s.StateManager().MakeInt(0),
		wR:             s.StateManager().MakeInt(len(x) - 1),
	}, nil
}

func (c *Or) Post() error { return c.Propagate() }

func (c *Or) Propagate() error {
	wL := c.wL.Value()
	for wL < len(c.x) && c.x[wL].IsBound() {
		if c.x[wL].IsTrue() {
			c.SetActive(false)
			return nil
		}
		wL++
	}
	c.wL.SetValue(wL)
	wR := c.wR.Value()
	for wR >= 0 && c.x[wR].IsBound() && wR >= wL {
		if c.x[wR].IsTrue() {
			c.SetActive(false)
			return nil
		}
		wR--
	}
	c.wR.SetValue(wR)

	switch {
	case wL > wR:
		return cp.ErrInconsistent
	case wL == wR:
		c.SetActive(false)
		return c.x[wL].AssignBool(true)
	}
	c.x[wL].PropagateOnBind(c)
	c.x[wR].PropagateOnBind(c)
	return nil
}

// IsOr enforces b <=> x[0] or ... or x[n-1].
type IsOr struct {
	*cp.BasePropagator
	b        cp.BoolVar
	x        []cp.BoolVar
	unbound  []int
	nUnbound *state.Int
}

// NewIsOr creates b <=> x[0] or ... or x[n-1].
func NewIsOr(b cp.BoolVar, x ...cp.BoolVar) (*IsOr, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("IsOr: requires at least one literal: %w", cp.ErrInvalidArgument)
	}
	s := b.Solver()
	return &IsOr{
		BasePropagator: cp.NewBasePropagator(s),
		b:              b,
		x:              append([]cp.BoolVar(nil), x...),
		unbound:        identity(len(x)),
		nUnbound:       s.StateManager().MakeInt(len(x)),
	}, nil
}

func (c *IsOr) Post() error {
	c.b.PropagateOnBind(c)
	for _, x := range c.x {
		x.PropagateOnBind(c)
	}
	return c.Propagate()
}

func (c *IsOr) Propagate() error {
	if c.b.IsTrue() {
		c.SetActive(false)
		or, _ := NewOr(c.x...)
		return c.Solver().PostWith(or, false)
	}
	if c.b.IsFalse() {
		c.SetActive(false)
		for _, x := range c.x {
			if err := x.AssignBool(false); err != nil {
				return err
			}
		}
		return nil
	}
	nU := c.nUnbound.Value()
	for i := nU - 1; i >= 0; i-- {
		idx := c.unbound[i]
		x := c.x[idx]
		if !x.IsBound() {
			continue
		}
		if x.IsTrue() {
			c.SetActive(false)
			return c.b.AssignBool(true)
		}
		c.unbound[i] = c.unbound[nU-1]
		c.unbound[nU-1] = idx
		nU--
	}
	c.nUnbound.SetValue(nU)
	if nU == 0 {
		c.SetActive(false)
		return c.b.AssignBool(false)
	}
	return nil
}

// IsEqualTo posts b <=> x == c on a fresh b and returns it.
func IsEqualTo(x cp.IntVar, c int) (cp.BoolVar, error) {
	b := cp.NewBoolVar(x.Solver())
	if err := x.Solver().Post(NewIsEqual(b, x, c)); err != nil {
		return nil, err
	}
	return b, nil
}

// IsLessOrEqualTo posts b <=> x <= c on a fresh b and returns it.
func IsLessOrEqualTo(x cp.IntVar, c int) (cp.BoolVar, error) {
	b := cp.NewBoolVar(x.Solver())
	if err := x.Solver().Post(NewIsLessOrEqual(b, x, c)); err != nil {
		return nil, err
	}
	return b, nil
}

// IsLessThan returns b <=> x < c.
func IsLessThan(x cp.IntVar, c int) (cp.BoolVar, error) {
	return IsLessOrEqualTo(x, c-1)
}

// IsLargerOrEqualTo returns b <=> x >= c.
func IsLargerOrEqualTo(x cp.IntVar, c int) (cp.BoolVar, error) {
	return IsLessOrEqualTo(cp.Opposite(x), -c)
}

// IsLargerThan returns b <=> x > c.
func IsLargerThan(x cp.IntVar, c int) (cp.BoolVar, error) {
	return IsLargerOrEqualTo(x, c+1)
}
