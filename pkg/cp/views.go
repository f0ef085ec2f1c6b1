package cp

// Views are variables defined as a function of another variable. They own
// no domain: reads translate the underlying domain, writes translate the
// argument, and subscriptions are forwarded unchanged.

// offsetView is y = x + o.
type offsetView struct {
	x IntVar
	o int
}

// Offset returns the view x + o.
func Offset(x IntVar, o int) IntVar {
	if o == 0 {
		return x
	}
	if v, ok := x.(*offsetView); ok {
		return Offset(v.x, v.o+o)
	}
	return &offsetView{x: x, o: o}
}

// Plus is an alias of Offset.
func Plus(x IntVar, o int) IntVar { return Offset(x, o) }

func (v *offsetView) Solver() *Solver { return v.x.Solver() }
func (v *offsetView) Min() int { return v.x.Min() + v.o }
func (v *offsetView) Max() int { return v.x.Max() + v.o }
func (v *offsetView) Size() int { return v.x.Size() }
func (v *offsetView) IsBound() bool { return v.x.IsBound() }
func (v *offsetView) Contains(w int) bool { return v.x.Contains(w - v.o) }
func (v *offsetView) Remove(w int) error { return v.x.Remove(w - v.o) }
func (v *offsetView) Assign(w int) error { return v.x.Assign(w - v.o) }

func (v *offsetView) RemoveBelow(w int) error { return v.x.RemoveBelow(w - v.o) }
func (v *offsetView) RemoveAbove(w int) error { return v.x.RemoveAbove(w - v.o) }

func (v *offsetView) FillArray(dest []int) int {
	n := v.x.FillArray(dest)
	for i := 0; i < n; i++ {
		dest[i] += v.o
	}
	return n
}

func (v *offsetView) WhenBind(f func() error) { v.x.WhenBind(f) }
func (v *offsetView) WhenBoundChange(f func() error) { v.x.WhenBoundChange(f) }
func (v *offsetView) WhenDomainChange(f func() error) { v.x.WhenDomainChange(f) }
func (v *offsetView) PropagateOnBind(p Propagator) { v.x.PropagateOnBind(p) }
func (v *offsetView) PropagateOnBoundChange(p Propagator) { v.x.PropagateOnBoundChange(p) }
func (v *offsetView) PropagateOnDomainChange(p Propagator) { v.x.PropagateOnDomainChange(p) }
func (v *offsetView) String() string { return formatDomain(v) }

// oppositeView is y = -x.
type oppositeView struct {
	x IntVar
}

// Opposite returns the view -x.
func Opposite(x IntVar) IntVar {
	if v, ok := x.(*oppositeView); ok {
		return v.x
	}
	return &oppositeView{x: x}
}

// Minus is an alias of Opposite.
func Minus(x IntVar) IntVar { return Opposite(x) }

func (v *oppositeView) Solver() *Solver { return v.x.Solver() }
func (v *oppositeView) Min() int { return -v.x.Max() }
func (v *oppositeView) Max() int { return -v.x.Min() }
func (v *oppositeView) Size() int { return v.x.Size() }
func (v *oppositeView) IsBound() bool { return v.x.IsBound() }
func (v *oppositeView) Contains(w int) bool { return v.x.Contains(-w) }
func (v *oppositeView) Remove(w int) error { return v.x.Remove(-w) }
func (v *oppositeView) Assign(w int) error { return v.x.Assign(-w) }

func (v *oppositeView) RemoveBelow(w int) error { return v.x.RemoveAbove(-w) }
func (v *oppositeView) RemoveAbove(w int) error { return v.x.RemoveBelow(-w) }

func (v *oppositeView) FillArray(dest []int) int {
	n := v.x.FillArray(dest)
	for i := 0; i < n; i++ {
		dest[i] = -dest[i]
	}
	return n
}

func (v *oppositeView) WhenBind(f func() error) { v.x.WhenBind(f) }
func (v *oppositeView) WhenBoundChange(f func() error) { v.x.WhenBoundChange(f) }
func (v *oppositeView) WhenDomainChange(f func() error) { v.x.WhenDomainChange(f) }
func (v *oppositeView) PropagateOnBind(p Propagator) { v.x.PropagateOnBind(p) }
func (v *oppositeView) PropagateOnBoundChange(p Propagator) { v.x.PropagateOnBoundChange(p) }
func (v *oppositeView) PropagateOnDomainChange(p Propagator) { v.x.PropagateOnDomainChange(p) }
func (v *oppositeView) String() string { return formatDomain(v) }

// mulView is y = a * x with a > 1.
type mulView struct {
	x IntVar
	a int
}

// Mul returns the view a * x. A zero factor gives the constant 0, a
// negative one the opposite of the view over -a.
func Mul(x IntVar, a int) IntVar {
	switch {
	case a == 0:
		return NewIntVar(x.Solver(), 0, 0)
	case a == 1:
		return x
	case a < 0:
		return Opposite(Mul(x, -a))
	}
	return &mulView{x: x, a: a}
}

func floorDiv(v, a int) int {
	q := v / a
	if v%a != 0 && v < 0 {
		q--
	}
	return q
}

func ceilDiv(v, a int) int {
	q := v / a
	if v%a != 0 && v > 0 {
		q++
	}
	return q
}

func (v *mulView) Solver() *Solver { return v.x.Solver() }
func (v *mulView) Min() int { return v.a * v.x.Min() }
func (v *mulView) Max() int { return v.a * v.x.Max() }
func (v *mulView) Size() int { return v.x.Size() }
func (v *mulView) IsBound() bool { return v.x.IsBound() }
func (v *mulView) Contains(w int) bool { return w%v.a == 0 && v.x.Contains(w/v.a) }

func (v *mulView) Remove(w int) error {
	if w%v.a != 0 {
		return nil
	}
	return v.x.Remove(w / v.a)
}

func (v *mulView) Assign(w int) error {
	if w%v.a != 0 {
		return ErrInconsistent
	}
	return v.x.Assign(w / v.a)
}

func (v *mulView) RemoveBelow(w int) error { return v.x.RemoveBelow(ceilDiv(w, v.a)) }
func (v *mulView) RemoveAbove(w int) error { return v.x.RemoveAbove(floorDiv(w, v.a)) }

func (v *mulView) FillArray(dest []int) int {
	n := v.x.FillArray(dest)
	for i := 0; i < n; i++ {
		dest[i] *= v.a
	}
	return n
}

func (v *mulView) WhenBind(f func() error) { v.x.WhenBind(f) }
func (v *mulView) WhenBoundChange(f func() error) { v.x.WhenBoundChange(f) }
func (v *mulView) WhenDomainChange(f func() error) { v.x.WhenDomainChange(f) }
func (v *mulView) PropagateOnBind(p Propagator) { v.x.PropagateOnBind(p) }
func (v *mulView) PropagateOnBoundChange(p Propagator) { v.x.PropagateOnBoundChange(p) }
func (v *mulView) PropagateOnDomainChange(p Propagator) { v.x.PropagateOnDomainChange(p) }
func (v *mulView) String() string { return formatDomain(v) }
