package cp

import "fmt"

// BoolVar is a 0/1 variable: 1 is true, 0 is false. It is used by the
// reified constraints, which link a condition to the truth of a BoolVar.
type BoolVar interface {
	IntVar

	IsTrue() bool
	IsFalse() bool
	AssignBool(b bool) error
}

type boolVar struct {
	IntVar
}

// NewBoolVar creates an unbound BoolVar.
func NewBoolVar(s *Solver) BoolVar {
	return boolVar{IntVar: newNamedIntVar(s, 0, 1, "")}
}

// NewNamedBoolVar is NewBoolVar with a name used by String.
func NewNamedBoolVar(s *Solver, name string) BoolVar {
	return boolVar{IntVar: newNamedIntVar(s, 0, 1, name)}
}

// AsBool reads a variable whose domain lies in {0,1} as a BoolVar.
func AsBool(x IntVar) (BoolVar, error) {
	if b, ok := x.(BoolVar); ok {
		return b, nil
	}
	if x.Min() < 0 || x.Max() > 1 {
		return nil, fmt.Errorf("AsBool: domain %s is not within {0,1}: %w", x, ErrInvalidArgument)
	}
	return boolVar{IntVar: x}, nil
}

func (b boolVar) IsTrue() bool  { return b.Min() == 1 }
func (b boolVar) IsFalse() bool { return b.Max() == 0 }

func (b boolVar) AssignBool(v bool) error {
	if v {
		return b.Assign(1)
	}
	return b.Assign(0)
}

// Not returns the negation 1 - b as a view.
func Not(b BoolVar) BoolVar {
	if n, ok := b.(notView); ok {
		return n.b
	}
	return notView{IntVar: Offset(Opposite(b), 1), b: b}
}

type notView struct {
	IntVar
	b BoolVar
}

func (n notView) IsTrue() bool  { return n.b.IsFalse() }
func (n notView) IsFalse() bool { return n.b.IsTrue() }

func (n notView) AssignBool(v bool) error { return n.b.AssignBool(!v) }
