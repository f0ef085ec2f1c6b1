package constraints

import (
	"fmt"

	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/state"
)

// AllDifferentFWC is the forward-checking all-different: when a variable
// becomes bound its value is removed from every other variable. It is much
// weaker than AllDifferentAC but cheap.
type AllDifferentFWC struct {
	*cp.BasePropagator
	x      []cp.IntVar
	fixed  []int
	nFixed *state.Int
}

// NewAllDifferentFWC creates the constraint over x.
func NewAllDifferentFWC(x ...cp.IntVar) (*AllDifferentFWC, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("AllDifferentFWC: requires at least one variable: %w", cp.ErrInvalidArgument)
	}
	s := x[0].Solver()
	fixed := make([]int, len(x))
	for i := range fixed {
		fixed[i] = i
	}
	return &AllDifferentFWC{
		BasePropagator: cp.NewBasePropagator(s),
		x:              append([]cp.IntVar(nil), x...),
		fixed:          fixed,
		nFixed:         s.StateManager().MakeInt(0),
	}, nil
}

func (c *AllDifferentFWC) Post() error {
	for _, x := range c.x {
		x.PropagateOnBind(c)
	}
	return c.Propagate()
}

// Propagate moves newly bound variables to the front of fixed and removes
// their values from the unbound ones. fixed[:nFixed] have already been
// processed at an earlier propagation.
func (c *AllDifferentFWC) Propagate() error {
	nF := c.nFixed.Value()
	for i := nF; i < len(c.x); i++ {
		idx := c.fixed[i]
		if !c.x[idx].IsBound() {
			continue
		}
		c.fixed[i] = c.fixed[nF]
		c.fixed[nF] = idx
		nF++
	}
	for i := c.nFixed.Value(); i < nF; i++ {
		v := c.x[c.fixed[i]].Min()
		for j := nF; j < len(c.x); j++ {
			if err := c.x[c.fixed[j]].Remove(v); err != nil {
				return err
			}
		}
		// two bound variables with the same value
		for j := 0; j < nF; j++ {
			if j != i && c.x[c.fixed[j]].Min() == v {
				return cp.ErrInconsistent
			}
		}
	}
	c.nFixed.SetValue(nF)
	return nil
}

// AllDifferentBinary decomposes all-different into pairwise NotEqual
// constraints. It exists to compare filtering strength; prefer
// AllDifferentAC.
type AllDifferentBinary struct {
	*cp.BasePropagator
	x []cp.IntVar
}

// NewAllDifferentBinary creates the decomposition over x.
func NewAllDifferentBinary(x ...cp.IntVar) (*AllDifferentBinary, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("AllDifferentBinary: requires at least one variable: %w", cp.ErrInvalidArgument)
	}
	return &AllDifferentBinary{
		BasePropagator: cp.NewBasePropagator(x[0].Solver()),
		x:              append([]cp.IntVar(nil), x...),
	}, nil
}

// Post posts one NotEqual per pair; the caller's fixpoint propagates them.
func (c *AllDifferentBinary) Post() error {
	s := c.Solver()
	for i := range c.x {
		for j := i + 1; j < len(c.x); j++ {
			if err := s.PostWith(NewNotEqual(c.x[i], c.x[j], 0), false); err != nil {
				return err
			}
		}
	}
	c.SetActive(false)
	return nil
}
