package constraints

import (
	"fmt"

	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/state"
)

// Circuit enforces that the successor array x forms one Hamiltonian cycle:
// x[i] is the node visited after i. Bound successors link into chains;
// for each chain the reversible arrays keep its first node (orig), its
// last node (dest) and its length, and the edge closing a chain early into
// a cycle is removed.
type Circuit struct {
	*cp.BasePropagator
	x            []cp.IntVar
	dest, orig   []*state.Int
	lengthToDest []*state.Int
}

// NewCircuit creates the circuit constraint over the successors x.
func NewCircuit(x ...cp.IntVar) (*Circuit, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("Circuit: requires at least one node: %w", cp.ErrInvalidArgument)
	}
	s := x[0].Solver()
	sm := s.StateManager()
	c := &Circuit{
		BasePropagator: cp.NewBasePropagator(s),
		x:              append([]cp.IntVar(nil), x...),
		dest:           make([]*state.Int, len(x)),
		orig:           make([]*state.Int, len(x)),
		lengthToDest:   make([]*state.Int, len(x)),
	}
	for i := range x {
		c.dest[i] = sm.MakeInt(i)
		c.orig[i] = sm.MakeInt(i)
		c.lengthToDest[i] = sm.MakeInt(0)
	}
	return c, nil
}

func (c *Circuit) Post() error {
	n := len(c.x)
	if n == 1 {
		return c.x[0].Assign(0)
	}
	for i, x := range c.x {
		if err := x.RemoveBelow(0); err != nil {
			return err
		}
		if err := x.RemoveAbove(n - 1); err != nil {
			return err
		}
		if err := x.Remove(i); err != nil {
			return err
		}
	}
	ad, err := NewAllDifferentAC(c.x...)
	if err != nil {
		return err
	}
	if err := c.Solver().PostWith(ad, false); err != nil {
		return err
	}
	for i, x := range c.x {
		if x.IsBound() {
			if err := c.bind(i); err != nil {
				return err
			}
			continue
		}
		x.WhenBind(func() error { return c.bind(i) })
	}
	return nil
}

// bind joins the chain ending at i with the chain starting at x[i].
func (c *Circuit) bind(i int) error {
	j := c.x[i].Min()
	origI := c.orig[i].Value()
	destJ := c.dest[j].Value()
	c.dest[origI].SetValue(destJ)
	c.orig[destJ].SetValue(origI)
	length := c.lengthToDest[origI].Value() + c.lengthToDest[j].Value() + 1
	c.lengthToDest[origI].SetValue(length)
	if length < len(c.x)-1 {
		return c.x[destJ].Remove(origI)
	}
	return nil
}
