package constraints

import (
	"fmt"
	"math"

	"github.com/gitrdm/gokancp/internal/graphutil"
	"github.com/gitrdm/gokancp/pkg/cp"
)

// AllDifferentAC enforces arc consistency on "all variables take distinct
// values" (Régin's algorithm).
//
// Each propagation repairs a maximum matching, then builds the residual
// graph over variables, values and a sink:
//
//	value -> var    for each matched pair
//	var   -> value  for each other possible pair
//	value -> sink   for each free value
//	sink  -> value  for each matched value
//
// A (var, value) pair outside the matching belongs to some maximum matching
// iff both ends share a strongly connected component; every other pair is
// removed.
type AllDifferentAC struct {
	*cp.BasePropagator
	x []cp.IntVar

	matching *MaximumMatching
	match    []int
	matched  []bool
	minVal   int
	nVal     int

	graph  *graphutil.AdjacencyList
	tarjan graphutil.Tarjan
	buf    []int
}

// NewAllDifferentAC creates the constraint over x. At least one variable is
// required.
func NewAllDifferentAC(x ...cp.IntVar) (*AllDifferentAC, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("AllDifferentAC: requires at least one variable: %w", cp.ErrInvalidArgument)
	}
	vars := append([]cp.IntVar(nil), x...)
	return &AllDifferentAC{
		BasePropagator: cp.NewBasePropagator(vars[0].Solver()),
		x:              vars,
		matching:       NewMaximumMatching(vars...),
		match:          make([]int, len(vars)),
		graph:          graphutil.NewAdjacencyList(0),
	}, nil
}

// Post subscribes to domain changes and filters.
func (c *AllDifferentAC) Post() error {
	for _, x := range c.x {
		x.PropagateOnDomainChange(c)
	}
	return c.Propagate()
}

// Propagate removes every value that belongs to no maximum matching.
func (c *AllDifferentAC) Propagate() error {
	if c.matching.Compute(c.match) < len(c.x) {
		return cp.ErrInconsistent
	}
	c.updateRange()
	c.updateGraph()
	scc := c.tarjan.Compute(c.graph)

	nVar := len(c.x)
	for i, x := range c.x {
		if x.IsBound() {
			continue
		}
		n := x.FillArray(c.buf)
		for _, v := range c.buf[:n] {
			if v != c.match[i] && scc[i] != scc[nVar+v-c.minVal] {
				if err := x.Remove(v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (c *AllDifferentAC) updateRange() {
	lo, hi := math.MaxInt, math.MinInt
	maxSize := 0
	for _, x := range c.x {
		lo = min(lo, x.Min())
		hi = max(hi, x.Max())
		maxSize = max(maxSize, x.Size())
	}
	c.minVal = lo
	c.nVal = hi - lo + 1
	if cap(c.matched) < c.nVal {
		c.matched = make([]bool, c.nVal)
	}
	c.matched = c.matched[:c.nVal]
	if len(c.buf) < maxSize {
		c.buf = make([]int, maxSize)
	}
}

func (c *AllDifferentAC) updateGraph() {
	nVar := len(c.x)
	sink := nVar + c.nVal
	c.graph.Reset(sink + 1)
	clear(c.matched)

	for i, x := range c.x {
		m := c.match[i]
		c.graph.AddEdge(nVar+m-c.minVal, i)
		c.matched[m-c.minVal] = true
		n := x.FillArray(c.buf)
		for _, v := range c.buf[:n] {
			if v != m {
				c.graph.AddEdge(i, nVar+v-c.minVal)
			}
		}
	}
	for k := 0; k < c.nVal; k++ {
		if c.matched[k] {
			c.graph.AddEdge(sink, nVar+k)
		} else {
			c.graph.AddEdge(nVar+k, sink)
		}
	}
}
