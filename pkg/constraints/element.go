package constraints

import (
	"fmt"
	"math"
	"sort"

	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/state"
)

type tableEntry struct {
	x, y, z int
}

// Element2D enforces t[x][y] == z. The entries are sorted by value and
// the reversible window [low, up] is shrunk from both ends past entries
// that are no longer supported. z takes the bounds of the window; each row
// and column counts its entries inside the window and is removed from x or
// y when the count drops to zero.
type Element2D struct {
	*cp.BasePropagator
	x, y, z  cp.IntVar
	n, m     int
	entries  []tableEntry
	low, up  *state.Int
	rowCount []*state.Int
	colCount []*state.Int
}

// NewElement2D creates t[x][y] == z. t must be a non-empty rectangular
// matrix.
func NewElement2D(t [][]int, x, y, z cp.IntVar) (*Element2D, error) {
	if len(t) == 0 || len(t[0]) == 0 {
		return nil, fmt.Errorf("Element2D: empty matrix: %w", cp.ErrInvalidArgument)
	}
	n, m := len(t), len(t[0])
	entries := make([]tableEntry, 0, n*m)
	for i, row := range t {
		if len(row) != m {
			return nil, fmt.Errorf("Element2D: row %d has %d columns, want %d: %w", i, len(row), m, cp.ErrInvalidArgument)
		}
		for j, v := range row {
			entries = append(entries, tableEntry{i, j, v})
		}
	}
	sort.SliceStable(entries, func(a, b int) bool { return entries[a].z < entries[b].z })

	sm := x.Solver().StateManager()
	c := &Element2D{
		BasePropagator: cp.NewBasePropagator(x.Solver()),
		x:              x,
		y:              y,
		z:              z,
		n:              n,
		m:              m,
		entries:        entries,
		low:            sm.MakeInt(0),
		up:             sm.MakeInt(len(entries) - 1),
		rowCount:       make([]*state.Int, n),
		colCount:       make([]*state.Int, m),
	}
	for i := range c.rowCount {
		c.rowCount[i] = sm.MakeInt(m)
	}
	for j := range c.colCount {
		c.colCount[j] = sm.MakeInt(n)
	}
	return c, nil
}

func (c *Element2D) Post() error {
	for _, err := range []error{
		c.x.RemoveBelow(0), c.x.RemoveAbove(c.n - 1),
		c.y.RemoveBelow(0), c.y.RemoveAbove(c.m - 1),
	} {
		if err != nil {
			return err
		}
	}
	c.x.PropagateOnDomainChange(c)
	c.y.PropagateOnDomainChange(c)
	c.z.PropagateOnBoundChange(c)
	return c.Propagate()
}

func (c *Element2D) supported(e tableEntry, zMin, zMax int) bool {
	return e.z >= zMin && e.z <= zMax && c.x.Contains(e.x) && c.y.Contains(e.y)
}

// drop takes entry e out of the window.
func (c *Element2D) drop(e tableEntry) error {
	if c.rowCount[e.x].Decrement() == 0 {
		if err := c.x.Remove(e.x); err != nil {
			return err
		}
	}
	if c.colCount[e.y].Decrement() == 0 {
		return c.y.Remove(e.y)
	}
	return nil
}

func (c *Element2D) Propagate() error {
	l, u := c.low.Value(), c.up.Value()
	zMin, zMax := c.z.Min(), c.z.Max()
	for ; l <= u && !c.supported(c.entries[l], zMin, zMax); l++ {
		if err := c.drop(c.entries[l]); err != nil {
			return err
		}
	}
	for ; u >= l && !c.supported(c.entries[u], zMin, zMax); u-- {
		if err := c.drop(c.entries[u]); err != nil {
			return err
		}
	}
	c.low.SetValue(l)
	c.up.SetValue(u)
	if l > u {
		return cp.ErrInconsistent
	}
	if err := c.z.RemoveBelow(c.entries[l].z); err != nil {
		return err
	}
	return c.z.RemoveAbove(c.entries[u].z)
}

// NewElement1D creates t[y] == z as a one-row Element2D.
func NewElement1D(t []int, y, z cp.IntVar) (*Element2D, error) {
	row := cp.NewIntVar(y.Solver(), 0, 0)
	return NewElement2D([][]int{t}, row, y, z)
}

// Element posts z == t[y] on a fresh z and returns it.
func Element(t []int, y cp.IntVar) (cp.IntVar, error) {
	if len(t) == 0 {
		return nil, fmt.Errorf("Element: empty array: %w", cp.ErrInvalidArgument)
	}
	lo, hi := math.MaxInt, math.MinInt
	for _, v := range t {
		lo, hi = min(lo, v), max(hi, v)
	}
	s := y.Solver()
	z := cp.NewIntVar(s, lo, hi)
	c, err := NewElement1D(t, y, z)
	if err != nil {
		return nil, err
	}
	if err := s.Post(c); err != nil {
		return nil, err
	}
	return z, nil
}

// Element2DOf posts z == t[x][y] on a fresh z and returns it.
func Element2DOf(t [][]int, x, y cp.IntVar) (cp.IntVar, error) {
	lo, hi := math.MaxInt, math.MinInt
	for _, row := range t {
		for _, v := range row {
			lo, hi = min(lo, v), max(hi, v)
		}
	}
	if lo > hi {
		return nil, fmt.Errorf("Element2DOf: empty matrix: %w", cp.ErrInvalidArgument)
	}
	s := x.Solver()
	z := cp.NewIntVar(s, lo, hi)
	c, err := NewElement2D(t, x, y, z)
	if err != nil {
		return nil, err
	}
	if err := s.Post(c); err != nil {
		return nil, err
	}
	return z, nil
}

// Element1DVar enforces array[y] == z where the array holds variables.
// Indices whose variable cannot meet z's bounds are removed from y; z is
// bounded by the surviving variables, and once y is bound the selected
// variable and z share bounds.
type Element1DVar struct {
	*cp.BasePropagator
	array []cp.IntVar
	y, z  cp.IntVar
	buf   []int
}

// NewElement1DVar creates array[y] == z.
func NewElement1DVar(array []cp.IntVar, y, z cp.IntVar) (*Element1DVar, error) {
	if len(array) == 0 {
		return nil, fmt.Errorf("Element1DVar: empty array: %w", cp.ErrInvalidArgument)
	}
	return &Element1DVar{
		BasePropagator: cp.NewBasePropagator(y.Solver()),
		array:          append([]cp.IntVar(nil), array...),
		y:              y,
		z:              z,
		buf:            make([]int, y.Size()),
	}, nil
}

func (c *Element1DVar) Post() error {
	if err := c.y.RemoveBelow(0); err != nil {
		return err
	}
	if err := c.y.RemoveAbove(len(c.array) - 1); err != nil {
		return err
	}
	for _, t := range c.array {
		t.PropagateOnBoundChange(c)
	}
	c.y.PropagateOnDomainChange(c)
	c.z.PropagateOnBoundChange(c)
	return c.Propagate()
}

func (c *Element1DVar) Propagate() error {
	zMin, zMax := c.z.Min(), c.z.Max()
	if !c.y.IsBound() {
		supMin, supMax := math.MaxInt, math.MinInt
		n := c.y.FillArray(c.buf)
		for _, id := range c.buf[:n] {
			t := c.array[id]
			if t.Max() < zMin || t.Min() > zMax {
				if err := c.y.Remove(id); err != nil {
					return err
				}
				continue
			}
			supMin, supMax = min(supMin, t.Min()), max(supMax, t.Max())
		}
		if !c.y.IsBound() {
			if err := c.z.RemoveBelow(supMin); err != nil {
				return err
			}
			return c.z.RemoveAbove(supMax)
		}
	}
	t := c.array[c.y.Min()]
	if err := t.RemoveBelow(zMin); err != nil {
		return err
	}
	if err := t.RemoveAbove(zMax); err != nil {
		return err
	}
	if err := c.z.RemoveBelow(t.Min()); err != nil {
		return err
	}
	return c.z.RemoveAbove(t.Max())
}
