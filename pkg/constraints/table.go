package constraints

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/gitrdm/gokancp/pkg/cp"
)

// tupleSet is a bit set over tuple indices.
type tupleSet []uint64

func newTupleSet(n int) tupleSet { return make(tupleSet, (n+63)/64) }

func (b tupleSet) set(i int) { b[i/64] |= 1 << (uint(i) % 64) }

func (b tupleSet) fill(n int) {
	for i := range b {
		b[i] = math.MaxUint64
	}
	if r := n % 64; r != 0 {
		b[len(b)-1] = 1<<uint(r) - 1
	}
}

func (b tupleSet) clear() {
	for i := range b {
		b[i] = 0
	}
}

func (b tupleSet) or(o tupleSet) {
	for i := range b {
		b[i] |= o[i]
	}
}

func (b tupleSet) and(o tupleSet) {
	for i := range b {
		b[i] &= o[i]
	}
}

func (b tupleSet) intersects(o tupleSet) bool {
	for i := range b {
		if b[i]&o[i] != 0 {
			return true
		}
	}
	return false
}

func (b tupleSet) countAnd(o tupleSet) int {
	n := 0
	for i := range b {
		n += bits.OnesCount64(b[i] & o[i])
	}
	return n
}

// tupleIndex holds, for every variable and every value of its initial
// domain, the set of tuples that use that value.
type tupleIndex struct {
	x       []cp.IntVar
	offset  []int
	support [][]tupleSet
	nTuples int
}

func newTupleIndex(name string, x []cp.IntVar, table [][]int) (*tupleIndex, error) {
	if len(x) == 0 {
		return nil, fmt.Errorf("%s: requires at least one variable: %w", name, cp.ErrInvalidArgument)
	}
	idx := &tupleIndex{
		x:       append([]cp.IntVar(nil), x...),
		offset:  make([]int, len(x)),
		support: make([][]tupleSet, len(x)),
		nTuples: len(table),
	}
	for i, v := range x {
		idx.offset[i] = v.Min()
		idx.support[i] = make([]tupleSet, v.Max()-v.Min()+1)
		for k := range idx.support[i] {
			idx.support[i][k] = newTupleSet(len(table))
		}
	}
	for t, tuple := range table {
		if len(tuple) != len(x) {
			return nil, fmt.Errorf("%s: tuple %d has arity %d, want %d: %w", name, t, len(tuple), len(x), cp.ErrInvalidArgument)
		}
		for i, v := range tuple {
			if x[i].Contains(v) {
				idx.support[i][v-idx.offset[i]].set(t)
			}
		}
	}
	return idx, nil
}

// unionOf sets dst to the tuples that use a current value of x[i].
func (idx *tupleIndex) unionOf(dst tupleSet, i int, buf []int) {
	dst.clear()
	n := idx.x[i].FillArray(buf)
	for _, v := range buf[:n] {
		dst.or(idx.support[i][v-idx.offset[i]])
	}
}

func (idx *tupleIndex) maxSize() int {
	m := 0
	for _, x := range idx.x {
		m = max(m, x.Size())
	}
	return m
}

// TableCT enforces that x takes the value of one of the tuples of a table,
// with domain consistency. A value stays only if some tuple made of
// current values uses it.
type TableCT struct {
	*cp.BasePropagator
	idx       *tupleIndex
	supported tupleSet
	varSet    tupleSet
	buf       []int
}

// NewTableCT creates the positive table constraint over x.
func NewTableCT(x []cp.IntVar, table [][]int) (*TableCT, error) {
	idx, err := newTupleIndex("TableCT", x, table)
	if err != nil {
		return nil, err
	}
	return &TableCT{
		BasePropagator: cp.NewBasePropagator(x[0].Solver()),
		idx:            idx,
		supported:      newTupleSet(len(table)),
		varSet:         newTupleSet(len(table)),
		buf:            make([]int, idx.maxSize()),
	}, nil
}

func (c *TableCT) Post() error {
	for _, x := range c.idx.x {
		x.PropagateOnDomainChange(c)
	}
	return c.Propagate()
}

func (c *TableCT) Propagate() error {
	c.supported.fill(c.idx.nTuples)
	for i := range c.idx.x {
		c.idx.unionOf(c.varSet, i, c.buf)
		c.supported.and(c.varSet)
	}
	for i, x := range c.idx.x {
		n := x.FillArray(c.buf)
		for _, v := range c.buf[:n] {
			if !c.supported.intersects(c.idx.support[i][v-c.idx.offset[i]]) {
				if err := x.Remove(v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// NegTableCT forbids every tuple of a table. A value is removed when all
// combinations of the other variables' current values are forbidden
// tuples.
type NegTableCT struct {
	*cp.BasePropagator
	idx      *tupleIndex
	menacing tupleSet
	varSet   tupleSet
	sizes    []int
	buf      []int
}

// NewNegTableCT creates the negative table constraint over x. Duplicate
// tuples are dropped.
func NewNegTableCT(x []cp.IntVar, table [][]int) (*NegTableCT, error) {
	seen := map[string]struct{}{}
	unique := make([][]int, 0, len(table))
	for _, tuple := range table {
		key := fmt.Sprint(tuple)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, tuple)
	}
	idx, err := newTupleIndex("NegTableCT", x, unique)
	if err != nil {
		return nil, err
	}
	return &NegTableCT{
		BasePropagator: cp.NewBasePropagator(x[0].Solver()),
		idx:            idx,
		menacing:       newTupleSet(len(unique)),
		varSet:         newTupleSet(len(unique)),
		sizes:          make([]int, len(x)),
		buf:            make([]int, idx.maxSize()),
	}, nil
}

func (c *NegTableCT) Post() error {
	for _, x := range c.idx.x {
		x.PropagateOnDomainChange(c)
	}
	return c.Propagate()
}

// saturatingMul multiplies without overflowing past math.MaxInt.
func saturatingMul(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

func (c *NegTableCT) Propagate() error {
	c.menacing.fill(c.idx.nTuples)
	for i := range c.idx.x {
		c.idx.unionOf(c.varSet, i, c.buf)
		c.menacing.and(c.varSet)
	}
	// sizes are read before any removal, matching the menacing set
	for i, x := range c.idx.x {
		c.sizes[i] = x.Size()
	}
	for i, x := range c.idx.x {
		others := 1
		for j, size := range c.sizes {
			if j != i {
				others = saturatingMul(others, size)
			}
		}
		n := x.FillArray(c.buf)
		for _, v := range c.buf[:n] {
			if c.menacing.countAnd(c.idx.support[i][v-c.idx.offset[i]]) >= others {
				if err := x.Remove(v); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
