package models

import (
	"context"
	"fmt"

	"github.com/gitrdm/gokancp/pkg/constraints"
	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/search"
)

// SmallTSP is a symmetric 5-city distance matrix.
var SmallTSP = [][]int{
	{0, 2, 9, 10, 7},
	{2, 0, 6, 4, 3},
	{9, 6, 0, 8, 5},
	{10, 4, 8, 0, 6},
	{7, 3, 5, 6, 0},
}

// TSP is the successor model of a traveling salesman instance: Succ[i] is
// the city visited after i, Circuit makes the successors one tour, and
// Cost[i] = dist[i][Succ[i]] is an Element over row i.
type TSP struct {
	Solver    *cp.Solver
	Dist      [][]int
	Succ      []cp.IntVar
	Cost      []cp.IntVar
	Total     cp.IntVar
	Objective *constraints.Minimize
}

// NewTSP posts the model for a square distance matrix.
func NewTSP(dist [][]int, opts ...cp.Option) (*TSP, error) {
	n := len(dist)
	if n < 2 {
		return nil, fmt.Errorf("tsp: %d cities, need at least 2: %w", n, cp.ErrInvalidArgument)
	}
	horizon := 0
	for i, row := range dist {
		if len(row) != n {
			return nil, fmt.Errorf("tsp: row %d has %d entries, want %d: %w", i, len(row), n, cp.ErrInvalidArgument)
		}
		rowMax := 0
		for _, d := range row {
			if d < 0 {
				return nil, fmt.Errorf("tsp: negative distance in row %d: %w", i, cp.ErrInvalidArgument)
			}
			rowMax = max(rowMax, d)
		}
		horizon += rowMax
	}

	s := cp.NewSolver(opts...)
	m := &TSP{Solver: s, Dist: dist, Succ: make([]cp.IntVar, n), Cost: make([]cp.IntVar, n)}
	for i := range m.Succ {
		m.Succ[i] = cp.NewNamedIntVar(s, 0, n-1, fmt.Sprintf("succ%d", i))
	}
	circuit, err := constraints.NewCircuit(m.Succ...)
	if err != nil {
		return nil, err
	}
	if err := s.Post(circuit); err != nil {
		return nil, fmt.Errorf("tsp: root propagation: %w", err)
	}
	for i := range m.Cost {
		if m.Cost[i], err = constraints.Element(dist[i], m.Succ[i]); err != nil {
			return nil, err
		}
	}
	m.Total = cp.NewNamedIntVar(s, 0, horizon, "total")
	sum, err := constraints.NewSum(m.Cost, m.Total)
	if err != nil {
		return nil, err
	}
	m.Objective = constraints.NewMinimize(m.Total)
	for _, p := range []cp.Propagator{sum, m.Objective} {
		if err := s.Post(p); err != nil {
			return nil, fmt.Errorf("tsp: root propagation: %w", err)
		}
	}
	return m, nil
}

// Tour returns the cities in visiting order starting from 0. Valid inside
// an OnSolution listener.
func (m *TSP) Tour() []int {
	tour := make([]int, 0, len(m.Succ))
	for c := 0; len(tour) < len(m.Succ); c = m.Succ[c].Min() {
		tour = append(tour, c)
	}
	return tour
}

// TSPResult is the outcome of Optimize.
type TSPResult struct {
	Tour      []int
	Length    int
	Solutions int
	Stats     search.Statistics
}

// Optimize runs branch and bound on the tour length.
func (m *TSP) Optimize(ctx context.Context, limit search.Limit, opts ...search.Option) (TSPResult, error) {
	var res TSPResult
	branching := search.And(search.FirstFail(m.Succ...), search.Lexico(m.Total))
	d := search.NewDFSearch(m.Solver.StateManager(), branching, opts...)
	d.OnSolution(func() {
		res.Tour = m.Tour()
		res.Length = m.Total.Min()
		res.Solutions++
	})
	var err error
	res.Stats, err = d.Optimize(ctx, m.Objective, limit)
	return res, err
}
