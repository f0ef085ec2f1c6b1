// Package models holds the demo models run by cmd/cpdemo and the
// programs under examples/.
package models

import (
	"context"
	"fmt"

	"github.com/gitrdm/gokancp/pkg/constraints"
	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/search"
)

// Queens is the n-queens model: Q[i] is the column of the queen on row i.
// Columns and both diagonal directions are each one AllDifferentAC.
type Queens struct {
	Solver *cp.Solver
	Q      []cp.IntVar
}

// NewQueens posts the n-queens model on a fresh solver.
func NewQueens(n int, opts ...cp.Option) (*Queens, error) {
	if n <= 0 {
		return nil, fmt.Errorf("queens: n=%d must be > 0: %w", n, cp.ErrInvalidArgument)
	}
	s := cp.NewSolver(opts...)
	q := make([]cp.IntVar, n)
	for i := range q {
		q[i] = cp.NewNamedIntVar(s, 0, n-1, fmt.Sprintf("q%d", i))
	}
	up := make([]cp.IntVar, n)
	down := make([]cp.IntVar, n)
	for i := range q {
		up[i] = cp.Offset(q[i], i)
		down[i] = cp.Offset(q[i], -i)
	}
	for _, xs := range [][]cp.IntVar{q, up, down} {
		c, err := constraints.NewAllDifferentAC(xs...)
		if err != nil {
			return nil, err
		}
		if err := s.Post(c); err != nil {
			return nil, fmt.Errorf("queens: root propagation: %w", err)
		}
	}
	return &Queens{Solver: s, Q: q}, nil
}

// Solution returns the current columns. Valid inside an OnSolution
// listener.
func (m *Queens) Solution() []int {
	out := make([]int, len(m.Q))
	for i, x := range m.Q {
		out[i] = x.Min()
	}
	return out
}

// QueensResult is the outcome of SolveQueens.
type QueensResult struct {
	N     int
	First []int
	Stats search.Statistics
}

// SolveQueens builds the model for n and runs Solve on it.
func SolveQueens(ctx context.Context, n int, limit search.Limit, opts ...search.Option) (QueensResult, error) {
	m, err := NewQueens(n)
	if err != nil {
		return QueensResult{N: n}, err
	}
	return m.Solve(ctx, limit, opts...)
}

// Solve counts solutions up to limit and keeps the first one.
func (m *Queens) Solve(ctx context.Context, limit search.Limit, opts ...search.Option) (QueensResult, error) {
	res := QueensResult{N: len(m.Q)}
	d := search.NewDFSearch(m.Solver.StateManager(), search.FirstFail(m.Q...), opts...)
	d.OnSolution(func() {
		if res.First == nil {
			res.First = m.Solution()
		}
	})
	var err error
	res.Stats, err = d.Solve(ctx, limit)
	return res, err
}

// FormatBoard draws one row per line, "Q" for a queen and "." otherwise.
func FormatBoard(cols []int) string {
	n := len(cols)
	b := make([]byte, 0, n*(n+1))
	for _, c := range cols {
		for j := 0; j < n; j++ {
			if j == c {
				b = append(b, 'Q')
			} else {
				b = append(b, '.')
			}
		}
		b = append(b, '\n')
	}
	return string(b)
}
