package models

import (
	"context"
	"fmt"

	"github.com/gitrdm/gokancp/pkg/constraints"
	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/search"
)

// SendMoreMoney is SEND + MORE = MONEY: one digit variable per letter,
// all different, with the column arithmetic folded into a single weighted
// sum over mul views.
type SendMoreMoney struct {
	Solver  *cp.Solver
	Letters map[byte]cp.IntVar
}

const cryptLetters = "SENDMORY"

// NewSendMoreMoney posts the puzzle on a fresh solver.
func NewSendMoreMoney(opts ...cp.Option) (*SendMoreMoney, error) {
	s := cp.NewSolver(opts...)
	m := &SendMoreMoney{Solver: s, Letters: map[byte]cp.IntVar{}}
	vars := make([]cp.IntVar, 0, len(cryptLetters))
	for i := 0; i < len(cryptLetters); i++ {
		c := cryptLetters[i]
		lo := 0
		if c == 'S' || c == 'M' {
			lo = 1
		}
		x := cp.NewNamedIntVar(s, lo, 9, string(c))
		m.Letters[c] = x
		vars = append(vars, x)
	}

	// SEND + MORE - MONEY == 0, collected per letter
	weights := map[byte]int{}
	for word, sign := range map[string]int{"SEND": 1, "MORE": 1, "MONEY": -1} {
		w := sign
		for i := len(word) - 1; i >= 0; i-- {
			weights[word[i]] += w
			w *= 10
		}
	}
	terms := make([]cp.IntVar, 0, len(weights))
	for i := 0; i < len(cryptLetters); i++ {
		c := cryptLetters[i]
		if w := weights[c]; w != 0 {
			terms = append(terms, cp.Mul(m.Letters[c], w))
		}
	}
	sum, err := constraints.NewSumEq(terms, 0)
	if err != nil {
		return nil, err
	}
	ad, err := constraints.NewAllDifferentAC(vars...)
	if err != nil {
		return nil, err
	}
	for _, p := range []cp.Propagator{ad, sum} {
		if err := s.Post(p); err != nil {
			return nil, fmt.Errorf("send-more-money: root propagation: %w", err)
		}
	}
	return m, nil
}

// CryptResult is the outcome of Solve.
type CryptResult struct {
	Digits map[byte]int
	Stats  search.Statistics
}

// Value returns the number spelled by word with the solution's digits.
func (r CryptResult) Value(word string) int {
	v := 0
	for i := 0; i < len(word); i++ {
		v = 10*v + r.Digits[word[i]]
	}
	return v
}

// Solve enumerates every solution and keeps the first.
func (m *SendMoreMoney) Solve(ctx context.Context, opts ...search.Option) (CryptResult, error) {
	vars := make([]cp.IntVar, 0, len(cryptLetters))
	for i := 0; i < len(cryptLetters); i++ {
		vars = append(vars, m.Letters[cryptLetters[i]])
	}
	var res CryptResult
	d := search.NewDFSearch(m.Solver.StateManager(), search.FirstFail(vars...), opts...)
	d.OnSolution(func() {
		if res.Digits != nil {
			return
		}
		res.Digits = map[byte]int{}
		for c, x := range m.Letters {
			res.Digits[c] = x.Min()
		}
	})
	var err error
	res.Stats, err = d.Solve(ctx, nil)
	return res, err
}
