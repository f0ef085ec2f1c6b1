package models

import (
	"context"
	"fmt"

	"github.com/gitrdm/gokancp/pkg/constraints"
	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/search"
)

// ZebraAttributes lists the five values of each attribute group. Every
// value is a variable holding the house (0..4) it belongs to.
var ZebraAttributes = [][]string{
	{"red", "green", "white", "yellow", "blue"},
	{"Brit", "Swede", "Dane", "Norwegian", "German"},
	{"tea", "coffee", "milk", "beer", "water"},
	{"PallMall", "Dunhill", "Blend", "BlueMaster", "Prince"},
	{"dog", "bird", "cat", "horse", "zebra"},
}

// Zebra is Einstein's riddle. "Next to" is reified: d = a - b and
// (d == 1) or (d == -1).
type Zebra struct {
	Solver *cp.Solver
	House  map[string]cp.IntVar
	vars   []cp.IntVar
}

// NewZebra posts the riddle on a fresh solver.
func NewZebra(opts ...cp.Option) (*Zebra, error) {
	s := cp.NewSolver(opts...)
	z := &Zebra{Solver: s, House: map[string]cp.IntVar{}}
	for _, group := range ZebraAttributes {
		xs := make([]cp.IntVar, len(group))
		for i, name := range group {
			xs[i] = cp.NewNamedIntVar(s, 0, 4, name)
			z.House[name] = xs[i]
		}
		z.vars = append(z.vars, xs...)
		ad, err := constraints.NewAllDifferentAC(xs...)
		if err != nil {
			return nil, err
		}
		if err := s.Post(ad); err != nil {
			return nil, err
		}
	}

	h := z.House
	same := func(a, b string) error { return s.Post(constraints.NewEqual(h[a], h[b])) }
	steps := []func() error{
		func() error { return same("Brit", "red") },
		func() error { return same("Swede", "dog") },
		func() error { return same("Dane", "tea") },
		func() error { return s.Post(constraints.NewEqual(cp.Offset(h["green"], 1), h["white"])) },
		func() error { return same("green", "coffee") },
		func() error { return same("PallMall", "bird") },
		func() error { return same("yellow", "Dunhill") },
		func() error { return h["milk"].Assign(2) },
		func() error { return h["Norwegian"].Assign(0) },
		func() error { return z.nextTo("Blend", "cat") },
		func() error { return z.nextTo("horse", "Dunhill") },
		func() error { return same("BlueMaster", "beer") },
		func() error { return same("German", "Prince") },
		func() error { return z.nextTo("Norwegian", "blue") },
		func() error { return z.nextTo("water", "Blend") },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("zebra: clue %d: %w", i+1, err)
		}
	}
	if err := s.FixPoint(); err != nil {
		return nil, fmt.Errorf("zebra: root propagation: %w", err)
	}
	return z, nil
}

func (z *Zebra) nextTo(a, b string) error {
	s := z.Solver
	d := cp.NewIntVar(s, -4, 4)
	diff, err := constraints.NewSum([]cp.IntVar{z.House[a], cp.Opposite(z.House[b])}, d)
	if err != nil {
		return err
	}
	if err := s.Post(diff); err != nil {
		return err
	}
	right, err := constraints.IsEqualTo(d, 1)
	if err != nil {
		return err
	}
	left, err := constraints.IsEqualTo(d, -1)
	if err != nil {
		return err
	}
	or, err := constraints.NewOr(right, left)
	if err != nil {
		return err
	}
	return s.Post(or)
}

// ZebraResult is the outcome of Solve: the house of every value of the
// first solution, and the statistics of the full enumeration.
type ZebraResult struct {
	House map[string]int
	Stats search.Statistics
}

// Owner returns the nationality living in the same house as value.
func (r ZebraResult) Owner(value string) string {
	for _, nation := range ZebraAttributes[1] {
		if r.House[nation] == r.House[value] {
			return nation
		}
	}
	return ""
}

// Solve enumerates every solution and keeps the first.
func (z *Zebra) Solve(ctx context.Context, opts ...search.Option) (ZebraResult, error) {
	var res ZebraResult
	d := search.NewDFSearch(z.Solver.StateManager(), search.FirstFail(z.vars...), opts...)
	d.OnSolution(func() {
		if res.House != nil {
			return
		}
		res.House = map[string]int{}
		for name, x := range z.House {
			res.House[name] = x.Min()
		}
	})
	var err error
	res.Stats, err = d.Solve(ctx, nil)
	return res, err
}
