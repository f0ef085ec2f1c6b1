package constraints

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/search"
)

// solveAll enumerates the solutions over vars and calls each one with the
// bound values.
func solveAll(t *testing.T, s *cp.Solver, each func([]int), vars ...cp.IntVar) int {
	t.Helper()
	d := search.NewDFSearch(s.StateManager(), search.FirstFail(vars...))
	d.OnSolution(func() {
		if each == nil {
			return
		}
		vals := make([]int, len(vars))
		for i, x := range vars {
			require.True(t, x.IsBound())
			vals[i] = x.Min()
		}
		each(vals)
	})
	stats, err := d.Solve(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, stats.Completed)
	return stats.Solutions
}

func TestIsEqual(t *testing.T) {
	s := cp.NewSolver()
	sm := s.StateManager()
	x := cp.NewIntVar(s, 0, 5)
	b := cp.NewBoolVar(s)
	c := NewIsEqual(b, x, 3)
	require.NoError(t, s.Post(c))
	require.True(t, c.IsActive())

	m := sm.Save()
	require.NoError(t, b.AssignBool(true))
	require.NoError(t, s.FixPoint())
	require.True(t, x.IsBound())
	require.Equal(t, 3, x.Min())
	sm.Restore(m)

	m = sm.Save()
	require.NoError(t, b.AssignBool(false))
	require.NoError(t, s.FixPoint())
	require.False(t, x.Contains(3))
	require.Equal(t, 5, x.Size())
	sm.Restore(m)

	m = sm.Save()
	require.NoError(t, x.Assign(3))
	require.NoError(t, s.FixPoint())
	require.True(t, b.IsTrue())
	sm.Restore(m)

	require.NoError(t, x.Remove(3))
	require.NoError(t, s.FixPoint())
	require.True(t, b.IsFalse())
	require.False(t, c.IsActive())
}

func TestIsEqualTo_BoundAtPost(t *testing.T) {
	s := cp.NewSolver()
	x := cp.NewIntVar(s, 4, 4)
	yes, err := IsEqualTo(x, 4)
	require.NoError(t, err)
	require.True(t, yes.IsTrue())
	no, err := IsEqualTo(x, 2)
	require.NoError(t, err)
	require.True(t, no.IsFalse())
}

func TestIsEqual_Solutions(t *testing.T) {
	s := cp.NewSolver()
	x := cp.NewIntVar(s, 0, 4)
	b, err := IsEqualTo(x, 2)
	require.NoError(t, err)
	n := solveAll(t, s, func(v []int) {
		require.Equal(t, v[0] == 2, v[1] == 1, "x=%d b=%d", v[0], v[1])
	}, x, b)
	require.Equal(t, 5, n)
}

func TestIsLessOrEqual(t *testing.T) {
	s := cp.NewSolver()
	sm := s.StateManager()
	x := cp.NewIntVar(s, 0, 9)
	b := cp.NewBoolVar(s)
	require.NoError(t, s.Post(NewIsLessOrEqual(b, x, 4)))

	m := sm.Save()
	require.NoError(t, x.RemoveAbove(4))
	require.NoError(t, s.FixPoint())
	require.True(t, b.IsTrue())
	sm.Restore(m)

	m = sm.Save()
	require.NoError(t, x.RemoveBelow(5))
	require.NoError(t, s.FixPoint())
	require.True(t, b.IsFalse())
	sm.Restore(m)

	m = sm.Save()
	require.NoError(t, b.AssignBool(false))
	require.NoError(t, s.FixPoint())
	require.Equal(t, 5, x.Min())
	sm.Restore(m)

	require.NoError(t, b.AssignBool(true))
	require.NoError(t, s.FixPoint())
	require.Equal(t, 4, x.Max())
}

func TestIsLessOrEqual_Variants(t *testing.T) {
	s := cp.NewSolver()
	x := cp.NewIntVar(s, 0, 9)
	lt, err := IsLessThan(x, 3)
	require.NoError(t, err)
	ge, err := IsLargerOrEqualTo(x, 3)
	require.NoError(t, err)
	gt, err := IsLargerThan(x, 7)
	require.NoError(t, err)

	require.NoError(t, x.Assign(5))
	require.NoError(t, s.FixPoint())
	require.True(t, lt.IsFalse())
	require.True(t, ge.IsTrue())
	require.True(t, gt.IsFalse())
}

func TestIsLessOrEqualVar(t *testing.T) {
	s := cp.NewSolver()
	sm := s.StateManager()
	x := cp.NewIntVar(s, 0, 9)
	y := cp.NewIntVar(s, 3, 6)
	b := cp.NewBoolVar(s)
	c := NewIsLessOrEqualVar(b, x, y)
	require.NoError(t, s.Post(c))
	require.False(t, b.IsBound())

	m := sm.Save()
	require.NoError(t, b.AssignBool(true))
	require.NoError(t, s.FixPoint())
	require.Equal(t, 6, x.Max())
	sm.Restore(m)
	require.True(t, c.IsActive())
	require.Equal(t, 9, x.Max())

	m = sm.Save()
	require.NoError(t, b.AssignBool(false))
	require.NoError(t, s.FixPoint())
	require.Equal(t, 4, x.Min())
	sm.Restore(m)

	require.NoError(t, x.RemoveAbove(2))
	require.NoError(t, s.FixPoint())
	require.True(t, b.IsTrue())
}

func TestOr(t *testing.T) {
	s := cp.NewSolver()
	sm := s.StateManager()
	x := []cp.BoolVar{cp.NewBoolVar(s), cp.NewBoolVar(s), cp.NewBoolVar(s)}
	c, err := NewOr(x...)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))

	m := sm.Save()
	require.NoError(t, x[0].AssignBool(false))
	require.NoError(t, x[2].AssignBool(false))
	require.NoError(t, s.FixPoint())
	require.True(t, x[1].IsTrue())
	sm.Restore(m)

	require.NoError(t, x[0].AssignBool(true))
	require.NoError(t, s.FixPoint())
	require.False(t, c.IsActive())
	require.False(t, x[1].IsBound())

	s2 := cp.NewSolver()
	f := cp.NewBoolVar(s2)
	require.NoError(t, f.AssignBool(false))
	or, err := NewOr(f)
	require.NoError(t, err)
	require.ErrorIs(t, s2.Post(or), cp.ErrInconsistent)

	_, err = NewOr()
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
}

func TestOr_Solutions(t *testing.T) {
	s := cp.NewSolver()
	x := []cp.BoolVar{cp.NewBoolVar(s), cp.NewBoolVar(s), cp.NewBoolVar(s)}
	c, err := NewOr(x...)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))
	n := solveAll(t, s, func(v []int) {
		require.Positive(t, v[0]+v[1]+v[2])
	}, x[0], x[1], x[2])
	require.Equal(t, 7, n)
}

func TestIsOr(t *testing.T) {
	s := cp.NewSolver()
	sm := s.StateManager()
	b := cp.NewBoolVar(s)
	x := []cp.BoolVar{cp.NewBoolVar(s), cp.NewBoolVar(s), cp.NewBoolVar(s)}
	c, err := NewIsOr(b, x...)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))

	m := sm.Save()
	require.NoError(t, x[1].AssignBool(true))
	require.NoError(t, s.FixPoint())
	require.True(t, b.IsTrue())
	sm.Restore(m)

	m = sm.Save()
	for _, l := range x {
		require.NoError(t, l.AssignBool(false))
	}
	require.NoError(t, s.FixPoint())
	require.True(t, b.IsFalse())
	sm.Restore(m)

	m = sm.Save()
	require.NoError(t, b.AssignBool(false))
	require.NoError(t, s.FixPoint())
	for _, l := range x {
		require.True(t, l.IsFalse())
	}
	sm.Restore(m)

	require.NoError(t, b.AssignBool(true))
	require.NoError(t, x[0].AssignBool(false))
	require.NoError(t, x[1].AssignBool(false))
	require.NoError(t, s.FixPoint())
	require.True(t, x[2].IsTrue())
}

func TestIsOr_Solutions(t *testing.T) {
	s := cp.NewSolver()
	b := cp.NewBoolVar(s)
	x := []cp.BoolVar{cp.NewBoolVar(s), cp.NewBoolVar(s)}
	c, err := NewIsOr(b, x...)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))
	n := solveAll(t, s, func(v []int) {
		require.Equal(t, v[1]+v[2] > 0, v[0] == 1, "%v", v)
	}, b, x[0], x[1])
	require.Equal(t, 4, n)
}
