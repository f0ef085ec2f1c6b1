package cp

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOffsetView(t *testing.T) {
	s := NewSolver()
	x := NewIntVar(s, 0, 4)
	y := Offset(x, 10)
	require.Equal(t, 10, y.Min())
	require.Equal(t, 14, y.Max())
	require.True(t, y.Contains(12))
	require.False(t, y.Contains(2))

	require.NoError(t, y.RemoveBelow(12))
	require.Equal(t, 2, x.Min())
	require.NoError(t, y.Remove(14))
	require.Equal(t, 3, x.Max())
	require.Equal(t, "{12,13}", y.String())

	buf := make([]int, y.Size())
	n := y.FillArray(buf)
	sort.Ints(buf[:n])
	require.Equal(t, []int{12, 13}, buf[:n])

	require.ErrorIs(t, y.Assign(20), ErrInconsistent)
}

func TestOffsetView_Flattens(t *testing.T) {
	s := NewSolver()
	x := NewIntVar(s, 0, 4)
	require.Same(t, x, Offset(x, 0))
	y := Offset(Offset(x, 3), -1)
	require.Equal(t, 2, y.Min())
	require.Same(t, x, Offset(Offset(x, 3), -3))
}

func TestOppositeView(t *testing.T) {
	s := NewSolver()
	x := NewIntVar(s, 1, 5)
	y := Opposite(x)
	require.Equal(t, -5, y.Min())
	require.Equal(t, -1, y.Max())

	require.NoError(t, y.RemoveBelow(-3))
	require.Equal(t, 3, x.Max())
	require.NoError(t, y.RemoveAbove(-2))
	require.Equal(t, 2, x.Min())
	require.Equal(t, "{-3,-2}", y.String())
	require.Same(t, x, Opposite(y))

	require.NoError(t, y.Assign(-2))
	require.True(t, x.IsBound())
	require.Equal(t, 2, x.Min())
}

func TestViews_ForwardSubscriptions(t *testing.T) {
	s := NewSolver()
	x := NewIntVar(s, 0, 9)
	y := Opposite(Offset(x, 2))
	fired := 0
	y.WhenBoundChange(func() error {
		fired++
		return nil
	})
	require.NoError(t, x.RemoveAbove(5))
	require.NoError(t, s.FixPoint())
	require.Equal(t, 1, fired)
	require.Equal(t, -7, y.Min())
}

func TestNewIntVarValues(t *testing.T) {
	s := NewSolver()
	x, err := NewIntVarValues(s, []int{7, 1, 4})
	require.NoError(t, err)
	require.Equal(t, "{1,4,7}", x.String())
	require.Equal(t, 3, x.Size())

	_, err = NewIntVarValues(s, nil)
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestNewIntVar_PanicsOnEmptyDomain(t *testing.T) {
	s := NewSolver()
	require.Panics(t, func() { NewIntVar(s, 3, 2) })
}

func TestNamedIntVar(t *testing.T) {
	s := NewSolver()
	x := NewNamedIntVar(s, 0, 2, "x")
	require.Equal(t, "x{0,1,2}", x.String())
}

func TestMonitor_Stats(t *testing.T) {
	m := NewMonitor()
	s := NewSolver(WithMonitor(m), WithConfig(&Config{QueueCapacity: 4, Name: "test"}))
	require.Equal(t, "test", s.Config().Name)

	x := NewIntVar(s, 0, 3)
	x.WhenDomainChange(func() error { return nil })
	s.StateManager().Save()
	require.NoError(t, x.Remove(1))
	require.NoError(t, s.FixPoint())
	require.ErrorIs(t, x.RemoveAbove(-1), ErrInconsistent)

	st := m.Stats()
	require.Equal(t, 1, st.FixPoints)
	require.Equal(t, 1, st.Propagations)
	require.Equal(t, 1, st.PeakQueueSize)
	require.Positive(t, st.PeakTrailSize)
	require.Contains(t, st.String(), "fixpoints=1")
}

func ExampleOpposite() {
	s := NewSolver()
	x := NewIntVar(s, 2, 4)
	fmt.Println(Opposite(x))
	fmt.Println(Offset(x, -2))
	// Output:
	// {-4,-3,-2}
	// {0,1,2}
}

func TestMulView(t *testing.T) {
	s := NewSolver()
	x := NewIntVar(s, -2, 3)
	y := Mul(x, 3)
	require.Equal(t, -6, y.Min())
	require.Equal(t, 9, y.Max())
	require.True(t, y.Contains(6))
	require.False(t, y.Contains(5))
	require.Equal(t, "{-6,-3,0,3,6,9}", y.String())

	require.NoError(t, y.RemoveBelow(-4))
	require.Equal(t, -1, x.Min(), "ceil(-4/3) = -1")
	require.NoError(t, y.RemoveAbove(7))
	require.Equal(t, 2, x.Max(), "floor(7/3) = 2")
	require.NoError(t, y.Remove(4))
	require.Equal(t, 4, x.Size(), "4 is not a multiple of 3")
	require.NoError(t, y.Remove(3))
	require.False(t, x.Contains(1))
	require.ErrorIs(t, y.Assign(5), ErrInconsistent)

	buf := make([]int, y.Size())
	n := y.FillArray(buf)
	sort.Ints(buf[:n])
	require.Equal(t, []int{-3, 0, 6}, buf[:n])
}

func TestMulView_Factors(t *testing.T) {
	s := NewSolver()
	x := NewIntVar(s, 1, 2)
	require.Same(t, x, Mul(x, 1))
	require.Equal(t, "{0}", Mul(x, 0).String())

	y := Mul(x, -2)
	require.Equal(t, "{-4,-2}", y.String())
	require.NoError(t, y.RemoveBelow(-3))
	require.True(t, x.IsBound())
	require.Equal(t, 1, x.Min())
}

func TestFloorCeilDiv(t *testing.T) {
	for _, tc := range []struct{ v, a, floor, ceil int }{
		{7, 3, 2, 3}, {-7, 3, -3, -2}, {6, 3, 2, 2}, {-6, 3, -2, -2}, {0, 5, 0, 0},
	} {
		require.Equal(t, tc.floor, floorDiv(tc.v, tc.a), "floor %d/%d", tc.v, tc.a)
		require.Equal(t, tc.ceil, ceilDiv(tc.v, tc.a), "ceil %d/%d", tc.v, tc.a)
	}
}

func TestBoolVar(t *testing.T) {
	s := NewSolver()
	b := NewNamedBoolVar(s, "b")
	require.False(t, b.IsTrue())
	require.False(t, b.IsFalse())
	require.Equal(t, "b{0,1}", b.String())

	nb := Not(b)
	require.Equal(t, b, Not(nb))
	m := s.StateManager().Save()
	require.NoError(t, nb.AssignBool(true))
	require.True(t, b.IsFalse())
	require.True(t, nb.IsTrue())
	s.StateManager().Restore(m)

	require.NoError(t, b.AssignBool(true))
	require.True(t, b.IsTrue())
	require.Equal(t, 0, nb.Max())
}

func TestAsBool(t *testing.T) {
	s := NewSolver()
	b, err := AsBool(NewIntVar(s, 0, 1))
	require.NoError(t, err)
	require.NoError(t, b.AssignBool(false))
	require.True(t, b.IsFalse())

	_, err = AsBool(NewIntVar(s, 0, 2))
	require.ErrorIs(t, err, ErrInvalidArgument)
}
