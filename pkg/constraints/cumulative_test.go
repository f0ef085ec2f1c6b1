package constraints

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokancp/pkg/cp"
)

func TestProfile(t *testing.T) {
	p := NewProfile(
		Rectangle{Start: 0, End: 4, Height: 1},
		Rectangle{Start: 2, End: 6, Height: 2},
		Rectangle{Start: 6, End: 8, Height: 3},
		Rectangle{Start: 5, End: 5, Height: 9},
	)
	require.Equal(t, "[0,2)h=1 [2,4)h=3 [4,6)h=2 [6,8)h=3", p.String())
	require.Equal(t, 6, p.Size())
	require.Equal(t, math.MinInt, p.Get(0).Start)
	require.Equal(t, math.MaxInt, p.Get(p.Size()-1).End)
	require.Equal(t, 3, p.MaxHeight())

	require.Equal(t, 0, p.RectangleIndex(-100))
	require.Equal(t, 2, p.RectangleIndex(3))
	require.Equal(t, 3, p.RectangleIndex(4))
	require.Equal(t, 5, p.RectangleIndex(8))
}

func TestProfile_MergesEqualHeights(t *testing.T) {
	p := NewProfile(Rectangle{0, 2, 1}, Rectangle{2, 4, 1})
	require.Equal(t, "[0,4)h=1", p.String())
	require.Equal(t, 3, p.Size())
	require.Equal(t, 0, NewProfile().MaxHeight())
}

func TestCumulative_Overload(t *testing.T) {
	s := cp.NewSolver()
	starts := []cp.IntVar{cp.NewIntVar(s, 0, 0), cp.NewIntVar(s, 1, 1)}
	c, err := NewCumulative(starts, []int{3, 3}, []int{2, 2}, 3)
	require.NoError(t, err)
	require.ErrorIs(t, s.Post(c), cp.ErrInconsistent)
}

func TestCumulative_PushesEarliestStart(t *testing.T) {
	s := cp.NewSolver()
	a := cp.NewIntVar(s, 0, 0)
	b := cp.NewIntVar(s, 0, 10)
	c, err := NewCumulative([]cp.IntVar{a, b}, []int{4, 2}, []int{2, 2}, 3)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))
	require.Equal(t, 4, b.Min())
	require.Equal(t, 10, b.Max())
	require.Equal(t, "[0,4)h=2", c.Profile().String())
}

func TestCumulative_FitsUnderCapacity(t *testing.T) {
	s := cp.NewSolver()
	a := cp.NewIntVar(s, 0, 0)
	b := cp.NewIntVar(s, 0, 10)
	c, err := NewCumulative([]cp.IntVar{a, b}, []int{4, 2}, []int{2, 1}, 3)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))
	require.Equal(t, 0, b.Min())
}

func TestCumulative_MirrorPullsLatestStart(t *testing.T) {
	s := cp.NewSolver()
	a := cp.NewIntVar(s, 6, 6)
	b := cp.NewIntVar(s, 0, 6)
	c, err := NewCumulative([]cp.IntVar{a, b}, []int{4, 3}, []int{2, 2}, 3)
	require.NoError(t, err)
	require.NoError(t, s.Post(c))
	require.Equal(t, 0, b.Min())
	require.Equal(t, 3, b.Max())
}

// feasibleCumulative counts start assignments in [lo, hi]^n whose load
// never exceeds capacity.
func feasibleCumulative(lo, hi int, dur, dem []int, capacity int) int {
	n := len(dur)
	starts := make([]int, n)
	count := 0
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			for t := lo; t <= hi+maxOf(dur); t++ {
				load := 0
				for k := range starts {
					if starts[k] <= t && t < starts[k]+dur[k] {
						load += dem[k]
					}
				}
				if load > capacity {
					return
				}
			}
			count++
			return
		}
		for v := lo; v <= hi; v++ {
			starts[i] = v
			rec(i + 1)
		}
	}
	rec(0)
	return count
}

func maxOf(xs []int) int {
	m := 0
	for _, x := range xs {
		m = max(m, x)
	}
	return m
}

func TestCumulative_CountsMatchBruteForce(t *testing.T) {
	for _, tc := range []struct {
		dur, dem []int
		capacity int
	}{
		{[]int{2, 2, 3}, []int{2, 1, 1}, 3},
		{[]int{2, 3, 1, 2}, []int{1, 2, 2, 1}, 2},
		{[]int{3, 3, 3}, []int{1, 1, 1}, 1},
		{[]int{1, 2, 0}, []int{2, 2, 5}, 2},
	} {
		s := cp.NewSolver()
		starts := cp.MakeIntVarArray(s, len(tc.dur), 1, 5)
		c, err := NewCumulative(starts, tc.dur, tc.dem, tc.capacity)
		require.NoError(t, err)
		want := feasibleCumulative(1, 5, tc.dur, tc.dem, tc.capacity)
		if err := s.Post(c); err != nil {
			require.ErrorIs(t, err, cp.ErrInconsistent)
			require.Zero(t, want, "%+v", tc)
			continue
		}
		got := solveAll(t, s, nil, starts...)
		require.Equal(t, want, got, "%+v", tc)
	}
}

func TestCumulative_InvalidArguments(t *testing.T) {
	s := cp.NewSolver()
	x := cp.MakeIntVarArray(s, 2, 0, 5)
	_, err := NewCumulative(nil, nil, nil, 1)
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
	_, err = NewCumulative(x, []int{1}, []int{1, 1}, 1)
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
	_, err = NewCumulative(x, []int{1, -1}, []int{1, 1}, 1)
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
	_, err = NewCumulative(x, []int{1, 1}, []int{1, 1}, -1)
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
}
