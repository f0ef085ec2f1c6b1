package constraints

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokancp/pkg/cp"
)

func postDisjunctive(t *testing.T, s *cp.Solver, starts []cp.IntVar, durations []int) (*Disjunctive, error) {
	t.Helper()
	c, err := NewDisjunctive(starts, durations)
	require.NoError(t, err)
	return c, s.Post(c)
}

func TestDisjunctive_OverloadDetection(t *testing.T) {
	s := cp.NewSolver()
	starts := cp.MakeIntVarArray(s, 3, 0, 1)
	_, err := postDisjunctive(t, s, starts, []int{1, 1, 1})
	require.ErrorIs(t, err, cp.ErrInconsistent)
}

func TestDisjunctive_DetectablePrecedences(t *testing.T) {
	s := cp.NewSolver()
	a := cp.NewIntVar(s, 0, 10)
	b := cp.NewIntVar(s, 0, 10)
	_, err := postDisjunctive(t, s, []cp.IntVar{a, b}, []int{3, 2})
	require.NoError(t, err)
	require.Equal(t, 0, b.Min())

	require.NoError(t, a.Assign(0))
	require.NoError(t, s.FixPoint())
	require.Equal(t, 3, b.Min())
	require.Equal(t, 10, b.Max())
}

func TestDisjunctive_NotLast(t *testing.T) {
	s := cp.NewSolver()
	x := cp.NewIntVar(s, 0, 3)
	y := cp.NewIntVar(s, 0, 4)
	z := cp.NewIntVar(s, 0, 4)
	_, err := postDisjunctive(t, s, []cp.IntVar{x, y, z}, []int{2, 2, 2})
	require.NoError(t, err)
	// y and z cannot both finish before x starts at 3, so x is not last
	require.LessOrEqual(t, x.Max(), 2)
	require.True(t, x.Contains(0))
	require.True(t, x.Contains(2))
}

func TestDisjunctive_MirrorTightensLatestStart(t *testing.T) {
	s := cp.NewSolver()
	a := cp.NewIntVar(s, 0, 10)
	b := cp.NewIntVar(s, 8, 8)
	_, err := postDisjunctive(t, s, []cp.IntVar{a, b}, []int{2, 3})
	require.NoError(t, err)
	// a cannot start at or after 11, so it must end by 8
	require.Equal(t, 6, a.Max())
	require.Equal(t, 0, a.Min())
}

func TestDisjunctive_InvalidArguments(t *testing.T) {
	s := cp.NewSolver()
	x := cp.MakeIntVarArray(s, 2, 0, 5)

	_, err := NewDisjunctive(nil, nil)
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
	_, err = NewDisjunctive(x, []int{1})
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
	_, err = NewDisjunctive(x, []int{1, 0})
	require.ErrorIs(t, err, cp.ErrInvalidArgument)
}

func TestDisjunctive_FixPointIdempotent(t *testing.T) {
	s := cp.NewSolver()
	starts := []cp.IntVar{cp.NewIntVar(s, 0, 12), cp.NewIntVar(s, 2, 9), cp.NewIntVar(s, 0, 4)}
	c, err := postDisjunctive(t, s, starts, []int{4, 3, 3})
	require.NoError(t, err)

	before := make([]string, len(starts))
	for i, x := range starts {
		before[i] = x.String()
	}
	s.Schedule(c)
	require.NoError(t, s.FixPoint())
	for i, x := range starts {
		require.Equal(t, before[i], x.String())
	}
}

// feasibleStarts enumerates non-overlapping schedules and returns, per
// activity, the start values used by at least one of them.
func feasibleStarts(lo, hi, dur []int) []map[int]bool {
	n := len(dur)
	out := make([]map[int]bool, n)
	for i := range out {
		out[i] = map[int]bool{}
	}
	st := make([]int, n)
	var rec func(i int)
	rec = func(i int) {
		if i == n {
			for k, v := range st {
				out[k][v] = true
			}
			return
		}
		for v := lo[i]; v <= hi[i]; v++ {
			ok := true
			for k := 0; k < i; k++ {
				if v < st[k]+dur[k] && st[k] < v+dur[i] {
					ok = false
					break
				}
			}
			if ok {
				st[i] = v
				rec(i + 1)
			}
		}
	}
	rec(0)
	return out
}

func TestDisjunctive_SoundOnRandomInstances(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for iter := 0; iter < 200; iter++ {
		n := 2 + rng.Intn(3)
		lo, hi, dur := make([]int, n), make([]int, n), make([]int, n)
		for i := 0; i < n; i++ {
			lo[i] = rng.Intn(8)
			hi[i] = lo[i] + rng.Intn(8)
			dur[i] = 1 + rng.Intn(4)
		}
		support := feasibleStarts(lo, hi, dur)

		s := cp.NewSolver()
		starts := make([]cp.IntVar, n)
		for i := range starts {
			starts[i] = cp.NewIntVar(s, lo[i], hi[i])
		}
		_, err := postDisjunctive(t, s, starts, dur)

		if len(support[0]) > 0 {
			require.NoError(t, err, "lo=%v hi=%v dur=%v", lo, hi, dur)
			for i := range starts {
				for v := range support[i] {
					require.True(t, starts[i].Contains(v),
						"lo=%v hi=%v dur=%v: activity %d lost feasible start %d", lo, hi, dur, i, v)
				}
			}
		}
		// a fully bound instance that survives propagation is a solution
		if err == nil {
			bound := true
			for _, x := range starts {
				bound = bound && x.IsBound()
			}
			if bound {
				for i := 0; i < n; i++ {
					require.True(t, support[i][starts[i].Min()])
				}
			}
		}
	}
}

func TestDisjunctive_ReversibleUnderFailure(t *testing.T) {
	s := cp.NewSolver()
	starts := cp.MakeIntVarArray(s, 3, 0, 6)
	_, err := postDisjunctive(t, s, starts, []int{2, 2, 2})
	require.NoError(t, err)

	snapshot := func() []string {
		out := make([]string, len(starts))
		for i, x := range starts {
			out[i] = x.String()
		}
		return out
	}
	before := snapshot()

	sm := s.StateManager()
	m := sm.Save()
	require.NoError(t, starts[0].RemoveAbove(1))
	require.NoError(t, starts[1].RemoveAbove(1))
	require.ErrorIs(t, s.FixPoint(), cp.ErrInconsistent)
	sm.Restore(m)
	require.Equal(t, before, snapshot())
}
