package state

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTrailer_RestoreRollsBackWrites(t *testing.T) {
	tr := NewTrailer()
	a := tr.MakeInt(5)
	b := tr.MakeInt(9)
	flag := tr.MakeBool(true)

	m := tr.Save()
	a.SetValue(7)
	a.SetValue(8)
	b.Increment()
	flag.SetValue(false)
	require.Equal(t, 3, tr.Size(), "each cell is trailed once per level")

	tr.Restore(m)
	require.Equal(t, 5, a.Value())
	require.Equal(t, 9, b.Value())
	require.True(t, flag.Value())
	require.Equal(t, -1, tr.Level())
	require.Zero(t, tr.Size())
}

func TestTrailer_NestedMarks(t *testing.T) {
	tr := NewTrailer()
	x := tr.MakeInt(0)

	m0 := tr.Save()
	x.SetValue(1)
	m1 := tr.Save()
	x.SetValue(2)
	tr.Save()
	x.SetValue(3)

	tr.Restore(m1)
	require.Equal(t, 1, x.Value())
	require.Equal(t, int(m0), tr.Level(), "restoring m1 discards every later mark")

	tr.Restore(m0)
	require.Equal(t, 0, x.Value())
	require.Equal(t, -1, tr.Level())
}

func TestTrailer_RestoreIsIdempotent(t *testing.T) {
	tr := NewTrailer()
	x := tr.MakeInt(1)
	m := tr.Save()
	x.SetValue(2)
	tr.Restore(m)
	tr.Restore(m)
	require.Equal(t, 1, x.Value())
	require.Equal(t, -1, tr.Level())
}

func TestTrailer_WritesWithoutMarkArePermanent(t *testing.T) {
	tr := NewTrailer()
	x := tr.MakeInt(1)
	x.SetValue(4)
	require.Zero(t, tr.Size())

	m := tr.Save()
	x.SetValue(6)
	tr.Restore(m)
	require.Equal(t, 4, x.Value())
}

func TestTrailer_CellCreatedInsideLevel(t *testing.T) {
	tr := NewTrailer()
	m := tr.Save()
	x := tr.MakeInt(10)
	x.SetValue(11)
	tr.Restore(m)
	require.Equal(t, 10, x.Value())
}

func TestTrailer_WithNewState(t *testing.T) {
	tr := NewTrailer()
	x := tr.MakeInt(3)
	tr.WithNewState(func() {
		x.SetValue(4)
		tr.Save()
		x.SetValue(5)
	})
	require.Equal(t, 3, x.Value())
	require.Equal(t, -1, tr.Level())
}

func TestTrailer_RestoreAll(t *testing.T) {
	tr := NewTrailer()
	x := tr.MakeInt(0)
	for i := 1; i <= 4; i++ {
		tr.Save()
		x.SetValue(i)
	}
	tr.RestoreAll()
	require.Equal(t, 0, x.Value())
	require.Equal(t, -1, tr.Level())
}

func TestTrailer_RandomRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	tr := NewTrailer()
	cells := make([]*Int, 20)
	for i := range cells {
		cells[i] = tr.MakeInt(i)
	}

	snapshot := func() []int {
		out := make([]int, len(cells))
		for i, c := range cells {
			out[i] = c.Value()
		}
		return out
	}

	type saved struct {
		mark   Mark
		values []int
	}
	var marks []saved
	for step := 0; step < 500; step++ {
		switch op := rng.Intn(10); {
		case op < 2:
			marks = append(marks, saved{mark: tr.Save(), values: snapshot()})
		case op < 3 && len(marks) > 0:
			k := rng.Intn(len(marks))
			tr.Restore(marks[k].mark)
			require.Equal(t, marks[k].values, snapshot(), "step %d", step)
			marks = marks[:k]
		default:
			cells[rng.Intn(len(cells))].SetValue(rng.Intn(100))
		}
	}
}

func TestRef_RestoresArbitraryValues(t *testing.T) {
	tr := NewTrailer()
	r := MakeRef(tr, []string{"a"})
	m := tr.Save()
	r.SetValue([]string{"b", "c"})
	r.SetValue(nil)
	tr.Restore(m)
	require.Equal(t, []string{"a"}, r.Value())
}

func TestStack_PushIsReversible(t *testing.T) {
	tr := NewTrailer()
	s := NewStack[string](tr)
	s.Push("root")

	m := tr.Save()
	s.Push("x")
	s.Push("y")
	require.Equal(t, 3, s.Size())
	tr.Restore(m)
	require.Equal(t, 1, s.Size())

	s.Push("z")
	var got []string
	s.Each(func(v string) { got = append(got, v) })
	require.Equal(t, []string{"root", "z"}, got)
	require.Panics(t, func() { s.Get(2) })
}
