package cp

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitrdm/gokancp/pkg/state"
)

// recordingListener counts the events a domain fires.
type recordingListener struct {
	bind, change, changeMin, changeMax int
}

func (r *recordingListener) Bind()      { r.bind++ }
func (r *recordingListener) Change()    { r.change++ }
func (r *recordingListener) ChangeMin() { r.changeMin++ }
func (r *recordingListener) ChangeMax() { r.changeMax++ }

func TestSparseSetDomain_RemoveEvents(t *testing.T) {
	sm := state.NewTrailer()
	d := NewSparseSetDomain(sm, 1, 4)

	l := &recordingListener{}
	require.NoError(t, d.Remove(2, l))
	require.Equal(t, recordingListener{change: 1}, *l)

	l = &recordingListener{}
	require.NoError(t, d.Remove(1, l))
	require.Equal(t, recordingListener{change: 1, changeMin: 1}, *l)
	require.Equal(t, 3, d.Min())

	l = &recordingListener{}
	require.NoError(t, d.Remove(4, l))
	require.Equal(t, recordingListener{change: 1, changeMax: 1, bind: 1}, *l)
	require.True(t, d.IsBound())
}

func TestSparseSetDomain_RemoveAbsentIsNoop(t *testing.T) {
	sm := state.NewTrailer()
	d := NewSparseSetDomain(sm, 0, 3)
	l := &recordingListener{}
	require.NoError(t, d.Remove(10, l))
	require.NoError(t, d.RemoveBelow(0, l))
	require.NoError(t, d.RemoveAbove(3, l))
	require.Equal(t, recordingListener{}, *l)
	require.Equal(t, 4, d.Size())
}

func TestSparseSetDomain_EmptyFailsWithoutEvents(t *testing.T) {
	sm := state.NewTrailer()
	d := NewSparseSetDomain(sm, 5, 5)
	l := &recordingListener{}
	require.ErrorIs(t, d.Remove(5, l), ErrInconsistent)
	require.Equal(t, recordingListener{}, *l)

	d = NewSparseSetDomain(sm, 0, 9)
	require.ErrorIs(t, d.RemoveBelow(10, l), ErrInconsistent)
	d = NewSparseSetDomain(sm, 0, 9)
	require.ErrorIs(t, d.RemoveAbove(-1, l), ErrInconsistent)
	require.Equal(t, recordingListener{}, *l)
}

func TestSparseSetDomain_RemoveAllBut(t *testing.T) {
	sm := state.NewTrailer()
	d := NewSparseSetDomain(sm, 0, 9)
	l := &recordingListener{}
	require.NoError(t, d.RemoveAllBut(4, l))
	require.Equal(t, recordingListener{bind: 1, change: 1, changeMin: 1, changeMax: 1}, *l)
	require.Equal(t, "{4}", d.String())

	// already bound to that value
	l = &recordingListener{}
	require.NoError(t, d.RemoveAllBut(4, l))
	require.Equal(t, recordingListener{}, *l)

	require.ErrorIs(t, d.RemoveAllBut(7, l), ErrInconsistent)
	require.Zero(t, d.Size())
}

func TestSparseSetDomain_BoundRemovalReachingSingleton(t *testing.T) {
	sm := state.NewTrailer()
	d := NewSparseSetDomain(sm, 0, 3)
	l := &recordingListener{}
	require.NoError(t, d.RemoveBelow(3, l))
	require.Equal(t, recordingListener{bind: 1, change: 1, changeMin: 1}, *l)
}

func TestSparseSetDomain_String(t *testing.T) {
	sm := state.NewTrailer()
	d := NewSparseSetDomain(sm, -2, 3)
	l := &recordingListener{}
	require.NoError(t, d.Remove(0, l))
	require.NoError(t, d.Remove(2, l))
	require.Equal(t, "{-2,-1,1,3}", d.String())
}
