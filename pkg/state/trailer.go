// Package state provides reversible memory for backtracking search.
//
// Every reversible cell (Int, Bool, Ref, and the structures built on them)
// belongs to a Manager. Before a search branch is explored the driver calls
// Save; on backtrack it calls Restore with the returned Mark and every cell
// written since the mark is rolled back to the value it held when the mark
// was taken.
//
// # Trailing
//
// The Trailer records (cell, previous value) pairs on an append-only log.
// A 64-bit stamp ("magic") is bumped on every Save and Restore; a cell only
// records its previous value the first time it is written under a given
// stamp, so a cell written k times between two marks costs one entry.
//
//	t := state.NewTrailer()
//	x := t.MakeInt(3)
//	m := t.Save()
//	x.SetValue(7)
//	x.SetValue(9)   // not trailed again
//	t.Restore(m)    // x.Value() == 3
//
// Writes performed while no mark is open are permanent: there is nothing to
// roll back to.
//
// Marks nest with strict stack discipline. Restoring a mark also discards
// every mark taken after it. Restoring a mark that was already restored is a
// no-op.
//
// Thread safety: a Trailer and its cells are NOT safe for concurrent use.
// The engine is single-threaded by construction.
package state

// Mark identifies a saved level of a Manager. Marks are only meaningful
// for the Manager that produced them.
type Mark int

// Manager is the reversible-store contract consumed by the solver, by the
// search driver and by stateful propagators.
type Manager interface {
	// Save opens a new level and returns its mark.
	Save() Mark

	// Restore rolls back every write made since m was taken and closes m
	// together with every level opened after it.
	Restore(m Mark)

	// RestoreLast closes the innermost open level.
	RestoreLast()

	// RestoreUntil closes levels until Level() == level.
	RestoreUntil(level int)

	// RestoreAll closes every open level.
	RestoreAll()

	// Level returns the index of the innermost open level, -1 when none.
	Level() int

	// WithNewState runs body inside a fresh level and restores it afterwards.
	WithNewState(body func())

	// MakeInt creates a reversible integer.
	MakeInt(initial int) *Int

	// MakeBool creates a reversible boolean.
	MakeBool(initial bool) *Bool

	stamp() uint64
	record(e entry)
}

// entry is one undo record on the trail.
type entry interface {
	restore()
}

// Trailer is the trail-based Manager implementation.
type Trailer struct {
	magic  uint64
	trail  []entry
	limits []int
}

// NewTrailer creates an empty trail with no open level.
func NewTrailer() *Trailer {
	return &Trailer{
		magic:  1,
		trail:  make([]entry, 0, 256),
		limits: make([]int, 0, 64),
	}
}

func (t *Trailer) stamp() uint64 { return t.magic }

func (t *Trailer) record(e entry) {
	if len(t.limits) == 0 {
		return
	}
	t.trail = append(t.trail, e)
}

// Level returns the index of the innermost open level, -1 when none.
func (t *Trailer) Level() int { return len(t.limits) - 1 }

// Size returns the number of undo entries currently on the trail.
func (t *Trailer) Size() int { return len(t.trail) }

// Save opens a new level and returns its mark.
func (t *Trailer) Save() Mark {
	t.magic++
	t.limits = append(t.limits, len(t.trail))
	return Mark(len(t.limits) - 1)
}

// RestoreLast closes the innermost open level. It is a no-op when no
// level is open.
func (t *Trailer) RestoreLast() {
	last := len(t.limits) - 1
	if last < 0 {
		return
	}
	size := t.limits[last]
	t.limits = t.limits[:last]
	t.restoreToSize(size)
	// cells written after this point must trail again
	t.magic++
}

func (t *Trailer) restoreToSize(size int) {
	for i := len(t.trail) - 1; i >= size; i-- {
		t.trail[i].restore()
		t.trail[i] = nil
	}
	t.trail = t.trail[:size]
}

// Restore rolls back to the state held when m was taken.
func (t *Trailer) Restore(m Mark) {
	if m < 0 {
		m = 0
	}
	t.RestoreUntil(int(m) - 1)
}

// RestoreUntil closes levels until Level() == level.
func (t *Trailer) RestoreUntil(level int) {
	for t.Level() > level {
		t.RestoreLast()
	}
}

// RestoreAll closes every open level.
func (t *Trailer) RestoreAll() {
	t.RestoreUntil(-1)
	t.trail = t.trail[:0]
}

// WithNewState runs body inside a fresh level and restores it afterwards,
// including any levels body left open.
func (t *Trailer) WithNewState(body func()) {
	level := t.Level()
	t.Save()
	body()
	t.RestoreUntil(level)
}

// MakeInt creates a reversible integer.
func (t *Trailer) MakeInt(initial int) *Int { return newInt(t, initial) }

// MakeBool creates a reversible boolean.
func (t *Trailer) MakeBool(initial bool) *Bool { return newBool(t, initial) }
