package state

import "fmt"

// Int is a reversible integer cell.
type Int struct {
	m         Manager
	v         int
	lastMagic uint64
}

type intEntry struct {
	cell *Int
	v    int
}

func (e intEntry) restore() { e.cell.v = e.v }

func newInt(m Manager, initial int) *Int {
	return &Int{m: m, v: initial, lastMagic: m.stamp() - 1}
}

func (c *Int) trail() {
	if magic := c.m.stamp(); c.lastMagic != magic {
		c.lastMagic = magic
		c.m.record(intEntry{cell: c, v: c.v})
	}
}

// Value returns the current value.
func (c *Int) Value() int { return c.v }

// SetValue writes v and returns it.
func (c *Int) SetValue(v int) int {
	if v != c.v {
		c.trail()
		c.v = v
	}
	return c.v
}

// Increment adds one and returns the new value.
func (c *Int) Increment() int { return c.SetValue(c.v + 1) }

// Decrement subtracts one and returns the new value.
func (c *Int) Decrement() int { return c.SetValue(c.v - 1) }

func (c *Int) String() string { return fmt.Sprint(c.v) }

// Bool is a reversible boolean cell.
type Bool struct {
	m         Manager
	v         bool
	lastMagic uint64
}

type boolEntry struct {
	cell *Bool
	v    bool
}

func (e boolEntry) restore() { e.cell.v = e.v }

func newBool(m Manager, initial bool) *Bool {
	return &Bool{m: m, v: initial, lastMagic: m.stamp() - 1}
}

// Value returns the current value.
func (c *Bool) Value() bool { return c.v }

// SetValue writes v.
func (c *Bool) SetValue(v bool) {
	if v == c.v {
		return
	}
	if magic := c.m.stamp(); c.lastMagic != magic {
		c.lastMagic = magic
		c.m.record(boolEntry{cell: c, v: c.v})
	}
	c.v = v
}

func (c *Bool) String() string { return fmt.Sprint(c.v) }

// Ref is a reversible cell holding an arbitrary value. Values are compared
// by identity of the write, not by equality: every SetValue is trailed once
// per level.
type Ref[T any] struct {
	m         Manager
	v         T
	lastMagic uint64
}

type refEntry[T any] struct {
	cell *Ref[T]
	v    T
}

func (e refEntry[T]) restore() { e.cell.v = e.v }

// MakeRef creates a reversible cell of type T owned by m.
func MakeRef[T any](m Manager, initial T) *Ref[T] {
	return &Ref[T]{m: m, v: initial, lastMagic: m.stamp() - 1}
}

// Value returns the current value.
func (c *Ref[T]) Value() T { return c.v }

// SetValue writes v.
func (c *Ref[T]) SetValue(v T) {
	if magic := c.m.stamp(); c.lastMagic != magic {
		c.lastMagic = magic
		c.m.record(refEntry[T]{cell: c, v: c.v})
	}
	c.v = v
}
