package cp

import (
	"strconv"
	"strings"

	"github.com/gitrdm/gokancp/pkg/state"
)

// DomainListener receives the events fired by a domain mutation. A domain
// never notifies a listener after it became empty; emptiness is reported
// through the returned ErrInconsistent instead.
type DomainListener interface {
	// Bind fires when the domain is reduced to a single value.
	Bind()
	// Change fires whenever at least one value was removed.
	Change()
	// ChangeMin fires when the minimum increased.
	ChangeMin()
	// ChangeMax fires when the maximum decreased.
	ChangeMax()
}

// IntDomain is a reversible finite set of integers.
//
// All mutators route writes through the solver's trail and return
// ErrInconsistent when the domain becomes empty. Removing a value that is
// not present is a no-op and fires nothing.
type IntDomain interface {
	Min() int
	Max() int
	Size() int
	Contains(v int) bool
	IsBound() bool

	// FillArray copies the values into dest (len >= Size()) in unspecified
	// order and returns the count.
	FillArray(dest []int) int

	Remove(v int, l DomainListener) error
	RemoveAllBut(v int, l DomainListener) error
	RemoveBelow(v int, l DomainListener) error
	RemoveAbove(v int, l DomainListener) error

	String() string
}

// SparseSetDomain implements IntDomain on a reversible sparse set.
// Membership is O(1); Remove is O(1) unless a bound moves.
type SparseSetDomain struct {
	set *state.SparseSet
}

// NewSparseSetDomain creates the domain {min..max}. min must not exceed max.
func NewSparseSetDomain(sm state.Manager, min, max int) *SparseSetDomain {
	return &SparseSetDomain{set: state.NewSparseSet(sm, max-min+1, min)}
}

func (d *SparseSetDomain) Min() int { return d.set.Min() }
func (d *SparseSetDomain) Max() int { return d.set.Max() }
func (d *SparseSetDomain) Size() int { return d.set.Size() }
func (d *SparseSetDomain) Contains(v int) bool { return d.set.Contains(v) }
func (d *SparseSetDomain) IsBound() bool { return d.set.Size() == 1 }
func (d *SparseSetDomain) FillArray(dest []int) int { return d.set.FillArray(dest) }

// Remove deletes v.
func (d *SparseSetDomain) Remove(v int, l DomainListener) error {
	if !d.set.Contains(v) {
		return nil
	}
	maxChanged := d.set.Max() == v
	minChanged := d.set.Min() == v
	d.set.Remove(v)
	if d.set.IsEmpty() {
		return ErrInconsistent
	}
	l.Change()
	if maxChanged {
		l.ChangeMax()
	}
	if minChanged {
		l.ChangeMin()
	}
	if d.set.Size() == 1 {
		l.Bind()
	}
	return nil
}

// RemoveAllBut keeps only v. If v is absent the domain is emptied and
// ErrInconsistent is returned.
func (d *SparseSetDomain) RemoveAllBut(v int, l DomainListener) error {
	if !d.set.Contains(v) {
		d.set.RemoveAll()
		return ErrInconsistent
	}
	if d.set.Size() == 1 {
		return nil
	}
	maxChanged := d.set.Max() != v
	minChanged := d.set.Min() != v
	d.set.RemoveAllBut(v)
	l.Bind()
	l.Change()
	if maxChanged {
		l.ChangeMax()
	}
	if minChanged {
		l.ChangeMin()
	}
	return nil
}

// RemoveBelow deletes every value < v.
func (d *SparseSetDomain) RemoveBelow(v int, l DomainListener) error {
	if d.set.Min() >= v {
		return nil
	}
	d.set.RemoveBelow(v)
	switch d.set.Size() {
	case 0:
		return ErrInconsistent
	case 1:
		l.Bind()
	}
	l.ChangeMin()
	l.Change()
	return nil
}

// RemoveAbove deletes every value > v.
func (d *SparseSetDomain) RemoveAbove(v int, l DomainListener) error {
	if d.set.Max() <= v {
		return nil
	}
	d.set.RemoveAbove(v)
	switch d.set.Size() {
	case 0:
		return ErrInconsistent
	case 1:
		l.Bind()
	}
	l.ChangeMax()
	l.Change()
	return nil
}

// String lists the values in ascending order, e.g. "{1,3,4}".
func (d *SparseSetDomain) String() string {
	return formatDomain(d)
}

// formatDomain renders any domain-like value in ascending order.
func formatDomain(d interface {
	Min() int
	Max() int
	Size() int
	Contains(int) bool
}) string {
	var b strings.Builder
	b.WriteByte('{')
	if d.Size() > 0 {
		first := true
		for v := d.Min(); v <= d.Max(); v++ {
			if !d.Contains(v) {
				continue
			}
			if !first {
				b.WriteByte(',')
			}
			first = false
			b.WriteString(strconv.Itoa(v))
		}
	}
	b.WriteByte('}')
	return b.String()
}
