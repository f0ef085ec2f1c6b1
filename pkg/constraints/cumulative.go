package constraints

import (
	"fmt"

	"github.com/gitrdm/gokancp/pkg/cp"
)

// Cumulative enforces that tasks i, running over [start[i],
// start[i]+duration[i]) with demand[i] units of a resource, never use more
// than capacity at any time.
//
// Filtering is time-tabling: the profile of compulsory parts, [lst, ect)
// for every task with lst < ect, is checked against the capacity, and each
// unbound task is pushed past the rectangles it cannot overlap. The same
// rule on the mirrored tasks (start' = -end) pulls latest starts in.
type Cumulative struct {
	*cp.BasePropagator
	start     []cp.IntVar
	end       []cp.IntVar
	duration  []int
	demand    []int
	capacity  int
	mirror    bool
	mandatory []Rectangle
}

// NewCumulative creates the constraint. Durations, demands and the
// capacity must be non-negative.
func NewCumulative(starts []cp.IntVar, durations, demands []int, capacity int) (*Cumulative, error) {
	n := len(starts)
	switch {
	case n == 0:
		return nil, fmt.Errorf("Cumulative: requires at least one task: %w", cp.ErrInvalidArgument)
	case len(durations) != n || len(demands) != n:
		return nil, fmt.Errorf("Cumulative: %d starts, %d durations, %d demands: %w",
			n, len(durations), len(demands), cp.ErrInvalidArgument)
	case capacity < 0:
		return nil, fmt.Errorf("Cumulative: capacity %d < 0: %w", capacity, cp.ErrInvalidArgument)
	}
	for i := range starts {
		if durations[i] < 0 || demands[i] < 0 {
			return nil, fmt.Errorf("Cumulative: task %d has duration %d, demand %d: %w",
				i, durations[i], demands[i], cp.ErrInvalidArgument)
		}
	}
	return newCumulative(starts, durations, demands, capacity, false), nil
}

func newCumulative(starts []cp.IntVar, durations, demands []int, capacity int, mirror bool) *Cumulative {
	c := &Cumulative{
		BasePropagator: cp.NewBasePropagator(starts[0].Solver()),
		start:          append([]cp.IntVar(nil), starts...),
		end:            make([]cp.IntVar, len(starts)),
		duration:       append([]int(nil), durations...),
		demand:         append([]int(nil), demands...),
		capacity:       capacity,
		mirror:         mirror,
		mandatory:      make([]Rectangle, 0, len(starts)),
	}
	for i, s := range starts {
		c.end[i] = cp.Offset(s, durations[i])
	}
	return c
}

// Post subscribes to bound changes, posts the mirror, and filters.
func (c *Cumulative) Post() error {
	for _, s := range c.start {
		s.PropagateOnBoundChange(c)
	}
	if !c.mirror {
		mirrored := make([]cp.IntVar, len(c.start))
		for i, e := range c.end {
			mirrored[i] = cp.Opposite(e)
		}
		m := newCumulative(mirrored, c.duration, c.demand, c.capacity, true)
		if err := c.Solver().PostWith(m, false); err != nil {
			return err
		}
	}
	return c.Propagate()
}

// Profile returns the profile of the current compulsory parts.
func (c *Cumulative) Profile() *Profile {
	c.mandatory = c.mandatory[:0]
	for i, s := range c.start {
		if lst, ect := s.Max(), c.end[i].Min(); lst < ect {
			c.mandatory = append(c.mandatory, Rectangle{Start: lst, End: ect, Height: c.demand[i]})
		}
	}
	return NewProfile(c.mandatory...)
}

func (c *Cumulative) Propagate() error {
	profile := c.Profile()
	if profile.MaxHeight() > c.capacity {
		return cp.ErrInconsistent
	}
	for i, s := range c.start {
		if s.IsBound() || c.duration[i] == 0 {
			continue
		}
		// a task's own compulsory part starts at its lst, past the scan
		lst := s.Max()
		t := s.Min()
		for j := profile.RectangleIndex(t); j < profile.Size(); j++ {
			r := profile.Get(j)
			if r.Start >= min(t+c.duration[i], lst) {
				break
			}
			if c.capacity-c.demand[i] < r.Height {
				t = min(r.End, lst)
			}
		}
		if err := s.RemoveBelow(t); err != nil {
			return err
		}
	}
	return nil
}
