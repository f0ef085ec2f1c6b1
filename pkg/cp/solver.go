// Package cp implements a trailed finite-domain constraint propagation engine.
//
// # Architecture Overview
//
// All mutable engine state lives in reversible cells owned by a single
// state.Trailer:
//
//	Solver
//	  Trailer      (pkg/state)  - undo log, Save/Restore
//	  Variables    IntVar       - SparseSetDomain + three subscriber stacks
//	  Queue        []Propagator - FIFO of pending propagators
//
// # How Constraint Propagation Works
//
// A propagator subscribes to events of the variables it watches. When a
// variable's domain shrinks, the variable schedules every subscriber for
// the event classes that fired (domain change, bind, bound change). The
// solver drains the queue until it is empty (a fixpoint) or a propagator
// reports ErrInconsistent:
//
//	x.RemoveAbove(3)          // schedules subscribers of x
//	solver.FixPoint()         // runs them, which may shrink more domains,
//	                          // which schedules more propagators, ...
//
// Scheduling is idempotent: a propagator already in the queue is not added
// twice. Mutating a domain from inside Propagate is expected; it is how the
// fixpoint is reached.
//
// # Backtracking
//
// The search driver calls StateManager().Save() before a branch and
// Restore(mark) afterwards. Partial filtering left behind by a failed
// FixPoint is undone by that restore, never by the propagators themselves.
//
// Thread safety: a Solver and everything created from it are NOT safe for
// concurrent use. Run independent solvers on separate goroutines instead.
package cp

import (
	"fmt"

	"github.com/gitrdm/gokancp/pkg/state"
)

// Phase is the scheduler state.
type Phase int

const (
	// PhaseIdle means the queue is empty and no fixpoint is running.
	PhaseIdle Phase = iota
	// PhaseDraining means FixPoint is running.
	PhaseDraining
	// PhaseFailed means the last FixPoint or Post ended with an error.
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseDraining:
		return "draining"
	case PhaseFailed:
		return "failed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Solver owns the reversible store, the variables and the propagation
// queue.
type Solver struct {
	sm     *state.Trailer
	config *Config

	// queue[head:] are the pending propagators
	queue []Propagator
	head  int
	phase Phase

	vars              *state.Stack[IntVar]
	fixPointListeners []func() error
	monitor           *Monitor
	propagatorCount   int
}

// NewSolver creates a solver with its own trail.
func NewSolver(opts ...Option) *Solver {
	s := &Solver{
		sm:     state.NewTrailer(),
		config: DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.queue = make([]Propagator, 0, s.config.QueueCapacity)
	s.vars = state.NewStack[IntVar](s.sm)
	return s
}

// StateManager returns the reversible store.
func (s *Solver) StateManager() state.Manager { return s.sm }

// Trailer returns the concrete trail, e.g. to inspect its size.
func (s *Solver) Trailer() *state.Trailer { return s.sm }

// Config returns the solver configuration.
func (s *Solver) Config() *Config { return s.config }

// Monitor returns the attached monitor, or nil.
func (s *Solver) Monitor() *Monitor { return s.monitor }

// Phase returns the scheduler state.
func (s *Solver) Phase() Phase { return s.phase }

// QueueLen returns the number of pending propagators.
func (s *Solver) QueueLen() int { return len(s.queue) - s.head }

func (s *Solver) nextPropagatorID() int {
	id := s.propagatorCount
	s.propagatorCount++
	return id
}

func (s *Solver) registerVar(x IntVar) { s.vars.Push(x) }

// Variables returns the variables created on this solver, in creation
// order. Variables created below a restored mark are dropped.
func (s *Solver) Variables() []IntVar {
	out := make([]IntVar, 0, s.vars.Size())
	s.vars.Each(func(x IntVar) { out = append(out, x) })
	return out
}

// OnFixPoint registers a hook run at the start of every FixPoint. A hook
// error aborts the fixpoint like a propagator failure.
func (s *Solver) OnFixPoint(hook func() error) {
	s.fixPointListeners = append(s.fixPointListeners, hook)
}

// Schedule enqueues p unless it is inactive or already queued.
func (s *Solver) Schedule(p Propagator) {
	b := p.propagatorBase()
	if b.scheduled || !b.active.Value() {
		return
	}
	b.scheduled = true
	s.queue = append(s.queue, p)
	if s.monitor != nil {
		s.monitor.RecordQueueSize(len(s.queue) - s.head)
	}
}

// FixPoint drains the queue. Propagators enqueued while it runs are
// appended behind the current ones (FIFO). On failure the rest of the
// queue is discarded, every scheduled flag is cleared, and the error is
// returned.
func (s *Solver) FixPoint() error {
	if s.monitor != nil {
		s.monitor.StartFixPoint()
	}
	s.phase = PhaseDraining
	err := s.drain()
	if err != nil {
		s.clearQueue()
		s.phase = PhaseFailed
	} else {
		s.phase = PhaseIdle
	}
	if s.monitor != nil {
		s.monitor.RecordTrailSize(s.sm.Size())
		s.monitor.EndFixPoint(err != nil)
	}
	return err
}

func (s *Solver) drain() error {
	for _, hook := range s.fixPointListeners {
		if err := hook(); err != nil {
			return err
		}
	}
	for s.head < len(s.queue) {
		p := s.queue[s.head]
		s.queue[s.head] = nil
		s.head++

		b := p.propagatorBase()
		b.scheduled = false
		if !b.active.Value() {
			continue
		}
		if s.monitor != nil {
			s.monitor.RecordPropagation()
		}
		if err := p.Propagate(); err != nil {
			return err
		}
	}
	s.queue = s.queue[:0]
	s.head = 0
	return nil
}

func (s *Solver) clearQueue() {
	for i := s.head; i < len(s.queue); i++ {
		s.queue[i].propagatorBase().scheduled = false
		s.queue[i] = nil
	}
	s.queue = s.queue[:0]
	s.head = 0
}

// Post adds p and runs the fixpoint.
func (s *Solver) Post(p Propagator) error {
	return s.PostWith(p, true)
}

// PostWith adds p and runs the fixpoint only when enforceFixPoint is set.
// Composite constraints post their parts with enforceFixPoint=false and
// let the caller run a single fixpoint afterwards. A failing Post leaves
// the solver in PhaseFailed with an empty queue, like a failed FixPoint.
func (s *Solver) PostWith(p Propagator, enforceFixPoint bool) error {
	if s.monitor != nil {
		s.monitor.RecordPropagator()
	}
	if err := p.Post(); err != nil {
		s.clearQueue()
		s.phase = PhaseFailed
		return err
	}
	if enforceFixPoint {
		return s.FixPoint()
	}
	return nil
}
