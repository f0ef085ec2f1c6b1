// Package search implements depth-first search over a cp model.
//
// The search owns the save/restore discipline of the solver's trail: it
// saves before every branch and restores the same level when the branch is
// done, whether the branch succeeded, failed with cp.ErrInconsistent, or
// was cut by a limit or a cancelled context.
//
// Nodes are explored with an explicit stack of alternatives instead of
// recursion, so tree depth is bounded by memory rather than the goroutine
// stack.
package search

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/state"
)

const instrumentationName = "github.com/gitrdm/gokancp/pkg/search"

// ErrStopped can be returned by a Branch to end the search early. The
// search then returns normally with Completed=false.
var ErrStopped = errors.New("search stopped")

// Branch is one alternative of a choice point. It usually shrinks a domain
// and runs the fixpoint.
type Branch func() error

// Branching returns the alternatives at the current node, in the order
// they are explored. An empty result means every decision has been made:
// the node is a solution.
type Branching func() []Branch

// Objective is tightened after every solution found by Optimize.
type Objective interface {
	Tighten() error
}

// Statistics summarizes one search.
type Statistics struct {
	Nodes     int
	Failures  int
	Solutions int
	// Completed is true when the whole tree was explored.
	Completed bool
}

func (s Statistics) String() string {
	return fmt.Sprintf("nodes=%d failures=%d solutions=%d completed=%t",
		s.Nodes, s.Failures, s.Solutions, s.Completed)
}

// DFSearch is a depth-first search driver.
type DFSearch struct {
	sm        state.Manager
	branching Branching
	tracer    trace.Tracer

	solutionListeners []func()
	failureListeners  []func()
	objective         Objective
}

// Option configures a DFSearch.
type Option func(*DFSearch)

// WithTracer sets the tracer used for search spans.
func WithTracer(t trace.Tracer) Option {
	return func(d *DFSearch) {
		if t != nil {
			d.tracer = t
		}
	}
}

// NewDFSearch creates a search over the trail sm, branching with b.
func NewDFSearch(sm state.Manager, b Branching, opts ...Option) *DFSearch {
	d := &DFSearch{
		sm:        sm,
		branching: b,
		tracer:    otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// OnSolution registers f to run at every solution, while the solution's
// domains are still in place.
func (d *DFSearch) OnSolution(f func()) *DFSearch {
	d.solutionListeners = append(d.solutionListeners, f)
	return d
}

// OnFailure registers f to run at every failed node.
func (d *DFSearch) OnFailure(f func()) *DFSearch {
	d.failureListeners = append(d.failureListeners, f)
	return d
}

// Solve explores the tree until it is exhausted, the limit is reached or
// ctx is done. A nil limit never stops. The trail is restored to its level
// at entry in every case.
//
// The returned error is ctx.Err() on cancellation, or any non-inconsistency
// error raised by a branch or an objective. Failed nodes are not errors.
func (d *DFSearch) Solve(ctx context.Context, limit Limit) (Statistics, error) {
	ctx, span := d.tracer.Start(ctx, "search.solve")
	defer span.End()

	var stats Statistics
	level := d.sm.Level()
	err := d.dfs(ctx, &stats, limit)
	d.sm.RestoreUntil(level)

	span.SetAttributes(
		attribute.Int("search.nodes", stats.Nodes),
		attribute.Int("search.failures", stats.Failures),
		attribute.Int("search.solutions", stats.Solutions),
		attribute.Bool("search.completed", stats.Completed),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return stats, err
}

// SolveSubjectTo runs Solve with extra constraints that hold only for this
// search: subjectTo runs under a fresh trail level which is restored on
// return. If subjectTo fails with cp.ErrInconsistent the tree is empty and
// the search is reported as completed with one failure.
func (d *DFSearch) SolveSubjectTo(ctx context.Context, limit Limit, subjectTo func() error) (Statistics, error) {
	d.sm.Save()
	defer d.sm.RestoreLast()
	if err := subjectTo(); err != nil {
		if cp.IsInconsistent(err) {
			return Statistics{Failures: 1, Completed: true}, nil
		}
		return Statistics{}, err
	}
	return d.Solve(ctx, limit)
}

// Optimize runs a branch-and-bound search: obj is tightened at every
// solution, so each later solution is strictly better. The last solution
// reported to the OnSolution listeners is the best one found.
func (d *DFSearch) Optimize(ctx context.Context, obj Objective, limit Limit) (Statistics, error) {
	d.objective = obj
	defer func() { d.objective = nil }()
	return d.Solve(ctx, limit)
}

func (d *DFSearch) dfs(ctx context.Context, stats *Statistics, limit Limit) error {
	var alternatives []func() error
	if err := d.expandNode(&alternatives, stats); err != nil {
		return d.stopOrFail(err)
	}
	for len(alternatives) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}
		if limit != nil && limit(*stats) {
			return nil
		}
		next := alternatives[len(alternatives)-1]
		alternatives = alternatives[:len(alternatives)-1]
		if err := next(); err != nil {
			if !cp.IsInconsistent(err) {
				return d.stopOrFail(err)
			}
			stats.Failures++
			for _, f := range d.failureListeners {
				f()
			}
		}
	}
	stats.Completed = true
	return nil
}

func (d *DFSearch) stopOrFail(err error) error {
	if errors.Is(err, ErrStopped) {
		return nil
	}
	return err
}

// expandNode pushes, for every alternative in reverse order, the triple
// save / run-and-expand / restore, so alternatives pop in their given
// order and each runs on its own trail level.
func (d *DFSearch) expandNode(alternatives *[]func() error, stats *Statistics) error {
	branches := d.branching()
	if len(branches) == 0 {
		stats.Solutions++
		if d.objective != nil {
			if err := d.objective.Tighten(); err != nil {
				return err
			}
		}
		for _, f := range d.solutionListeners {
			f()
		}
		return nil
	}
	for i := len(branches) - 1; i >= 0; i-- {
		b := branches[i]
		*alternatives = append(*alternatives,
			func() error {
				d.sm.RestoreLast()
				return nil
			},
			func() error {
				stats.Nodes++
				if err := b(); err != nil {
					return err
				}
				return d.expandNode(alternatives, stats)
			},
			func() error {
				d.sm.Save()
				return nil
			},
		)
	}
	return nil
}
