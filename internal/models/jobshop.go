package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/gitrdm/gokancp/pkg/constraints"
	"github.com/gitrdm/gokancp/pkg/cp"
	"github.com/gitrdm/gokancp/pkg/search"
)

// Task is one operation of a job: it runs on Machine for Duration units.
type Task struct {
	Machine  int
	Duration int
}

// JobShop is a job-shop instance. Each job is a sequence of tasks that
// run in order; each machine runs one task at a time.
type JobShop struct {
	Jobs [][]Task
}

// SmallJobShop is a 3-job, 3-machine instance with optimal makespan 11.
var SmallJobShop = JobShop{Jobs: [][]Task{
	{{0, 3}, {1, 2}, {2, 2}},
	{{0, 2}, {2, 1}, {1, 4}},
	{{1, 4}, {2, 3}},
}}

// Horizon is the sum of all durations, an upper bound on the makespan.
func (js JobShop) Horizon() int {
	h := 0
	for _, job := range js.Jobs {
		for _, t := range job {
			h += t.Duration
		}
	}
	return h
}

// Validate reports malformed instances.
func (js JobShop) Validate() error {
	if len(js.Jobs) == 0 {
		return fmt.Errorf("jobshop: no jobs: %w", cp.ErrInvalidArgument)
	}
	for j, job := range js.Jobs {
		for k, t := range job {
			if t.Duration <= 0 || t.Machine < 0 {
				return fmt.Errorf("jobshop: job %d task %d: %+v: %w", j, k, t, cp.ErrInvalidArgument)
			}
		}
	}
	return nil
}

// JobShopModel is the posted model: one start variable per task, a
// Disjunctive per machine, precedences inside each job and a makespan
// objective.
type JobShopModel struct {
	Instance  JobShop
	Solver    *cp.Solver
	Starts    [][]cp.IntVar
	Makespan  cp.IntVar
	Objective *constraints.Minimize
}

// NewJobShopModel posts js on a fresh solver.
func NewJobShopModel(js JobShop, opts ...cp.Option) (*JobShopModel, error) {
	if err := js.Validate(); err != nil {
		return nil, err
	}
	s := cp.NewSolver(opts...)
	horizon := js.Horizon()
	m := &JobShopModel{
		Instance: js,
		Solver:   s,
		Starts:   make([][]cp.IntVar, len(js.Jobs)),
		Makespan: cp.NewNamedIntVar(s, 0, horizon, "makespan"),
	}

	machines := map[int][]int{} // machine -> flat task indices
	var flatStarts []cp.IntVar
	var flatDur []int
	for j, job := range js.Jobs {
		m.Starts[j] = make([]cp.IntVar, len(job))
		for k, t := range job {
			x := cp.NewNamedIntVar(s, 0, horizon-t.Duration, fmt.Sprintf("s%d.%d", j, k))
			m.Starts[j][k] = x
			machines[t.Machine] = append(machines[t.Machine], len(flatStarts))
			flatStarts = append(flatStarts, x)
			flatDur = append(flatDur, t.Duration)
		}
	}

	post := func(p cp.Propagator) error {
		if err := s.Post(p); err != nil {
			return fmt.Errorf("jobshop: root propagation: %w", err)
		}
		return nil
	}
	for j, job := range js.Jobs {
		for k := 0; k+1 < len(job); k++ {
			end := cp.Offset(m.Starts[j][k], job[k].Duration)
			if err := post(constraints.NewLessOrEqual(end, m.Starts[j][k+1])); err != nil {
				return nil, err
			}
		}
		last := len(job) - 1
		if last >= 0 {
			end := cp.Offset(m.Starts[j][last], job[last].Duration)
			if err := post(constraints.NewLessOrEqual(end, m.Makespan)); err != nil {
				return nil, err
			}
		}
	}
	for _, idx := range machines {
		starts := make([]cp.IntVar, len(idx))
		durs := make([]int, len(idx))
		for i, f := range idx {
			starts[i] = flatStarts[f]
			durs[i] = flatDur[f]
		}
		c, err := constraints.NewDisjunctive(starts, durs)
		if err != nil {
			return nil, err
		}
		if err := post(c); err != nil {
			return nil, err
		}
	}
	m.Objective = constraints.NewMinimize(m.Makespan)
	if err := post(m.Objective); err != nil {
		return nil, err
	}
	return m, nil
}

// Schedule is a solved job shop: Starts[j][k] is the start of task k of
// job j.
type Schedule struct {
	Starts   [][]int
	Makespan int
}

func (m *JobShopModel) snapshot() Schedule {
	sch := Schedule{Starts: make([][]int, len(m.Starts)), Makespan: m.Makespan.Min()}
	for j, row := range m.Starts {
		sch.Starts[j] = make([]int, len(row))
		for k, x := range row {
			sch.Starts[j][k] = x.Min()
		}
	}
	return sch
}

// JobShopResult is the outcome of Optimize.
type JobShopResult struct {
	Best      *Schedule
	Solutions int
	Stats     search.Statistics
}

// Optimize runs branch and bound on the makespan and returns the best
// schedule found. Stats.Completed reports whether it is proven optimal.
func (m *JobShopModel) Optimize(ctx context.Context, limit search.Limit, opts ...search.Option) (JobShopResult, error) {
	var flat []cp.IntVar
	for _, row := range m.Starts {
		flat = append(flat, row...)
	}
	var res JobShopResult
	// the makespan is fixed last, at its smallest feasible value
	branching := search.And(search.FirstFail(flat...), search.Lexico(m.Makespan))
	d := search.NewDFSearch(m.Solver.StateManager(), branching, opts...)
	d.OnSolution(func() {
		sch := m.snapshot()
		res.Best = &sch
		res.Solutions++
	})
	stats, err := d.Optimize(ctx, m.Objective, limit)
	res.Stats = stats
	return res, err
}

// Format renders one line per machine listing its tasks in time order.
func (sch Schedule) Format(js JobShop) string {
	type slot struct{ job, task, start, end int }
	byMachine := map[int][]slot{}
	maxMachine := 0
	for j, job := range js.Jobs {
		for k, t := range job {
			st := sch.Starts[j][k]
			byMachine[t.Machine] = append(byMachine[t.Machine], slot{j, k, st, st + t.Duration})
			maxMachine = max(maxMachine, t.Machine)
		}
	}
	var b strings.Builder
	for mc := 0; mc <= maxMachine; mc++ {
		slots := byMachine[mc]
		for i := 1; i < len(slots); i++ {
			for k := i; k > 0 && slots[k].start < slots[k-1].start; k-- {
				slots[k], slots[k-1] = slots[k-1], slots[k]
			}
		}
		fmt.Fprintf(&b, "machine %d:", mc)
		for _, s := range slots {
			fmt.Fprintf(&b, " j%d.%d[%d,%d)", s.job, s.task, s.start, s.end)
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "makespan: %d\n", sch.Makespan)
	return b.String()
}
