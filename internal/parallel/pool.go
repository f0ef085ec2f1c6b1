// Package parallel runs independent solver jobs concurrently.
//
// The propagation engine is single-threaded: a cp.Solver and everything
// created from it belong to one goroutine. Parallelism therefore happens
// one level up, by running several complete models side by side, each
// building its own solver inside its job.
package parallel

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"
)

// ErrPoolShutdown is returned when trying to submit tasks to a shutdown pool.
var ErrPoolShutdown = errors.New("worker pool has been shutdown")

// WorkerPool manages a fixed set of goroutines fed through a buffered
// channel. Submit blocks when the buffer is full, which bounds the number
// of models held in memory at once.
type WorkerPool struct {
	maxWorkers int
	taskChan   chan func()
	workerWg   sync.WaitGroup

	mu     sync.RWMutex
	closed bool
}

// NewWorkerPool creates a new worker pool with the specified number of workers.
// If maxWorkers is 0 or negative, it defaults to the number of CPU cores.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers <= 0 {
		maxWorkers = runtime.NumCPU()
	}

	pool := &WorkerPool{
		maxWorkers: maxWorkers,
		taskChan:   make(chan func(), maxWorkers*2),
	}
	for i := 0; i < maxWorkers; i++ {
		pool.workerWg.Add(1)
		go pool.worker()
	}
	return pool
}

// Size returns the number of workers.
func (wp *WorkerPool) Size() int { return wp.maxWorkers }

func (wp *WorkerPool) worker() {
	defer wp.workerWg.Done()
	for task := range wp.taskChan {
		if task != nil {
			task()
		}
	}
}

// Submit queues task. It blocks while the queue is full and returns
// ctx.Err() if ctx ends first, or ErrPoolShutdown after Shutdown.
func (wp *WorkerPool) Submit(ctx context.Context, task func()) error {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return ErrPoolShutdown
	}
	select {
	case wp.taskChan <- task:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown stops accepting tasks and waits for the queued and running ones
// to finish. It is safe to call more than once.
func (wp *WorkerPool) Shutdown() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	close(wp.taskChan)
	wp.mu.Unlock()
	wp.workerWg.Wait()
}

// Job is one independent model run. Run must create every solver it uses
// and should honor ctx cancellation.
type Job struct {
	Name string
	Run  func(ctx context.Context) (string, error)
}

// Result is the outcome of a Job.
type Result struct {
	Name     string
	Output   string
	Err      error
	Duration time.Duration
}

// RunJobs runs every job on the pool and returns their results in job
// order. A job that could not be submitted reports the submission error.
func (wp *WorkerPool) RunJobs(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))
	var wg sync.WaitGroup
	for i, job := range jobs {
		results[i].Name = job.Name
		wg.Add(1)
		err := wp.Submit(ctx, func() {
			defer wg.Done()
			start := time.Now()
			out, err := job.Run(ctx)
			results[i].Output = out
			results[i].Err = err
			results[i].Duration = time.Since(start)
		})
		if err != nil {
			wg.Done()
			results[i].Err = err
		}
	}
	wg.Wait()
	return results
}
