package workers

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// TaskFunc processes the item at position index
type TaskFunc[In, Out any] func(ctx context.Context, index int, item In) (Out, error)

// Result contains the outcome of a task for one item
type Result[Out any] struct {
	Index int
	Value Out
	Err   error
}

// Pool runs tasks over a slice with a bounded number of goroutines
type Pool[In, Out any] struct {
	workerLimit int
}

// Option configures a Pool
type Option[In, Out any] func(*Pool[In, Out])

// WithWorkerLimit sets the maximum number of concurrent workers
func WithWorkerLimit[In, Out any](limit int) Option[In, Out] {
	return func(p *Pool[In, Out]) {
		p.workerLimit = limit
	}
}

// NewPool creates a Pool with optional configuration
func NewPool[In, Out any](opts ...Option[In, Out]) *Pool[In, Out] {
	p := &Pool[In, Out]{
		workerLimit: runtime.NumCPU(),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.workerLimit <= 0 {
		p.workerLimit = runtime.NumCPU()
	}

	return p
}

// Run executes task for every item and returns the results in input order.
// Items not started before ctx is done carry ctx.Err().
func (p *Pool[In, Out]) Run(ctx context.Context, items []In, task TaskFunc[In, Out]) []Result[Out] {
	results := make([]Result[Out], len(items))
	if len(items) == 0 {
		return results
	}
	for i := range results {
		results[i].Index = i
	}

	var g errgroup.Group
	g.SetLimit(p.workerLimit)

	for idx := range items {
		if err := ctx.Err(); err != nil {
			for rest := idx; rest < len(items); rest++ {
				results[rest].Err = err
			}
			break
		}
		idx := idx
		// Go blocks while workerLimit tasks are running
		g.Go(func() error {
			// each index is owned by exactly one task
			value, err := task(ctx, idx, items[idx])
			results[idx].Value = value
			results[idx].Err = err
			return nil
		})
	}
	_ = g.Wait()

	return results
}
