package parallel

import (
	"context"
	"runtime"
	"sync/atomic"
)

// RowFunc renders row into dst. dst has the pool's row size.
type RowFunc func(row int, dst []byte) error

// Spawner starts goroutines and collects their errors.
// *errgroup.Group satisfies it.
type Spawner interface {
	Go(f func() error)
}

// WorkerPool is a fixed set of row workers sharing one job source and one
// result channel.
//
// Each worker repeatedly takes a RowJob, renders the row into a buffer from
// the RowBufferPool and hands the RowResult to the result channel. A worker
// exits on the Stop job, on context cancellation, or on the first error.
// Workers never communicate with each other.
//
// Thread safety: WorkerPool is safe for concurrent use once started.
type WorkerPool struct {
	// workers is the number of worker goroutines.
	workers int

	// render produces one row.
	render RowFunc

	// buffers supplies row buffers.
	buffers *RowBufferPool

	// rendered counts finished rows per worker.
	rendered []atomic.Int64

	// running indicates whether Start has been called.
	running atomic.Bool
}

// NewWorkerPool creates a pool with the given number of workers.
// If workers is 0 or negative, GOMAXPROCS is used.
// The pool does not start until Start is called.
func NewWorkerPool(workers int, buffers *RowBufferPool, render RowFunc) *WorkerPool {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &WorkerPool{
		workers:  workers,
		render:   render,
		buffers:  buffers,
		rendered: make([]atomic.Int64, workers),
	}
}

// Start launches the workers through g. Each worker's error, if any, is
// returned through g. Start may be called once; later calls are no-ops.
func (p *WorkerPool) Start(ctx context.Context, g Spawner, jobs <-chan RowJob, results chan<- RowResult) {
	if !p.running.CompareAndSwap(false, true) {
		return
	}
	for id := range p.workers {
		g.Go(func() error {
			return p.worker(ctx, id, jobs, results)
		})
	}
}

// worker is the main loop of one worker goroutine.
func (p *WorkerPool) worker(ctx context.Context, id int, jobs <-chan RowJob, results chan<- RowResult) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		var (
			job RowJob
			ok  bool
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok = <-jobs:
		}
		if !ok {
			return &Error{Stage: StageWorker, Row: -1, Err: ErrJobSourceClosed}
		}
		if job.IsStop() {
			return nil
		}

		buf := p.buffers.Get()
		if err := p.render(job.Row, buf); err != nil {
			p.buffers.Put(buf)
			return &Error{Stage: StageWorker, Row: job.Row, Err: err}
		}

		select {
		case results <- RowResult{Row: job.Row, Data: buf}:
			p.rendered[id].Add(1)
		case <-ctx.Done():
			p.buffers.Put(buf)
			return ctx.Err()
		}
	}
}

// Workers returns the number of workers in the pool.
func (p *WorkerPool) Workers() int {
	return p.workers
}

// IsRunning returns true once the workers have been started.
func (p *WorkerPool) IsRunning() bool {
	return p.running.Load()
}

// Rendered returns the number of rows each worker has delivered so far.
func (p *WorkerPool) Rendered() []int64 {
	out := make([]int64, p.workers)
	for i := range out {
		out[i] = p.rendered[i].Load()
	}
	return out
}
