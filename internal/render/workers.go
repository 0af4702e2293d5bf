package render

import (
	"context"
	"sync"
)

// bandJob asks a worker to process columns [lo, hi)
type bandJob struct {
	lo, hi int
	fn     func(lo, hi int)
	done   *sync.WaitGroup
}

// WorkerPool runs a per-frame job over column bands on long-lived
// goroutines. Bands must not share pixels.
type WorkerPool struct {
	jobQueue chan bandJob
	workers  int
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewWorkerPool starts workers goroutines
func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	pool := &WorkerPool{
		jobQueue: make(chan bandJob, workers),
		workers:  workers,
		ctx:      ctx,
		cancel:   cancel,
	}

	for i := range workers {
		pool.wg.Add(1)
		go pool.worker(i)
	}
	return pool
}

func (p *WorkerPool) Workers() int { return p.workers }

// Run splits [0, n) into one band per worker, calls fn on each band and
// waits for all of them.
func (p *WorkerPool) Run(n int, fn func(lo, hi int)) {
	if n <= 0 {
		return
	}
	if p.ctx.Err() != nil {
		fn(0, n)
		return
	}
	bands := min(p.workers, n)
	size := (n + bands - 1) / bands

	var done sync.WaitGroup
	for lo := 0; lo < n; lo += size {
		hi := min(lo+size, n)
		done.Add(1)
		p.jobQueue <- bandJob{lo: lo, hi: hi, fn: fn, done: &done}
	}
	done.Wait()
}

// worker is the worker goroutine that processes band jobs
func (p *WorkerPool) worker(id int) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobQueue:
			job.fn(job.lo, job.hi)
			job.done.Done()
		case <-p.ctx.Done():
			return
		}
	}
}

// Shutdown stops the workers. It must not race Run; later Run calls work
// on the caller's goroutine.
func (p *WorkerPool) Shutdown() {
	p.cancel()
	p.wg.Wait()
}
