package worker

import (
	"context"
	"sync"
)

// Job is a unit of work executed by the pool
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job
type Result interface {
	GetError() error
}

// Pool runs jobs across a fixed set of worker goroutines. Evaluation
// workloads are embarrassingly parallel, so results are collected
// unordered and merged by the caller.
type Pool struct {
	workers   int
	jobQueue  chan Job
	results   chan Result
	wg        sync.WaitGroup
	ctx       context.Context
	cancel    context.CancelFunc
	queueOnce sync.Once
	closeOnce sync.Once
}

// NewPool creates a pool with the given worker count. The parent
// context cancels the whole run; long corpus evaluations are expected
// to be cancellable from outside.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	poolCtx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:  workers,
		jobQueue: make(chan Job, workers*2),
		results:  make(chan Result, workers*2),
		ctx:      poolCtx,
		cancel:   cancel,
	}
}

// Start launches the workers
func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job; it is dropped if the pool is cancelled
func (p *Pool) Submit(job Job) {
	select {
	case <-p.ctx.Done():
	case p.jobQueue <- job:
	}
}

// Close signals that no more jobs will be submitted. Safe to call
// more than once; Submit must not be called after Close.
func (p *Pool) Close() {
	p.queueOnce.Do(func() {
		close(p.jobQueue)
	})
}

// Drain collects results until the workers finish, in arbitrary order.
// With more jobs than the channel buffers hold, the submitter and the
// drainer must run concurrently: both queues are bounded, so a full
// results buffer stalls the workers, which stalls Submit.
func (p *Pool) Drain() []Result {
	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	var results []Result
	for result := range p.results {
		results = append(results, result)
	}

	return results
}

// Wait closes the queue, waits for the workers, and returns every
// collected result. Only safe when every job was already submitted;
// callers still submitting must Close from the submitting goroutine
// and Drain from the collecting one.
func (p *Pool) Wait() []Result {
	p.Close()
	return p.Drain()
}

// Shutdown cancels the pool immediately
func (p *Pool) Shutdown() {
	p.cancel()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
