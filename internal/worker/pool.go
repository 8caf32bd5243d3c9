package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

type indexedJob struct {
	index int
	job   Job
}

// Pool manages a pool of workers that execute jobs concurrently.
// Results are returned in submission order.
type Pool struct {
	workers    int
	jobQueue   chan indexedJob
	collector  *ResultCollector
	wg         sync.WaitGroup
	ctx        context.Context
	cancelFunc context.CancelFunc
	next       int
	closeOnce  sync.Once
}

// NewPool creates a new worker pool with the specified number of workers.
// Cancelling ctx stops the pool; queued jobs that have not started are dropped.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:    workers,
		jobQueue:   make(chan indexedJob, workers*2),
		collector:  NewResultCollector(),
		ctx:        ctx,
		cancelFunc: cancel,
	}
}

// Start starts the worker pool
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
		case ij, ok := <-p.jobQueue:
			if !ok {
				return
			}
			p.collector.Add(ij.index, ij.job.Execute(p.ctx))
		}
	}
}

// Submit queues a job. It reports false once the pool's context is cancelled
// or Wait has returned.
// Submit must not be called concurrently with Wait.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}

	ij := indexedJob{index: p.next, job: job}
	p.next++

	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- ij:
		return true
	}
}

// Wait waits for all submitted jobs to complete and returns their results in
// submission order. Jobs dropped by cancellation are omitted.
func (p *Pool) Wait() []Result {
	p.closeQueue()
	p.wg.Wait()
	p.cancelFunc()
	return p.collector.Results()
}

func (p *Pool) closeQueue() {
	p.closeOnce.Do(func() {
		close(p.jobQueue)
	})
}

// ResultCollector gathers results from concurrent workers by position
type ResultCollector struct {
	results []Result
	mu      sync.Mutex
}

// NewResultCollector creates a new result collector
func NewResultCollector() *ResultCollector {
	return &ResultCollector{
		results: make([]Result, 0),
	}
}

// Add stores result at index (thread-safe)
func (c *ResultCollector) Add(index int, result Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for len(c.results) <= index {
		c.results = append(c.results, nil)
	}
	c.results[index] = result
}

// Results returns the collected results ordered by index, skipping gaps
func (c *ResultCollector) Results() []Result {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Result, 0, len(c.results))
	for _, r := range c.results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out
}
