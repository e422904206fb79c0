package worker

import (
	"context"
	"log"
	"runtime/debug"
	"sync"
)

// Job is a unit of background work. It must honor ctx cancellation where it can.
type Job func(ctx context.Context)

// Pool is a fixed-size worker pool with a 1-slot input queue (strict back-pressure).
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
	once sync.Once
}

type job struct {
	ctx  context.Context
	name string
	fn   Job
}

// New creates a worker pool. Size defaults to 1 when size<=0. Queue is 1 slot.
func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	p := &Pool{jobs: make(chan job, 1)}
	p.start(size)
	return p
}

func (p *Pool) start(n int) {
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for j := range p.jobs {
				run(j)
			}
		}()
	}
}

func run(j job) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Worker: PANIC in job %s: %v\n%s", j.name, r, debug.Stack())
		}
	}()
	log.Printf("Worker: Starting job %s", j.name)
	j.fn(j.ctx)
	log.Printf("Worker: Job %s returned", j.name)
}

// Submit enqueues a job if the single-slot queue is free. Returns false if dropped.
func (p *Pool) Submit(ctx context.Context, name string, fn Job) bool {
	select {
	case p.jobs <- job{ctx: ctx, name: name, fn: fn}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work. Safe to call twice.
func (p *Pool) Close() {
	p.once.Do(func() { close(p.jobs) })
	p.wg.Wait()
}
