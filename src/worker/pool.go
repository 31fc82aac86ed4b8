package worker

import (
	"context"
	"log"
	"sync"

	"pixel-measure/src/session"
)

// ResultCallback is invoked when a session finishes (from a worker
// goroutine). The event loop passes a closure that posts back into the loop
// safely.
type ResultCallback func(res session.Result)

// Pool runs measurement sessions with a 1-slot input queue (strict
// back-pressure). One worker is enough: sessions never run concurrently,
// and the single slot plus the loop's busy flag enforce that.
type Pool struct {
	jobs chan job
	wg   sync.WaitGroup
}

type job struct {
	ctx  context.Context
	opts session.Options
	cb   ResultCallback
}

// New creates the pool. Size defaults to 1 when size<=0; the queue is 1 slot.
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
				log.Printf("worker: starting measurement session")
				res := session.Execute(j.ctx, j.opts)
				log.Printf("worker: session finished state=%s err=%v", res.State, res.Err)
				j.cb(res)
			}
		}()
	}
}

// Submit enqueues a session if the single-slot queue is free. Returns false
// if dropped.
func (p *Pool) Submit(ctx context.Context, opts session.Options, cb ResultCallback) bool {
	select {
	case p.jobs <- job{ctx: ctx, opts: opts, cb: cb}:
		return true
	default:
		return false
	}
}

// Close stops the pool after draining current work.
func (p *Pool) Close() {
	close(p.jobs)
	p.wg.Wait()
}
