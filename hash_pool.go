package hivekeeper

import (
	"context"
	"sync"
)

// HashPool runs password hashing on a fixed set of workers so the deliberate
// cost of Argon2 never executes on the goroutine dispatching requests. Jobs
// are handed off through a bounded queue; when every worker is busy and the
// queue is full, submission fails immediately with ErrHashPoolBusy instead
// of queueing indefinitely. A job that has started is never interrupted:
// hashing cost is fixed and tuned to finish well under request timeouts.
type HashPool struct {
	hasher *Hasher
	jobs   chan hashJob
	done   chan struct{}
	wg     sync.WaitGroup
}

type hashJob struct {
	run func()
}

var _ PasswordAuthenticator = (*HashPool)(nil)

// NewHashPool starts workers goroutines draining a queue of queue pending
// jobs. Both are clamped to at least one.
func NewHashPool(hasher *Hasher, workers, queue int) *HashPool {
	if workers < 1 {
		workers = 1
	}
	if queue < 1 {
		queue = 1
	}

	p := &HashPool{
		hasher: hasher,
		jobs:   make(chan hashJob, queue),
		done:   make(chan struct{}),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.worker()
	}

	return p
}

func (p *HashPool) worker() {
	defer p.wg.Done()
	for {
		select {
		case job := <-p.jobs:
			job.run()
		case <-p.done:
			return
		}
	}
}

// Close stops the workers and waits for them to exit. Queued jobs that were
// not picked up will never run; their callers are already gone by the time
// Close is used during shutdown.
func (p *HashPool) Close() {
	close(p.done)
	p.wg.Wait()
}

// HashPassword submits a hash job and waits for the result. The caller's
// context covers only the wait: work already started runs to completion.
func (p *HashPool) HashPassword(ctx context.Context, password string) (string, error) {
	type result struct {
		hash string
		err  error
	}

	out := make(chan result, 1)
	job := hashJob{run: func() {
		h, err := p.hasher.Hash(password)
		out <- result{hash: h, err: err}
	}}

	select {
	case p.jobs <- job:
	default:
		return "", ErrHashPoolBusy
	}

	select {
	case r := <-out:
		return r.hash, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// VerifyPassword submits a verification job and waits for the result. A
// saturated pool or cancelled wait verifies as false: verification fails
// closed.
func (p *HashPool) VerifyPassword(ctx context.Context, password, hash string) bool {
	out := make(chan bool, 1)
	job := hashJob{run: func() {
		out <- p.hasher.Verify(password, hash)
	}}

	select {
	case p.jobs <- job:
	default:
		return false
	}

	select {
	case ok := <-out:
		return ok
	case <-ctx.Done():
		return false
	}
}
