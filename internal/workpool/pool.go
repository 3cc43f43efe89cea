// Package workpool runs jobs on a fixed set of worker goroutines fed by a
// bounded queue.
//
// A Pool is meant to be created once per process, started, shared by every
// submitter, and shut down on exit. Submission never blocks: a job the pool
// cannot take is refused with an error instead.
package workpool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/arm-software/astcenc-bridge/internal/logging"
)

var (
	// ErrNoCapacity is returned by pools created with zero workers.
	ErrNoCapacity = errors.New("workpool: pool has no workers")
	// ErrSaturated is returned when every worker is busy and the queue is full.
	ErrSaturated = errors.New("workpool: queue full")
	// ErrClosed is returned before Start and after Shutdown.
	ErrClosed = errors.New("workpool: pool not running")
)

type state uint8

const (
	stateNew state = iota
	stateRunning
	stateStopped
)

// Pool is a bounded worker pool. It is safe for concurrent use.
type Pool struct {
	workers int
	logger  *slog.Logger

	mu    sync.RWMutex
	state state
	jobs  chan func()

	wg sync.WaitGroup
}

// New returns a stopped pool with the given number of workers and queue slots.
// Negative values are treated as zero.
func New(workers, queue int, logger *slog.Logger) *Pool {
	workers = max(workers, 0)
	queue = max(queue, 0)
	return &Pool{
		workers: workers,
		logger:  logging.OrNop(logger).With(logging.FieldComponent, "workpool"),
		jobs:    make(chan func(), queue),
	}
}

// Start launches the workers. Calling Start more than once, or after Shutdown,
// has no effect.
func (p *Pool) Start() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != stateNew {
		return
	}
	p.state = stateRunning
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.work(i)
	}
}

// TrySubmit hands job to the pool without blocking.
//
// With zero workers every job is refused with ErrNoCapacity. When all workers
// are busy and the queue is full the job is refused with ErrSaturated.
func (p *Pool) TrySubmit(job func()) error {
	if job == nil {
		return errors.New("workpool: nil job")
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.state != stateRunning {
		return ErrClosed
	}
	if p.workers == 0 {
		return ErrNoCapacity
	}
	select {
	case p.jobs <- job:
		return nil
	default:
	}

	return ErrSaturated
}

// Shutdown stops accepting jobs, lets queued and running jobs finish, and waits
// for the workers to exit or ctx to end.
func (p *Pool) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	switch p.state {
	case stateNew:
		p.state = stateStopped
		p.mu.Unlock()
		return nil
	case stateStopped:
		p.mu.Unlock()
		return nil
	}
	p.state = stateStopped
	close(p.jobs)
	p.mu.Unlock()

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("workpool: shutdown: %w", ctx.Err())
	}
}

// Workers returns the configured number of workers.
func (p *Pool) Workers() int { return p.workers }

// Pending returns the number of queued jobs not yet picked up by a worker.
func (p *Pool) Pending() int { return len(p.jobs) }

// Running reports whether the pool accepts jobs.
func (p *Pool) Running() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state == stateRunning
}

func (p *Pool) work(id int) {
	defer p.wg.Done()
	for job := range p.jobs {
		p.run(id, job)
	}
}

func (p *Pool) run(id int, job func()) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("job panicked", "worker", id, logging.FieldError, fmt.Sprint(r))
		}
	}()
	job()
}
