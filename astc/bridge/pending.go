package bridge

import (
	"context"
	"errors"
	"sync"
)

var errEmptyOutcome = errors.New("empty outcome")

// PendingEncode is the single-resolution handle for one submitted request.
//
// It is resolved once by the worker that ran the encode (or by the dispatcher
// when the request never reached a worker) and observed once by Await.
type PendingEncode struct {
	id   string
	done chan struct{}

	mu        sync.Mutex
	outcome   Outcome
	resolved  bool
	observed  bool
	discarded bool
}

func newPending(id string) *PendingEncode {
	return &PendingEncode{id: id, done: make(chan struct{})}
}

// ID returns the request ID.
func (p *PendingEncode) ID() string { return p.id }

// Done is closed once the outcome is available.
func (p *PendingEncode) Done() <-chan struct{} { return p.done }

// Resolved reports whether an outcome has been set.
func (p *PendingEncode) Resolved() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolved
}

// Await parks the calling goroutine until the outcome is available or ctx
// ends, and takes ownership of the outcome.
//
// Only the first call observes the outcome; later calls return
// ErrAlreadyObserved. If ctx ends first the wait is abandoned: the encode keeps
// running and its buffer is released when it completes.
func (p *PendingEncode) Await(ctx context.Context) (Outcome, error) {
	select {
	case <-p.done:
	default:
		// An outcome that is already available wins over a finished ctx.
		select {
		case <-p.done:
		case <-ctx.Done():
			p.Discard()
			return Outcome{}, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.observed || p.discarded {
		return Outcome{}, ErrAlreadyObserved
	}
	p.observed = true
	return p.outcome, nil
}

// Discard gives up interest in the outcome. A success buffer that arrives
// later, or has already arrived unobserved, is released. Discard after the
// outcome was observed has no effect.
func (p *PendingEncode) Discard() {
	p.mu.Lock()
	if p.observed || p.discarded {
		p.mu.Unlock()
		return
	}
	p.discarded = true
	resolved := p.resolved
	p.mu.Unlock()

	if resolved {
		p.releaseOutcome()
	}
}

// resolve sets the outcome. It reports false, changing nothing, when the
// pending encode was already resolved.
func (p *PendingEncode) resolve(o Outcome) bool {
	p.mu.Lock()
	if p.resolved {
		p.mu.Unlock()
		return false
	}
	p.resolved = true
	p.outcome = o
	discarded := p.discarded
	p.mu.Unlock()

	close(p.done)
	if discarded {
		p.releaseOutcome()
	}
	return true
}

func (p *PendingEncode) releaseOutcome() {
	if res, ok := p.outcome.Result(); ok {
		res.Buffer.Release()
	}
}
