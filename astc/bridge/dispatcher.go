package bridge

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/arm-software/astcenc-bridge/astc/native"
	"github.com/arm-software/astcenc-bridge/internal/logging"
)

// Submitter accepts work without blocking, refusing it with an error when it
// cannot be taken. *workpool.Pool implements it.
type Submitter interface {
	TrySubmit(job func()) error
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the observability sink. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(d *Dispatcher) {
		d.logger = logging.OrNop(l)
	}
}

// WithIDGenerator overrides how request IDs are assigned.
func WithIDGenerator(fn func() string) Option {
	return func(d *Dispatcher) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// Dispatcher schedules encodes on a shared pool. It is safe for concurrent use.
type Dispatcher struct {
	pool    Submitter
	binding native.Binding
	logger  *slog.Logger
	newID   func() string
}

func NewDispatcher(pool Submitter, binding native.Binding, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		pool:    pool,
		binding: binding,
		logger:  logging.Nop(),
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With(logging.FieldComponent, "bridge")
	return d
}

// Submit schedules req and returns its pending handle without blocking.
//
// A request with an empty source, or one the pool refuses, comes back already
// resolved with a failure and the encoder is never invoked.
func (d *Dispatcher) Submit(req Request) *PendingEncode {
	if req.ID == "" {
		req.ID = d.newID()
	}
	p := newPending(req.ID)
	logger := d.logger.With(logging.FieldRequestID, req.ID, logging.FieldSource, req.Source)

	if req.Source == "" {
		logger.Error("request rejected", logging.FieldError, "empty source path")
		p.resolve(failure(fmt.Errorf("%w: empty source path", ErrInvalidRequest)))
		return p
	}
	if d.pool == nil || d.binding == nil {
		logger.Error("work item rejected", logging.FieldError, "dispatcher has no pool or binding")
		p.resolve(failure(fmt.Errorf("%w: dispatcher not configured", ErrQueueRejected)))
		return p
	}

	task := &encodeTask{req: req, binding: d.binding, pending: p, logger: logger}
	if err := d.pool.TrySubmit(task.run); err != nil {
		logger.Error("work item rejected", logging.FieldError, err)
		p.resolve(failure(fmt.Errorf("%w: %w", ErrQueueRejected, err)))
	}
	return p
}

// Encode submits req and waits for its outcome. On success the caller owns the
// returned buffer.
func (d *Dispatcher) Encode(ctx context.Context, req Request) (native.Result, error) {
	o, err := d.Submit(req).Await(ctx)
	if err != nil {
		return native.Result{}, err
	}
	res, ok := o.Result()
	if !ok {
		return native.Result{}, o.Err()
	}
	return res, nil
}
