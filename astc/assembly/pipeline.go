package assembly

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/arm-software/astcenc-bridge/astc"
	"github.com/arm-software/astcenc-bridge/astc/bridge"
	"github.com/arm-software/astcenc-bridge/astc/native"
	"github.com/arm-software/astcenc-bridge/internal/logging"
)

// Consumer creates a texture resource from encoded block data. raw is owned by
// the consumer once passed in.
type Consumer[R any] interface {
	CreateTexture(width, height int32, format astc.Format, raw []byte, length int32) (R, error)
}

// Target describes the texture an encode is expected to produce.
type Target struct {
	Width  int32
	Height int32
	// Footprint defaults to the request's footprint when loading through
	// Pipeline.Load.
	Footprint astc.Footprint
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	observe func(id string, s State)
}

// WithLogger sets the observability sink. The default discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = logging.OrNop(l)
	}
}

// WithStateObserver registers fn to be called on every state transition. fn
// runs on the goroutine calling Assemble.
func WithStateObserver(fn func(id string, s State)) Option {
	return func(o *options) {
		o.observe = fn
	}
}

// Pipeline assembles encode results into resources of type R.
type Pipeline[R any] struct {
	consumer Consumer[R]
	options
}

func NewPipeline[R any](consumer Consumer[R], opts ...Option) *Pipeline[R] {
	o := options{logger: logging.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With(logging.FieldComponent, "assembly")
	return &Pipeline[R]{consumer: consumer, options: o}
}

// Load submits req through d and assembles the result.
func (p *Pipeline[R]) Load(ctx context.Context, d *bridge.Dispatcher, req bridge.Request, target Target) (R, error) {
	if target.Footprint == (astc.Footprint{}) {
		target.Footprint = req.Footprint()
	}
	return p.Assemble(ctx, d.Submit(req), target)
}

// Assemble waits for pending and builds the resource for target.
//
// A failed encode is returned as is; it was reported where it was detected. A
// successful encode that cannot be assembled yields an *bridge.AssemblyError.
// The native buffer is released before Assemble returns in every case.
func (p *Pipeline[R]) Assemble(ctx context.Context, pending *bridge.PendingEncode, target Target) (R, error) {
	var zero R
	id := pending.ID()
	p.transition(id, StatePending)

	o, err := pending.Await(ctx)
	if err != nil {
		p.transition(id, StateFailed)
		return zero, err
	}
	res, ok := o.Result()
	if !ok {
		p.transition(id, StateFailed)
		return zero, o.Err()
	}
	p.transition(id, StateSucceeded)
	defer res.Buffer.Release()

	r, err := p.build(res, target)
	if err != nil {
		p.logger.Error("assembly failed",
			logging.FieldRequestID, id,
			logging.FieldLength, res.Length,
			logging.FieldError, err,
		)
		p.transition(id, StateAssemblyFailed)
		return zero, &bridge.AssemblyError{Err: err}
	}
	p.transition(id, StateAssembled)
	return r, nil
}

func (p *Pipeline[R]) build(res native.Result, target Target) (r R, err error) {
	format := target.Footprint.Format()
	if format == astc.FormatUndefined {
		return r, fmt.Errorf("unsupported block footprint %s", target.Footprint)
	}
	h, err := astc.NewHeader(target.Footprint, int(target.Width), int(target.Height))
	if err != nil {
		return r, err
	}

	src := res.Buffer.Bytes()
	if int(res.Length) != len(src) {
		return r, fmt.Errorf("declared length %d but buffer holds %d bytes", res.Length, len(src))
	}
	payload, err := blockPayload(src, h)
	if err != nil {
		return r, err
	}

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic during texture creation: %v", rec)
		}
	}()
	raw := make([]byte, len(payload))
	copy(raw, payload)
	return p.consumer.CreateTexture(target.Width, target.Height, format, raw, int32(len(raw)))
}

// blockPayload returns the block data in src, which is either exactly the
// payload for h or a whole .astc file describing the same image.
func blockPayload(src []byte, h astc.Header) ([]byte, error) {
	want, err := h.PayloadLen()
	if err != nil {
		return nil, err
	}
	switch {
	case len(src) == want:
		return src, nil
	case len(src) == astc.HeaderSize+want && astc.HasMagic(src):
		got, err := astc.ParseHeader(src)
		if err != nil {
			return nil, err
		}
		if got != h {
			return nil, fmt.Errorf("encoded header describes %s, want %s", got, h)
		}
		return src[astc.HeaderSize:], nil
	default:
		return nil, fmt.Errorf("encoded length %d does not match %d bytes for %s", len(src), want, h)
	}
}

func (p *Pipeline[R]) transition(id string, s State) {
	if p.observe != nil {
		p.observe(id, s)
	}
}
