package bridge

import (
	"errors"
	"fmt"

	"github.com/arm-software/astcenc-bridge/astc"
)

var (
	// ErrQueueRejected reports that the worker pool refused the request. The
	// encoder was not invoked; the caller may submit a new request.
	ErrQueueRejected = errors.New("astc/bridge: work item rejected by worker pool")

	// ErrInvalidRequest reports a structurally unusable request.
	ErrInvalidRequest = errors.New("astc/bridge: invalid request")

	// ErrAlreadyObserved is returned by Await after the outcome was taken or
	// the pending encode was discarded.
	ErrAlreadyObserved = errors.New("astc/bridge: outcome already observed or discarded")
)

// EncoderError reports a nonzero status from the encoder. The status is kept
// verbatim.
type EncoderError struct {
	Status int32
}

func (e *EncoderError) Error() string {
	return fmt.Sprintf("astc/bridge: encoder returned status %d (%s)", e.Status, e.Code())
}

// Code returns the status as an astcenc error code.
func (e *EncoderError) Code() astc.ErrorCode { return astc.ErrorCode(uint32(e.Status)) }

// EncodeException reports a fault raised while invoking the encoder.
type EncodeException struct {
	Fault error
}

func (e *EncodeException) Error() string {
	return "astc/bridge: encode fault: " + e.Fault.Error()
}

func (e *EncodeException) Unwrap() error { return e.Fault }

// PanicError carries a value recovered from a panicking encoder call.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string { return fmt.Sprintf("panic: %v", e.Value) }

// AssemblyError reports that an encoded result could not be turned into a
// texture resource.
type AssemblyError struct {
	Err error
}

func (e *AssemblyError) Error() string { return "astc/assembly: " + e.Err.Error() }

func (e *AssemblyError) Unwrap() error { return e.Err }

// FailureKind tags the variant of a bridge failure.
type FailureKind uint8

const (
	KindNone FailureKind = iota
	KindInvalidRequest
	KindQueueRejected
	KindEncoderError
	KindEncodeException
	KindAssembly
	// KindOther is any error produced outside this taxonomy, such as a
	// cancelled Await context.
	KindOther
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidRequest:
		return "invalid_request"
	case KindQueueRejected:
		return "queue_rejected"
	case KindEncoderError:
		return "encoder_error"
	case KindEncodeException:
		return "encode_exception"
	case KindAssembly:
		return "assembly_failure"
	default:
		return "other"
	}
}

// KindOf classifies err without inspecting its text.
func KindOf(err error) FailureKind {
	if err == nil {
		return KindNone
	}
	var (
		encErr *EncoderError
		exc    *EncodeException
		asmErr *AssemblyError
	)
	switch {
	case errors.As(err, &asmErr):
		return KindAssembly
	case errors.As(err, &encErr):
		return KindEncoderError
	case errors.As(err, &exc):
		return KindEncodeException
	case errors.Is(err, ErrQueueRejected):
		return KindQueueRejected
	case errors.Is(err, ErrInvalidRequest):
		return KindInvalidRequest
	default:
		return KindOther
	}
}
