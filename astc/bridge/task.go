package bridge

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/arm-software/astcenc-bridge/astc/native"
	"github.com/arm-software/astcenc-bridge/internal/logging"
)

// encodeTask is one request bound to one worker execution.
type encodeTask struct {
	req     Request
	binding native.Binding
	pending *PendingEncode
	logger  *slog.Logger
}

func (t *encodeTask) run() {
	o := t.execute()
	if !t.pending.resolve(o) {
		if res, ok := o.Result(); ok {
			res.Buffer.Release()
		}
		t.logger.Warn("duplicate resolution ignored")
	}
}

func (t *encodeTask) execute() Outcome {
	res, err := t.invoke()
	if err != nil {
		t.logger.Error("encode fault", logging.FieldError, err)
		return failure(&EncodeException{Fault: err})
	}

	if res.Status != 0 {
		// The buffer is undefined for a nonzero status and is left untouched.
		t.logger.Error("encoder returned error status",
			logging.FieldStatus, res.Status,
			logging.FieldStatusName, res.Code().String(),
		)
		return failure(&EncoderError{Status: res.Status})
	}

	if !res.OK() {
		res.Buffer.Release()
		fault := fmt.Errorf("status 0 with length %d and buffer present=%t", res.Length, res.Buffer != nil)
		t.logger.Error("encoder broke result contract", logging.FieldError, fault)
		return failure(&EncodeException{Fault: fault})
	}

	return success(res)
}

func (t *encodeTask) invoke() (res native.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = native.Result{}
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	r := t.req
	return t.binding.Encode(r.Source, r.BlockSize, r.Quality, r.Channels, r.ThreadCount)
}
