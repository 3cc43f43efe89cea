package native

import "github.com/arm-software/astcenc-bridge/astc"

// Binding is a synchronous encode entry point.
//
// Encode blocks until the encoder finishes. Parameter validation is left to the
// encoder: bad values surface as a nonzero Result.Status, not as an error. A
// non-nil error reports a host-level fault (the call itself could not be made
// or died part way).
type Binding interface {
	Encode(src string, blockSize, quality, channels, threadCount int32) (Result, error)
}

// Result mirrors the encoder's output structure.
//
// Status == 0 implies Buffer != nil and Length > 0. For any other status the
// buffer must not be read.
type Result struct {
	Status int32
	Length int32
	Buffer *Buffer
}

// OK reports whether r satisfies the success contract.
func (r Result) OK() bool {
	return r.Status == 0 && r.Buffer != nil && r.Length > 0
}

// Code returns Status as an astcenc error code.
func (r Result) Code() astc.ErrorCode { return astc.ErrorCode(uint32(r.Status)) }

// BindingFunc adapts a plain function to Binding.
type BindingFunc func(src string, blockSize, quality, channels, threadCount int32) (Result, error)

func (f BindingFunc) Encode(src string, blockSize, quality, channels, threadCount int32) (Result, error) {
	return f(src, blockSize, quality, channels, threadCount)
}

var (
	_ Binding = (*Library)(nil)
	_ Binding = (*CLI)(nil)
	_ Binding = BindingFunc(nil)
)
