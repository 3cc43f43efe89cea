package bridge

import "github.com/arm-software/astcenc-bridge/astc/native"

// Outcome is the resolved value of a PendingEncode: either a successful
// native.Result or a failure, never both.
type Outcome struct {
	result native.Result
	err    error
}

func success(res native.Result) Outcome { return Outcome{result: res} }

func failure(err error) Outcome { return Outcome{err: err} }

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool { return o.err == nil && o.result.OK() }

// Result returns the encoder result of a successful outcome. The caller owns
// the result's buffer and must release it.
func (o Outcome) Result() (native.Result, bool) {
	if !o.OK() {
		return native.Result{}, false
	}
	return o.result, true
}

// Err returns the failure, or nil for a success.
func (o Outcome) Err() error {
	if o.err == nil && !o.result.OK() {
		return &EncodeException{Fault: errEmptyOutcome}
	}
	return o.err
}

// Kind classifies the failure, or returns KindNone for a success.
func (o Outcome) Kind() FailureKind { return KindOf(o.Err()) }
