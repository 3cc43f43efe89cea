//go:build astcenc_native && !cgo

package native

import "errors"

var errNoCGO = errors.New("astc/native: astcenc_native set but CGO is disabled (set CGO_ENABLED=1)")

func Enabled() bool { return false }

type Library struct{}

func NewLibrary() (*Library, error) { return nil, errNoCGO }

func (l *Library) Encode(src string, blockSize, quality, channels, threadCount int32) (Result, error) {
	return Result{}, errNoCGO
}
