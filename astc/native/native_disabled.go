//go:build !astcenc_native

package native

import "errors"

var errDisabled = errors.New("astc/native: disabled (build with -tags astcenc_native and CGO_ENABLED=1)")

// Enabled reports whether the CGO native implementation is available in this build.
func Enabled() bool { return false }

type Library struct{}

func NewLibrary() (*Library, error) { return nil, errDisabled }

func (l *Library) Encode(src string, blockSize, quality, channels, threadCount int32) (Result, error) {
	return Result{}, errDisabled
}
