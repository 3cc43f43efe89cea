//go:build astcenc_native && cgo

package native

import (
	"errors"
	"strings"
	"unsafe"

	nativecgo "github.com/arm-software/astcenc-bridge/astc/native/internal/astcenc"
)

// Enabled reports whether the CGO native implementation is available in this build.
func Enabled() bool { return true }

// Library calls the Encode function exported by the linked astcenc library.
//
// Library is safe for concurrent use as long as the linked library is; each
// call works on its own output structure.
type Library struct{}

func NewLibrary() (*Library, error) { return &Library{}, nil }

func (l *Library) Encode(src string, blockSize, quality, channels, threadCount int32) (Result, error) {
	if strings.IndexByte(src, 0) >= 0 {
		return Result{}, errors.New("astc/native: Encode: source path contains NUL byte")
	}

	status, length, p := nativecgo.Encode(src, blockSize, quality, channels, threadCount)
	res := Result{Status: status, Length: length}
	if status != 0 || p == nil {
		// The output pointer is undefined on failure.
		return res, nil
	}

	var data []byte
	if length > 0 {
		data = unsafe.Slice((*byte)(p), int(length))
	}
	res.Buffer = NewBuffer(data, func() { nativecgo.Free(p) })
	return res, nil
}
