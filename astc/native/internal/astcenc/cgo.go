//go:build astcenc_native && cgo

package astcenc

/*
#cgo LDFLAGS: -lastcenc
#cgo darwin LDFLAGS: -lm
#cgo linux LDFLAGS: -lstdc++ -lm -pthread

#include <stdlib.h>

typedef struct {
	int   result;
	int   length;
	void* data;
} TextureData;

extern void Encode(const char* src, int blockSize, int imageQuality, int channels, int threadCount, TextureData* output);
*/
import "C"

import "unsafe"

// Encode runs the library's blocking Encode call. On success the returned
// pointer was allocated with malloc and must be passed to Free.
func Encode(src string, blockSize, quality, channels, threadCount int32) (status, length int32, data unsafe.Pointer) {
	cs := C.CString(src)
	defer C.free(unsafe.Pointer(cs))

	var out C.TextureData
	C.Encode(cs, C.int(blockSize), C.int(quality), C.int(channels), C.int(threadCount), &out)
	return int32(out.result), int32(out.length), out.data
}

func Free(p unsafe.Pointer) {
	if p != nil {
		C.free(p)
	}
}
