package native

import (
	"sync"
	"sync/atomic"
)

// Buffer owns encoded bytes allocated outside the Go memory manager.
//
// A Buffer has a single owner at any time; pass the pointer along to transfer
// ownership and never copy the struct. The owner must call Release once it no
// longer needs the bytes.
type Buffer struct {
	data []byte
	free func()

	once     sync.Once
	released atomic.Bool
}

// NewBuffer wraps data, which stays valid until free is called. free may be nil
// for memory that needs no explicit release.
func NewBuffer(data []byte, free func()) *Buffer {
	return &Buffer{data: data, free: free}
}

// Bytes returns the buffer contents, or nil once the buffer has been released.
// The returned slice aliases native memory and must not be retained past Release.
func (b *Buffer) Bytes() []byte {
	if b == nil || b.released.Load() {
		return nil
	}
	return b.data
}

// Len returns the number of bytes in the buffer, or 0 once released.
func (b *Buffer) Len() int { return len(b.Bytes()) }

// Release frees the underlying memory. Only the first call frees; it reports
// whether this call did so.
func (b *Buffer) Release() bool {
	if b == nil {
		return false
	}
	freed := false
	b.once.Do(func() {
		b.released.Store(true)
		if b.free != nil {
			b.free()
		}
		b.data = nil
		freed = true
	})
	return freed
}

// Released reports whether Release has been called.
func (b *Buffer) Released() bool { return b != nil && b.released.Load() }
