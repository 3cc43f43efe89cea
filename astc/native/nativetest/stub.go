// Package nativetest provides an allocation-tracking stand-in for the native
// encoder, for tests of code built on native.Binding.
package nativetest

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/arm-software/astcenc-bridge/astc/native"
)

// Script decides what the stub returns for one source path.
type Script struct {
	// Status is returned verbatim. A nonzero status allocates nothing.
	Status int32
	// Length is the size of the allocated buffer when Status is zero.
	Length int32
	// Fill is written to every byte of the buffer.
	Fill byte
	// Data, when non-nil, replaces the filled buffer. Length is still the
	// declared length and defaults to len(Data).
	Data []byte
	// Err is returned as a host-level fault.
	Err error
	// Panic, when non-nil, is raised from Encode.
	Panic any
	// Gate, when non-nil, blocks Encode until it is closed.
	Gate <-chan struct{}
}

// Call records the arguments of one Encode invocation.
type Call struct {
	Src         string
	BlockSize   int32
	Quality     int32
	Channels    int32
	ThreadCount int32
}

// Stub is a native.Binding that hands out tracked buffers.
//
// Every buffer it allocates counts as live until released. Releasing twice is
// detected as a double free.
type Stub struct {
	mu      sync.Mutex
	scripts map[string]Script
	def     Script
	calls   []Call

	allocs      atomic.Int64
	frees       atomic.Int64
	doubleFrees atomic.Int64
	started     chan string
}

// NewStub returns a stub that answers every source with def unless a script
// is registered for it.
func NewStub(def Script) *Stub {
	return &Stub{
		scripts: make(map[string]Script),
		def:     def,
		started: make(chan string, 1024),
	}
}

// Set registers the script for src.
func (s *Stub) Set(src string, sc Script) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts[src] = sc
}

func (s *Stub) Encode(src string, blockSize, quality, channels, threadCount int32) (native.Result, error) {
	s.mu.Lock()
	sc, ok := s.scripts[src]
	if !ok {
		sc = s.def
	}
	s.calls = append(s.calls, Call{src, blockSize, quality, channels, threadCount})
	s.mu.Unlock()

	select {
	case s.started <- src:
	default:
	}

	if sc.Gate != nil {
		<-sc.Gate
	}
	if sc.Panic != nil {
		panic(sc.Panic)
	}
	if sc.Err != nil {
		return native.Result{}, sc.Err
	}
	if sc.Status != 0 {
		return native.Result{Status: sc.Status}, nil
	}

	length := sc.Length
	if length == 0 && sc.Data != nil {
		length = int32(len(sc.Data))
	}
	return native.Result{Status: 0, Length: length, Buffer: s.alloc(sc)}, nil
}

func (s *Stub) alloc(sc Script) *native.Buffer {
	var data []byte
	switch {
	case sc.Data != nil:
		data = append([]byte(nil), sc.Data...)
	case sc.Length > 0:
		data = make([]byte, sc.Length)
		for i := range data {
			data[i] = sc.Fill
		}
	default:
		return nil
	}
	s.allocs.Add(1)

	var freed atomic.Bool
	return native.NewBuffer(data, func() {
		if !freed.CompareAndSwap(false, true) {
			s.doubleFrees.Add(1)
			return
		}
		s.frees.Add(1)
	})
}

// Started receives the source path of each Encode call as it begins.
func (s *Stub) Started() <-chan string { return s.started }

// Calls returns a copy of every recorded invocation.
func (s *Stub) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount returns the number of Encode invocations for src.
func (s *Stub) CallCount(src string) int {
	n := 0
	for _, c := range s.Calls() {
		if c.Src == src {
			n++
		}
	}
	return n
}

func (s *Stub) Allocs() int64      { return s.allocs.Load() }
func (s *Stub) Frees() int64       { return s.frees.Load() }
func (s *Stub) DoubleFrees() int64 { return s.doubleFrees.Load() }

// Live returns the number of allocated buffers not yet released.
func (s *Stub) Live() int64 { return s.allocs.Load() - s.frees.Load() }

// CheckBalanced returns an error when a buffer leaked or was freed twice.
func (s *Stub) CheckBalanced() error {
	if n := s.DoubleFrees(); n != 0 {
		return fmt.Errorf("nativetest: %d double free(s)", n)
	}
	if n := s.Live(); n != 0 {
		return fmt.Errorf("nativetest: %d buffer(s) leaked (%d allocated, %d freed)", n, s.Allocs(), s.Frees())
	}
	return nil
}

var _ native.Binding = (*Stub)(nil)
