// Package logtest records slog output for assertions in tests.
package logtest

import (
	"context"
	"log/slog"
	"sync"
)

// Entry is one captured log record with its attributes flattened by key.
type Entry struct {
	Level   slog.Level
	Message string
	Attrs   map[string]slog.Value
}

// Attr returns the string form of the attribute key, or "" when absent.
func (e Entry) Attr(key string) string {
	v, ok := e.Attrs[key]
	if !ok {
		return ""
	}
	return v.String()
}

// Recorder is a slog.Handler that keeps every record it receives.
type Recorder struct {
	state *recorderState
	attrs []slog.Attr
}

type recorderState struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns a recorder and a logger writing to it at every level.
func New() (*Recorder, *slog.Logger) {
	r := &Recorder{state: &recorderState{}}
	return r, slog.New(r)
}

func (r *Recorder) Enabled(context.Context, slog.Level) bool { return true }

func (r *Recorder) Handle(_ context.Context, record slog.Record) error {
	e := Entry{Level: record.Level, Message: record.Message, Attrs: make(map[string]slog.Value)}
	for _, a := range r.attrs {
		e.Attrs[a.Key] = a.Value.Resolve()
	}
	record.Attrs(func(a slog.Attr) bool {
		e.Attrs[a.Key] = a.Value.Resolve()
		return true
	})

	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	r.state.entries = append(r.state.entries, e)
	return nil
}

func (r *Recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &Recorder{state: r.state, attrs: append(append([]slog.Attr(nil), r.attrs...), attrs...)}
}

// WithGroup is ignored; keys are recorded unqualified.
func (r *Recorder) WithGroup(string) slog.Handler { return r }

// Entries returns a copy of all captured records.
func (r *Recorder) Entries() []Entry {
	r.state.mu.Lock()
	defer r.state.mu.Unlock()
	return append([]Entry(nil), r.state.entries...)
}

// AtLeast returns the captured records at or above level.
func (r *Recorder) AtLeast(level slog.Level) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level >= level {
			out = append(out, e)
		}
	}
	return out
}
