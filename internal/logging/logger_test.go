package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/arm-software/astcenc-bridge/internal/logging"
)

func TestNewConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	off := false
	logger, err := logging.New(logging.Options{Level: "info", Format: "console", Output: &buf, Color: &off})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	logger.With(logging.FieldComponent, "bridge").Error("encode failed",
		logging.FieldRequestID, "abc",
		logging.FieldError, errors.New("status 4"),
	)
	logger.Debug("hidden")

	out := buf.String()
	if strings.Count(out, "\n") != 1 {
		t.Fatalf("expected exactly one line, got %q", out)
	}
	for _, want := range []string{"ERROR bridge: encode failed", "request_id=abc", `error="status 4"`} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("colour disabled but output has escape codes: %q", out)
	}
}

func TestNewConsoleColour(t *testing.T) {
	var buf bytes.Buffer
	on := true
	logger, err := logging.New(logging.Options{Format: "console", Output: &buf, Color: &on})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Warn("saturated")
	if !strings.Contains(buf.String(), "\x1b[33mWARN\x1b[0m") {
		t.Fatalf("expected coloured level, got %q", buf.String())
	}
}

func TestNewConsoleGroups(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Format: "console", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.With("a", 1).WithGroup("req").With("id", "x").Info("msg", "len", 16)
	out := buf.String()
	for _, want := range []string{" a=1", " req.id=x", " req.len=16"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

func TestNewJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger, err := logging.New(logging.Options{Level: "warn", Format: "json", Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	logger.Info("dropped")
	logger.Warn("queue rejected", logging.FieldRequestID, "r1")

	var rec map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &rec); err != nil {
		t.Fatalf("unmarshal %q: %v", buf.String(), err)
	}
	if rec["level"] != "warn" || rec["msg"] != "queue rejected" || rec["request_id"] != "r1" {
		t.Fatalf("unexpected record: %v", rec)
	}
	if _, ok := rec["ts"]; !ok {
		t.Fatalf("expected ts key in %v", rec)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatalf("New(xml): got nil error")
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := logging.ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q): got %v want %v", in, got, want)
		}
	}
}

func TestNop(t *testing.T) {
	if logging.Nop().Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("Nop logger should be disabled")
	}
	if logging.OrNop(nil) == nil {
		t.Fatalf("OrNop(nil) returned nil")
	}
	l := slog.Default()
	if logging.OrNop(l) != l {
		t.Fatalf("OrNop should return the given logger")
	}
}
