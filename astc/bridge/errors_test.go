package bridge_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/arm-software/astcenc-bridge/astc/bridge"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		err  error
		want bridge.FailureKind
	}{
		{nil, bridge.KindNone},
		{fmt.Errorf("%w: full", bridge.ErrQueueRejected), bridge.KindQueueRejected},
		{fmt.Errorf("%w: empty", bridge.ErrInvalidRequest), bridge.KindInvalidRequest},
		{&bridge.EncoderError{Status: 4}, bridge.KindEncoderError},
		{&bridge.EncodeException{Fault: errors.New("io")}, bridge.KindEncodeException},
		{&bridge.AssemblyError{Err: errors.New("short")}, bridge.KindAssembly},
		{fmt.Errorf("wrapped: %w", &bridge.EncoderError{Status: 1}), bridge.KindEncoderError},
		{context.Canceled, bridge.KindOther},
	}
	for _, c := range cases {
		if got := bridge.KindOf(c.err); got != c.want {
			t.Fatalf("KindOf(%v): got %v want %v", c.err, got, c.want)
		}
	}
}

func TestEncoderError_MessageNamesStatus(t *testing.T) {
	err := &bridge.EncoderError{Status: 4}
	if !strings.Contains(err.Error(), "status 4") || !strings.Contains(err.Error(), "ASTCENC_ERR_BAD_BLOCK_SIZE") {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestFailureKindString(t *testing.T) {
	if got := bridge.KindQueueRejected.String(); got != "queue_rejected" {
		t.Fatalf("got %q", got)
	}
	if got := bridge.FailureKind(200).String(); got != "other" {
		t.Fatalf("got %q", got)
	}
}
