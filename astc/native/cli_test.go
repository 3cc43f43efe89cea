package native

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func withHelperCommand(t *testing.T, mode string, captured *[]string) {
	t.Helper()
	original := execCommand
	execCommand = func(name string, args ...string) *exec.Cmd {
		*captured = append([]string(nil), args...)
		cmd := exec.Command(os.Args[0], "-test.run=TestHelperProcess")
		out := ""
		if len(args) > 2 {
			out = args[2]
		}
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "ASTCENC_HELPER_MODE="+mode, "ASTCENC_HELPER_OUT="+out)
		return cmd
	}
	t.Cleanup(func() {
		execCommand = original
	})
}

func TestNewCLIWithBinary(t *testing.T) {
	cli := NewCLI(WithBinary("/opt/astcenc-avx2"))
	if cli.binary != "/opt/astcenc-avx2" {
		t.Fatalf("expected binary override to be applied, got %q", cli.binary)
	}
	if NewCLI(WithBinary("")).binary != "astcenc" {
		t.Fatalf("empty binary override should keep the default")
	}
}

func TestCLIEncode_Success(t *testing.T) {
	var args []string
	withHelperCommand(t, "success", &args)

	dir := t.TempDir()
	cli := NewCLI(WithTempDir(dir))
	res, err := cli.Encode("/images/palm.jpeg", 8, 2, 4, 8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !res.OK() {
		t.Fatalf("Encode: got %+v, want success", res)
	}
	if int(res.Length) != res.Buffer.Len() {
		t.Fatalf("length mismatch: %d vs %d", res.Length, res.Buffer.Len())
	}
	if !bytes.HasPrefix(res.Buffer.Bytes(), []byte{0x13, 0xAB, 0xA1, 0x5C}) {
		t.Fatalf("expected .astc magic in output")
	}

	want := []string{"-cl", "/images/palm.jpeg", args[2], "8x8", "-medium", "-j", "8"}
	if fmt.Sprint(args) != fmt.Sprint(want) {
		t.Fatalf("args: got %v want %v", args, want)
	}
	if filepath.Dir(args[2]) != dir {
		t.Fatalf("output %q not written to temp dir %q", args[2], dir)
	}

	if !res.Buffer.Release() {
		t.Fatalf("Release: got false on first call")
	}
	if _, err := os.Stat(args[2]); !os.IsNotExist(err) {
		t.Fatalf("temp output not removed after release: %v", err)
	}
}

func TestCLIEncode_ExitCodeBecomesStatus(t *testing.T) {
	var args []string
	withHelperCommand(t, "failure", &args)

	dir := t.TempDir()
	res, err := NewCLI(WithTempDir(dir)).Encode("/images/missing.jpeg", 8, 2, 4, 8)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if res.Status != 3 || res.Buffer != nil {
		t.Fatalf("Encode: got %+v, want status 3 and no buffer", res)
	}
	if left, _ := filepath.Glob(filepath.Join(dir, "*")); len(left) != 0 {
		t.Fatalf("temp files left behind: %v", left)
	}
}

func TestCLIEncode_EmptyOutputIsFault(t *testing.T) {
	var args []string
	withHelperCommand(t, "empty", &args)

	if _, err := NewCLI(WithTempDir(t.TempDir())).Encode("/images/a.png", 8, 2, 4, 8); err == nil {
		t.Fatalf("Encode(empty output): got nil error")
	}
}

func TestCLIEncode_MissingBinaryIsFault(t *testing.T) {
	cli := NewCLI(WithBinary(filepath.Join(t.TempDir(), "no-such-astcenc")), WithTempDir(t.TempDir()))
	if _, err := cli.Encode("/images/a.png", 8, 2, 4, 8); err == nil {
		t.Fatalf("Encode(missing binary): got nil error")
	}
}

func TestCLIArgs(t *testing.T) {
	cases := []struct {
		cli      *CLI
		quality  int32
		channels int32
		want     []string
	}{
		{NewCLI(), 0, 4, []string{"-cl", "in.png", "out.astc", "6x6", "-fastest", "-j", "2"}},
		{NewCLI(WithSRGB(true)), 3, 3, []string{"-cs", "in.png", "out.astc", "6x6", "-thorough", "-j", "2", "-esw", "rgb1"}},
		{NewCLI(), 5, 2, []string{"-cl", "in.png", "out.astc", "6x6", "-exhaustive", "-j", "2", "-esw", "rrrg"}},
		{NewCLI(), 42, 1, []string{"-cl", "in.png", "out.astc", "6x6", "42", "-j", "2", "-esw", "rrr1"}},
		{NewCLI(), 256, 4, []string{"-cl", "in.png", "out.astc", "6x6", "256", "-j", "2"}},
		{NewCLI(), 258, 4, []string{"-cl", "in.png", "out.astc", "6x6", "258", "-j", "2"}},
		{NewCLI(), -1, 4, []string{"-cl", "in.png", "out.astc", "6x6", "-1", "-j", "2"}},
	}
	for i, c := range cases {
		got := c.cli.args("in.png", "out.astc", 6, c.quality, c.channels, 2)
		if fmt.Sprint(got) != fmt.Sprint(c.want) {
			t.Fatalf("case %d: got %v want %v", i, got, c.want)
		}
	}
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}

	switch os.Getenv("ASTCENC_HELPER_MODE") {
	case "success":
		payload := append([]byte{0x13, 0xAB, 0xA1, 0x5C, 8, 8, 1, 8, 0, 0, 8, 0, 0, 1, 0, 0}, make([]byte, 16)...)
		if err := os.WriteFile(os.Getenv("ASTCENC_HELPER_OUT"), payload, 0o644); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(10)
		}
		os.Exit(0)
	case "failure":
		fmt.Fprintln(os.Stderr, "ERROR: Failed to load image")
		os.Exit(3)
	case "empty":
		os.Exit(0)
	default:
		os.Exit(0)
	}
}
