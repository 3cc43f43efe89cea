package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arm-software/astcenc-bridge/astc"
	"github.com/arm-software/astcenc-bridge/astc/native"
	"github.com/arm-software/astcenc-bridge/astc/native/nativetest"
	"github.com/arm-software/astcenc-bridge/internal/config"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--config", filepath.Join(t.TempDir(), "absent.toml")}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func useStub(t *testing.T, def nativetest.Script) *nativetest.Stub {
	t.Helper()
	stub := nativetest.NewStub(def)
	prev := newBinding
	newBinding = func(*config.Config) (native.Binding, string, error) {
		return stub, "stub", nil
	}
	t.Cleanup(func() { newBinding = prev })
	return stub
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 0x80, 0xFF})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func TestEncodeWritesAstcFiles(t *testing.T) {
	src := t.TempDir()
	out := t.TempDir()
	palm := filepath.Join(src, "palm.png")
	icon := filepath.Join(src, "icon.png")
	writePNG(t, palm, 64, 64)
	writePNG(t, icon, 16, 16)

	stub := useStub(t, nativetest.Script{Status: int32(astc.ErrBadParam)})
	stub.Set(palm, nativetest.Script{Length: 64 * astc.BlockBytes, Fill: 0xAA})
	stub.Set(icon, nativetest.Script{Length: 4 * astc.BlockBytes, Fill: 0xBB})

	stdout, stderr, err := runCLI(t, "encode", "-o", out, palm, icon)
	if err != nil {
		t.Fatalf("encode: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, stdout, "2/2 encoded")
	requireContains(t, stdout, "1,040")

	for _, tc := range []struct {
		name   string
		width  uint32
		blocks int
		fill   byte
	}{
		{"palm.astc", 64, 64, 0xAA},
		{"icon.astc", 16, 4, 0xBB},
	} {
		data, err := os.ReadFile(filepath.Join(out, tc.name))
		if err != nil {
			t.Fatalf("read %s: %v", tc.name, err)
		}
		h, blocks, err := astc.ParseFile(data)
		if err != nil {
			t.Fatalf("parse %s: %v", tc.name, err)
		}
		if h.SizeX != tc.width || h.Footprint() != astc.Square(8) {
			t.Fatalf("%s header=%v", tc.name, h)
		}
		if len(blocks) != tc.blocks*astc.BlockBytes || blocks[0] != tc.fill {
			t.Fatalf("%s payload len=%d", tc.name, len(blocks))
		}
	}
	if err := stub.CheckBalanced(); err != nil {
		t.Fatal(err)
	}
	for _, c := range stub.Calls() {
		if c.BlockSize != 8 || c.Quality != int32(astc.EncodeMedium) || c.Channels != 4 || c.ThreadCount != 8 {
			t.Fatalf("unexpected encode parameters %+v", c)
		}
	}
}

func TestEncodeReportsFailures(t *testing.T) {
	src := t.TempDir()
	bad := filepath.Join(src, "bad.png")
	writePNG(t, bad, 32, 32)
	missing := filepath.Join(src, "missing.png")

	stub := useStub(t, nativetest.Script{Status: int32(astc.ErrBadBlockSize)})

	stdout, _, err := runCLI(t, "encode", "-o", t.TempDir(), "--block", "4", "--quality", "fast", bad, missing)
	if !errors.Is(err, errRequestsFailed) {
		t.Fatalf("err=%v want errRequestsFailed", err)
	}
	requireContains(t, stdout, "0/2 encoded")
	requireContains(t, stdout, "encoder_error")
	requireContains(t, stdout, "ASTCENC_ERR_BAD_BLOCK_SIZE")
	if n := stub.CallCount(missing); n != 0 {
		t.Fatalf("unreadable image was submitted %d times", n)
	}
	calls := stub.Calls()
	if len(calls) != 1 || calls[0].BlockSize != 4 || calls[0].Quality != int32(astc.EncodeFast) {
		t.Fatalf("calls=%+v", calls)
	}
}

func TestEncodeRejectsInvalidFlags(t *testing.T) {
	useStub(t, nativetest.Script{})
	img := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, img, 8, 8)

	if _, _, err := runCLI(t, "encode", "--block", "7", img); err == nil || !strings.Contains(err.Error(), "encode.block_size") {
		t.Fatalf("err=%v want block size error", err)
	}
}

func TestInfoPrintsHeader(t *testing.T) {
	h, err := astc.NewHeader(astc.Square(6), 30, 12)
	if err != nil {
		t.Fatal(err)
	}
	hdr, err := astc.MarshalHeader(h)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "tex.astc")
	if err := os.WriteFile(path, append(hdr[:], make([]byte, 10*astc.BlockBytes)...), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, _, err := runCLI(t, "info", path)
	if err != nil {
		t.Fatalf("info: %v", err)
	}
	requireContains(t, stdout, "30x12x1")
	requireContains(t, stdout, "ASTC_6x6")

	if _, _, err := runCLI(t, "info", filepath.Join(t.TempDir(), "nope.astc")); !errors.Is(err, errRequestsFailed) {
		t.Fatalf("err=%v want errRequestsFailed", err)
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cfg", "astcbridge.toml")

	out, _, err := runCLI(t, "config", "init", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, "config", "init", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, "config", "init", "--overwrite", target); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, "medium")
}

func TestBenchReportsThroughput(t *testing.T) {
	img := filepath.Join(t.TempDir(), "bench.png")
	writePNG(t, img, 32, 32)
	// 32x32 in 8x8 blocks: 16 blocks.
	stub := useStub(t, nativetest.Script{Length: 16 * astc.BlockBytes, Fill: 0x01})

	stdout, stderr, err := runCLI(t, "bench", "--iters", "7", "--window", "3", img)
	if err != nil {
		t.Fatalf("bench: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, stdout, "RESULT binding=stub")
	requireContains(t, stdout, "iters=7 ok=7 failed=0")
	if n := stub.CallCount(img); n != 7 {
		t.Fatalf("encodes=%d want 7", n)
	}
	if err := stub.CheckBalanced(); err != nil {
		t.Fatal(err)
	}
}

func TestOutputPathDeduplicates(t *testing.T) {
	used := make(map[string]bool)
	got := []string{
		outputPath("/out", "/a/tree.png", used),
		outputPath("/out", "/b/tree.jpg", used),
		outputPath("/out", "/c/rock.webp", used),
		outputPath("/out", "/d/tree-1.png", used),
		outputPath("/out", "/e/tree.bmp", used),
	}
	want := []string{"/out/tree.astc", "/out/tree-1.astc", "/out/rock.astc", "/out/tree-1-1.astc", "/out/tree-2.astc"}
	for i := range want {
		if got[i] != filepath.FromSlash(want[i]) {
			t.Fatalf("outputPath[%d]=%q want %q", i, got[i], want[i])
		}
	}
}

func TestSelectBinding(t *testing.T) {
	cfg := config.Default()
	cfg.Binding.Kind = config.BindingExec
	b, name, err := selectBinding(&cfg)
	if err != nil || name != config.BindingExec {
		t.Fatalf("exec: name=%q err=%v", name, err)
	}
	if _, ok := b.(*native.CLI); !ok {
		t.Fatalf("exec binding is %T", b)
	}

	cfg.Binding.Kind = config.BindingAuto
	if _, name, err := selectBinding(&cfg); err != nil || (name != config.BindingNative && name != config.BindingExec) {
		t.Fatalf("auto: name=%q err=%v", name, err)
	}

	cfg.Binding.Kind = config.BindingNative
	_, _, err = selectBinding(&cfg)
	if native.Enabled() != (err == nil) {
		t.Fatalf("native: enabled=%v err=%v", native.Enabled(), err)
	}
}
