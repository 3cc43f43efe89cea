package native

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/arm-software/astcenc-bridge/astc"
)

var execCommand = exec.Command

// CLIOption configures the CLI binding.
type CLIOption func(*CLI)

// WithBinary overrides the astcenc executable name.
func WithBinary(binary string) CLIOption {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithTempDir sets where intermediate .astc files are written.
func WithTempDir(dir string) CLIOption {
	return func(c *CLI) {
		c.tempDir = dir
	}
}

// WithSRGB selects the sRGB LDR profile instead of linear LDR.
func WithSRGB(srgb bool) CLIOption {
	return func(c *CLI) {
		c.srgb = srgb
	}
}

// CLI encodes by running the upstream astcenc command-line tool.
//
// The process exit code is reported as Result.Status. A tool that cannot be
// started, or that exits cleanly without producing usable output, is a fault.
// The returned buffer owns a temporary file that Release removes.
type CLI struct {
	binary  string
	tempDir string
	srgb    bool
}

func NewCLI(opts ...CLIOption) *CLI {
	c := &CLI{binary: "astcenc"}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CLI) Encode(src string, blockSize, quality, channels, threadCount int32) (Result, error) {
	out, err := os.CreateTemp(c.tempDir, "astcenc-*.astc")
	if err != nil {
		return Result{}, fmt.Errorf("astc/native: create temp output: %w", err)
	}
	outPath := out.Name()
	_ = out.Close()

	cmd := execCommand(c.binary, c.args(src, outPath, blockSize, quality, channels, threadCount)...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		_ = os.Remove(outPath)
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
			return Result{Status: int32(exitErr.ExitCode())}, nil
		}
		return Result{}, fmt.Errorf("astc/native: run %s: %w%s", c.binary, err, stderrSuffix(&stderr))
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		_ = os.Remove(outPath)
		return Result{}, fmt.Errorf("astc/native: read encoder output: %w", err)
	}
	if len(data) == 0 {
		_ = os.Remove(outPath)
		return Result{}, fmt.Errorf("astc/native: %s produced no output", c.binary)
	}

	buf := NewBuffer(data, func() { _ = os.Remove(outPath) })
	return Result{Status: 0, Length: int32(len(data)), Buffer: buf}, nil
}

func (c *CLI) args(src, outPath string, blockSize, quality, channels, threadCount int32) []string {
	mode := "-cl"
	if c.srgb {
		mode = "-cs"
	}
	args := []string{
		mode,
		src,
		outPath,
		astc.Square(int(blockSize)).String(),
		qualityFlag(quality),
		"-j", strconv.Itoa(int(threadCount)),
	}
	if swz := channelSwizzle(channels); swz != "" {
		args = append(args, "-esw", swz)
	}
	return args
}

// qualityFlag passes unknown levels through as a numeric quality so that the
// tool, not the binding, rejects them.
func qualityFlag(quality int32) string {
	if quality < int32(astc.EncodeFastest) || quality > int32(astc.EncodeExhaustive) {
		return strconv.Itoa(int(quality))
	}
	return "-" + astc.EncodeQuality(quality).String()
}

func channelSwizzle(channels int32) string {
	switch channels {
	case 1:
		return "rrr1"
	case 2:
		return "rrrg"
	case 3:
		return "rgb1"
	default:
		return ""
	}
}

func stderrSuffix(stderr *bytes.Buffer) string {
	msg := strings.TrimSpace(stderr.String())
	if msg == "" {
		return ""
	}
	return ": " + msg
}
