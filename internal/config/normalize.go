package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeEncode()
	if err := c.normalizeBinding(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeEncode() {
	c.Encode.Quality = strings.ToLower(strings.TrimSpace(c.Encode.Quality))
	if c.Encode.Quality == "" {
		c.Encode.Quality = defaultQuality
	}
}

func (c *Config) normalizeBinding() error {
	c.Binding.Kind = strings.ToLower(strings.TrimSpace(c.Binding.Kind))
	if c.Binding.Kind == "" {
		c.Binding.Kind = defaultBindingKind
	}
	c.Binding.AstcencBinary = strings.TrimSpace(c.Binding.AstcencBinary)
	if c.Binding.AstcencBinary == "" || c.Binding.AstcencBinary == defaultAstcencBinary {
		if value, ok := os.LookupEnv("ASTCENC_BINARY"); ok && strings.TrimSpace(value) != "" {
			c.Binding.AstcencBinary = strings.TrimSpace(value)
		}
	}
	if c.Binding.AstcencBinary == "" {
		c.Binding.AstcencBinary = defaultAstcencBinary
	}
	var err error
	if c.Binding.TempDir, err = expandPath(strings.TrimSpace(c.Binding.TempDir)); err != nil {
		return fmt.Errorf("binding.temp_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	if strings.TrimSpace(c.Output.Dir) == "" {
		c.Output.Dir = defaultOutputDir
	}
	var err error
	if c.Output.Dir, err = expandPath(c.Output.Dir); err != nil {
		return fmt.Errorf("output.dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch format {
	case "", "console", "text":
		c.Logging.Format = "console"
	case "json":
		c.Logging.Format = "json"
	default:
		c.Logging.Format = format
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
