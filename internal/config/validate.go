package config

import (
	"errors"
	"fmt"

	"github.com/arm-software/astcenc-bridge/astc"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePool(); err != nil {
		return err
	}
	if err := c.validateEncode(); err != nil {
		return err
	}
	if err := c.validateBinding(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePool() error {
	if c.Pool.Workers <= 0 {
		return errors.New("pool.workers must be positive")
	}
	if c.Pool.Queue < 0 {
		return errors.New("pool.queue must not be negative")
	}
	return nil
}

func (c *Config) validateEncode() error {
	if astc.Square(c.Encode.BlockSize).Format() == astc.FormatUndefined {
		return fmt.Errorf("encode.block_size %d is not a square ASTC footprint (4, 5, 6, 8, 10 or 12)", c.Encode.BlockSize)
	}
	if _, err := astc.ParseQuality(c.Encode.Quality); err != nil {
		return fmt.Errorf("encode.quality: %w", err)
	}
	if c.Encode.Channels < 1 || c.Encode.Channels > 4 {
		return fmt.Errorf("encode.channels must be between 1 and 4, got %d", c.Encode.Channels)
	}
	if c.Encode.Threads <= 0 {
		return errors.New("encode.threads must be positive")
	}
	return nil
}

func (c *Config) validateBinding() error {
	switch c.Binding.Kind {
	case BindingAuto, BindingNative, BindingExec:
		return nil
	default:
		return fmt.Errorf("binding.kind must be one of auto, native, exec; got %q", c.Binding.Kind)
	}
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json; got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error; got %q", c.Logging.Level)
	}
	return nil
}
