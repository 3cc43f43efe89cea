package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/arm-software/astcenc-bridge/astc"
	"github.com/arm-software/astcenc-bridge/astc/bridge"
)

//go:embed sample_config.toml
var sampleConfig string

// Pool sizes the shared worker pool.
type Pool struct {
	Workers int `toml:"workers"`
	Queue   int `toml:"queue"`
}

// Encode holds the parameters passed to the encoder for every request.
type Encode struct {
	BlockSize int    `toml:"block_size"`
	Quality   string `toml:"quality"`
	Channels  int    `toml:"channels"`
	Threads   int    `toml:"threads"`
}

// Binding selects how the encoder is reached.
type Binding struct {
	// Kind is "native" (linked library), "exec" (astcenc tool) or "auto".
	Kind          string `toml:"kind"`
	AstcencBinary string `toml:"astcenc_binary"`
	TempDir       string `toml:"temp_dir"`
	SRGB          bool   `toml:"srgb"`
}

// Output controls where assembled textures are written.
type Output struct {
	Dir string `toml:"dir"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for astcbridge.
type Config struct {
	Pool    Pool    `toml:"pool"`
	Encode  Encode  `toml:"encode"`
	Binding Binding `toml:"binding"`
	Output  Output  `toml:"output"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/astcbridge/config.toml")
}

// Load locates, parses, and validates a configuration file. A missing file is
// not an error; defaults are used and exists is false.
func Load(path string) (cfg *Config, resolved string, exists bool, err error) {
	c := Default()

	resolved, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolved)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&c); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
	}

	if err := c.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := c.Validate(); err != nil {
		return nil, "", false, err
	}
	return &c, resolved, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("astcbridge.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Quality returns the configured encode quality. It is valid after Load.
func (c *Config) Quality() astc.EncodeQuality {
	q, err := astc.ParseQuality(c.Encode.Quality)
	if err != nil {
		return astc.EncodeMedium
	}
	return q
}

// Request returns an encode request for src with the configured parameters.
func (c *Config) Request(src string) bridge.Request {
	return bridge.Request{
		Source:      src,
		BlockSize:   int32(c.Encode.BlockSize),
		Quality:     int32(c.Quality()),
		Channels:    int32(c.Encode.Channels),
		ThreadCount: int32(c.Encode.Threads),
	}
}

// EnsureDirectories creates the output directory.
func (c *Config) EnsureDirectories() error {
	if err := os.MkdirAll(c.Output.Dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", c.Output.Dir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
