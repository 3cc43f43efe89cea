package main

import (
	"fmt"

	"github.com/arm-software/astcenc-bridge/astc/native"
	"github.com/arm-software/astcenc-bridge/internal/config"
)

// newBinding selects the encoder binding named by the configuration. Tests
// replace it.
var newBinding = selectBinding

func selectBinding(cfg *config.Config) (native.Binding, string, error) {
	switch cfg.Binding.Kind {
	case config.BindingNative:
		lib, err := native.NewLibrary()
		if err != nil {
			return nil, "", err
		}
		return lib, config.BindingNative, nil
	case config.BindingExec:
		return newCLIBinding(cfg), config.BindingExec, nil
	case config.BindingAuto:
		if native.Enabled() {
			lib, err := native.NewLibrary()
			if err == nil {
				return lib, config.BindingNative, nil
			}
		}
		return newCLIBinding(cfg), config.BindingExec, nil
	default:
		return nil, "", fmt.Errorf("unknown binding kind %q", cfg.Binding.Kind)
	}
}

func newCLIBinding(cfg *config.Config) *native.CLI {
	return native.NewCLI(
		native.WithBinary(cfg.Binding.AstcencBinary),
		native.WithTempDir(cfg.Binding.TempDir),
		native.WithSRGB(cfg.Binding.SRGB),
	)
}
