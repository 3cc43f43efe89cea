package config

import "github.com/arm-software/astcenc-bridge/astc/bridge"

const (
	defaultPoolWorkers   = 4
	defaultPoolQueue     = 64
	defaultBlockSize     = bridge.DefaultBlockSize
	defaultQuality       = "medium"
	defaultChannels      = bridge.DefaultChannels
	defaultThreads       = bridge.DefaultThreadCount
	defaultBindingKind   = BindingAuto
	defaultAstcencBinary = "astcenc"
	defaultOutputDir     = "."
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
)

// Binding kinds.
const (
	BindingAuto   = "auto"
	BindingNative = "native"
	BindingExec   = "exec"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Pool: Pool{
			Workers: defaultPoolWorkers,
			Queue:   defaultPoolQueue,
		},
		Encode: Encode{
			BlockSize: defaultBlockSize,
			Quality:   defaultQuality,
			Channels:  defaultChannels,
			Threads:   defaultThreads,
		},
		Binding: Binding{
			Kind:          defaultBindingKind,
			AstcencBinary: defaultAstcencBinary,
		},
		Output: Output{
			Dir: defaultOutputDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
