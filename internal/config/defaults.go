package config

const (
	defaultDataDir        = "~/.local/share/morpher"
	defaultLogDir         = "~/.local/share/morpher/logs"
	defaultDuration       = 10.0
	defaultTickIntervalMS = 100
	defaultSpeed          = 1.0
	defaultGeneratorCount = 5
	defaultFramesFPS      = 12.0
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Timeline: Timeline{
			Duration:       defaultDuration,
			TickIntervalMS: defaultTickIntervalMS,
			Speed:          defaultSpeed,
			Loop:           false,
		},
		Generator: Generator{
			Count: defaultGeneratorCount,
		},
		Frames: Frames{
			FPS: defaultFramesFPS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
