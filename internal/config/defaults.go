package config

import "os"

const (
	defaultConfigPath      = "~/.config/ytmp3/config.toml"
	projectConfigName      = "ytmp3.toml"
	defaultOutputDir       = "output"
	defaultAudioCodec      = "libmp3lame"
	defaultFallbackBitrate = 192_000
	defaultMaxBitrate      = 320_000
	defaultRequestTimeout  = 30
	defaultStaleTempHours  = 24
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	minimumBitrate         = 32_000
	maximumRequestTimeout  = 600
	maximumStaleTempHours  = 24 * 30
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			TempDir:   os.TempDir(),
		},
		FFmpeg: FFmpeg{
			AudioCodec:      defaultAudioCodec,
			FallbackBitrate: defaultFallbackBitrate,
			MaxBitrate:      defaultMaxBitrate,
		},
		YouTube: YouTube{
			RequestTimeout:   defaultRequestTimeout,
			PlaylistFallback: true,
		},
		Pipeline: Pipeline{
			StaleTempHours: defaultStaleTempHours,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
