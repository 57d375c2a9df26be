package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateFFmpeg(); err != nil {
		return err
	}
	if err := c.validateYouTube(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TempDir) == "" {
		return errors.New("paths.temp_dir must be set")
	}
	if filepath.Clean(c.Paths.OutputDir) == filepath.Clean(c.Paths.TempDir) {
		return errors.New("paths.output_dir and paths.temp_dir must differ")
	}
	return nil
}

func (c *Config) validateFFmpeg() error {
	if strings.ContainsAny(c.FFmpeg.AudioCodec, " \t") {
		return fmt.Errorf("ffmpeg.audio_codec: invalid codec name %q", c.FFmpeg.AudioCodec)
	}
	if c.FFmpeg.MaxBitrate < minimumBitrate {
		return fmt.Errorf("ffmpeg.max_bitrate must be at least %d", minimumBitrate)
	}
	if c.FFmpeg.FallbackBitrate < minimumBitrate {
		return fmt.Errorf("ffmpeg.fallback_bitrate must be at least %d", minimumBitrate)
	}
	if c.FFmpeg.FallbackBitrate > c.FFmpeg.MaxBitrate {
		return errors.New("ffmpeg.fallback_bitrate must not exceed ffmpeg.max_bitrate")
	}
	return nil
}

func (c *Config) validateYouTube() error {
	if c.YouTube.RequestTimeout > maximumRequestTimeout {
		return fmt.Errorf("youtube.request_timeout must be at most %d seconds", maximumRequestTimeout)
	}
	return nil
}

func (c *Config) validatePipeline() error {
	if c.Pipeline.StaleTempHours > maximumStaleTempHours {
		return fmt.Errorf("pipeline.stale_temp_hours must be at most %d", maximumStaleTempHours)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
