package transcode

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"ytmp3/internal/fileutil"
	"ytmp3/internal/logging"
	"ytmp3/internal/media/ffprobe"
	"ytmp3/internal/progress"
	"ytmp3/internal/services"
)

// EngineConfig is the process-wide transcoding configuration.
type EngineConfig struct {
	FFmpeg          string
	FFprobe         string
	AudioCodec      string
	FallbackBitrate int64
	MaxBitrate      int64
}

// Prober reads the audio properties of a media file.
type Prober interface {
	Probe(ctx context.Context, path string) (ffprobe.Audio, error)
}

type ffprobeProber struct {
	binary string
}

func (p ffprobeProber) Probe(ctx context.Context, path string) (ffprobe.Audio, error) {
	result, err := ffprobe.Inspect(ctx, p.binary, path)
	if err != nil {
		return ffprobe.Audio{}, err
	}
	audio, ok := result.AudioStream()
	if !ok {
		return ffprobe.Audio{}, fmt.Errorf("%s: no audio stream", path)
	}
	return audio, nil
}

// Option configures an Engine.
type Option func(*Engine)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(e *Engine) {
		if exec != nil {
			e.exec = exec
		}
	}
}

// WithProber injects a custom prober (primarily for tests).
func WithProber(p Prober) Option {
	return func(e *Engine) {
		if p != nil {
			e.probe = p
		}
	}
}

// WithProgress sets the factory that renders job progress.
func WithProgress(f *progress.Factory) Option {
	return func(e *Engine) {
		e.progress = f
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Engine runs transcoding jobs against one fixed configuration.
type Engine struct {
	cfg      EngineConfig
	exec     Executor
	probe    Prober
	progress *progress.Factory
	logger   *slog.Logger
}

// NewEngine constructs an engine. Blank binaries resolve from PATH.
func NewEngine(cfg EngineConfig, opts ...Option) *Engine {
	if strings.TrimSpace(cfg.FFmpeg) == "" {
		cfg.FFmpeg = "ffmpeg"
	}
	if strings.TrimSpace(cfg.FFprobe) == "" {
		cfg.FFprobe = "ffprobe"
	}
	if strings.TrimSpace(cfg.AudioCodec) == "" {
		cfg.AudioCodec = "libmp3lame"
	}
	e := &Engine{
		cfg:    cfg,
		exec:   commandExecutor{},
		probe:  ffprobeProber{binary: cfg.FFprobe},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "transcode")
	return e
}

// submit runs job and verifies its output. When ffmpeg exits cleanly but
// the output is missing or empty, the output path is returned together with
// an ErrConversionIncomplete error.
func (e *Engine) submit(ctx context.Context, job Job) (string, error) {
	logger := logging.WithContext(ctx, e.logger)
	reporter := e.progress.Acquire(job.Label)
	defer reporter.Close()

	inputs := float64(max(len(job.Inputs), 1))
	args := job.Args()
	logger.Debug("ffmpeg command", logging.String("args", strings.Join(args, " ")))

	stderr, err := e.exec.Run(ctx, e.cfg.FFmpeg, args, func(line string) {
		if percent, ok := parseProgressLine(line, job); ok {
			reporter.Report(percent / (100 * inputs))
		}
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", ctxErr
		}
		message := job.Label
		if stderr != "" {
			message = job.Label + ": " + stderr
		}
		return "", services.Wrap(services.ErrExternalTool, "transcode", "ffmpeg", message, err)
	}

	if !fileutil.HasContent(job.Output) {
		logging.WarnWithContext(logger, "conversion produced no output", "conversion_incomplete",
			logging.String("output", job.Output),
			logging.String(logging.FieldErrorHint, "rerun with --log-level debug to see the ffmpeg command"),
			logging.String(logging.FieldImpact, "output file is missing or empty"),
		)
		return job.Output, services.Wrap(services.ErrConversionIncomplete, "transcode", job.Label,
			job.Output+" is missing or empty", nil)
	}
	return job.Output, nil
}

// bitrateFor clamps a probed bitrate to the configured ceiling, using the
// fallback when the probe found none.
func (e *Engine) bitrateFor(probed int64) int64 {
	switch {
	case probed <= 0:
		return e.cfg.FallbackBitrate
	case e.cfg.MaxBitrate > 0 && probed > e.cfg.MaxBitrate:
		return e.cfg.MaxBitrate
	default:
		return probed
	}
}

func (e *Engine) encodeParams(bitrate int64) []string {
	return []string{"-c:a", e.cfg.AudioCodec, "-b:a", fmt.Sprintf("%d", bitrate)}
}

func isCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
