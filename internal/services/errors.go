package services

import (
	"errors"
	"fmt"
	"strings"
)

// Markers classify failures. Match them with errors.Is; Wrap attaches one to
// every error a stage returns.
var (
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrExternalTool  = errors.New("external tool error")
	ErrTransient     = errors.New("transient failure")

	// ErrManifestUnavailable: the video's stream manifest could not be
	// obtained (private, removed, age-gated, region-blocked).
	ErrManifestUnavailable = errors.New("stream manifest unavailable")
	ErrNoAudioStream       = errors.New("no audio-only stream")
	// ErrDownloadFailed covers transport and disk failures while copying
	// stream bytes.
	ErrDownloadFailed = errors.New("download failed")
	// ErrConversionIncomplete: ffmpeg exited cleanly but its output is
	// missing or empty. The output path travels with the error.
	ErrConversionIncomplete = errors.New("conversion incomplete")
	// ErrChapterDiscovery is logged per strategy and never returned to callers.
	ErrChapterDiscovery = errors.New("chapter discovery failed")
	ErrEmptyInputSet    = errors.New("empty input set")
)

// Wrap returns "<marker>: stage: operation: message[: cause]". Blank parts are
// skipped and a nil marker means ErrTransient. Both marker and cause remain
// reachable through errors.Is.
func Wrap(marker error, stage, operation, message string, cause error) error {
	if marker == nil {
		marker = ErrTransient
	}
	var parts []string
	for _, p := range []string{stage, operation, message} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	detail := strings.Join(parts, ": ")
	if detail == "" {
		detail = "service failure"
	}
	if cause == nil {
		return fmt.Errorf("%w: %s", marker, detail)
	}
	return fmt.Errorf("%w: %s: %w", marker, detail, cause)
}

// IsFatal reports whether err should stop the current unit of work.
// Incomplete conversions are warnings; the caller keeps the output path.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, ErrConversionIncomplete)
}

// ExitCode maps a run error to a process exit status: 0 on success, 2 when
// the invocation itself is wrong, 1 for everything else.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrValidation), errors.Is(err, ErrConfiguration), errors.Is(err, ErrEmptyInputSet):
		return 2
	default:
		return 1
	}
}
