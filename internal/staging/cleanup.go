package staging

import (
	"context"
	"log/slog"
	"os"
	"time"

	"ytmp3/internal/logging"
)

// CleanResult lists what a cleanup pass removed and what it could not.
type CleanResult struct {
	Removed  []string
	Failures []CleanupFailure
}

// CleanupFailure pairs a directory with the error that kept it on disk.
type CleanupFailure struct {
	Path string
	Err  error
}

// CleanStale removes scratch directories last modified more than maxAge ago.
// They are left behind only when a run is killed before its deferred cleanup
// executes. A zero maxAge removes every scratch directory. Cancellation stops
// the pass between directories.
func CleanStale(ctx context.Context, tempRoot string, maxAge time.Duration, logger *slog.Logger) CleanResult {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "staging")

	var result CleanResult
	dirs, err := ListDirectories(tempRoot)
	if err != nil {
		result.Failures = append(result.Failures, CleanupFailure{Path: tempRoot, Err: err})
		return result
	}

	now := time.Now()
	for _, dir := range dirs {
		if ctx.Err() != nil {
			break
		}
		age := dir.Age(now)
		if maxAge > 0 && age <= maxAge {
			continue
		}
		if err := os.RemoveAll(dir.Path); err != nil {
			result.Failures = append(result.Failures, CleanupFailure{Path: dir.Path, Err: err})
			logging.WarnWithContext(logger, "failed to remove stale scratch directory", "scratch_cleanup_failed",
				logging.String("path", dir.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check temp_dir permissions"),
				logging.String(logging.FieldImpact, "disk space not reclaimed"),
			)
			continue
		}
		result.Removed = append(result.Removed, dir.Path)
		logger.Info("removed scratch directory",
			logging.String("path", dir.Path),
			logging.Duration("age", age.Truncate(time.Second)),
			logging.String("size", logging.FormatBytes(dir.Size)),
			logging.String(logging.FieldEventType, "scratch_cleanup"),
		)
	}
	return result
}
