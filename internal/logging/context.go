package logging

import (
	"context"
	"log/slog"

	"ytmp3/internal/services"
)

// Standard attribute keys.
const (
	FieldComponent = "component"
	FieldRunID     = "run_id"
	FieldVideoID   = "video_id"
	FieldStage     = "stage"
	// FieldEventType classifies a warning or error for filtering, e.g.
	// "conversion_incomplete".
	FieldEventType = "event_type"
	// FieldErrorHint suggests the next step to the user.
	FieldErrorHint = "error_hint"
	// FieldImpact states what the problem costs the user.
	FieldImpact          = "impact"
	FieldProgressPercent = "progress_percent"
)

// ContextFields returns the run, video and stage attributes carried by ctx.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	var fields []slog.Attr
	for _, f := range []struct {
		key    string
		lookup func(context.Context) (string, bool)
	}{
		{FieldRunID, services.RunIDFromContext},
		{FieldVideoID, services.VideoIDFromContext},
		{FieldStage, services.StageFromContext},
	} {
		if v, ok := f.lookup(ctx); ok {
			fields = append(fields, slog.String(f.key, v))
		}
	}
	return fields
}

// WithContext binds the ContextFields of ctx to logger. A nil logger
// discards.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return slog.New(logger.Handler().WithAttrs(fields))
}
