package services

import "context"

type contextKey int

const (
	runIDKey contextKey = iota
	videoIDKey
	stageKey
)

func with(ctx context.Context, key contextKey, value string) context.Context {
	if value == "" {
		return ctx
	}
	return context.WithValue(ctx, key, value)
}

func lookup(ctx context.Context, key contextKey) (string, bool) {
	value, ok := ctx.Value(key).(string)
	return value, ok && value != ""
}

// WithRunID tags ctx with the run correlation identifier. Blank ids are ignored.
func WithRunID(ctx context.Context, id string) context.Context { return with(ctx, runIDKey, id) }

// RunIDFromContext returns the run correlation identifier, if any.
func RunIDFromContext(ctx context.Context) (string, bool) { return lookup(ctx, runIDKey) }

// WithVideoID tags ctx with the video being processed.
func WithVideoID(ctx context.Context, id string) context.Context { return with(ctx, videoIDKey, id) }

// VideoIDFromContext returns the video identifier, if any.
func VideoIDFromContext(ctx context.Context) (string, bool) { return lookup(ctx, videoIDKey) }

// WithStage tags ctx with the pipeline stage (download, transcode, ...).
func WithStage(ctx context.Context, stage string) context.Context { return with(ctx, stageKey, stage) }

// StageFromContext returns the stage name, if any.
func StageFromContext(ctx context.Context) (string, bool) { return lookup(ctx, stageKey) }
