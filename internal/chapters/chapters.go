package chapters

import (
	"context"
	"errors"
	"log/slog"

	"ytmp3/internal/catalog"
	"ytmp3/internal/logging"
	"ytmp3/internal/services"
)

// Chapter is a named sub-range of a video starting at StartMillis.
type Chapter struct {
	Title       string
	StartMillis uint64
}

// Bound is a chapter with its derived end. The last chapter is Unbounded.
type Bound struct {
	Chapter
	EndMillis uint64
	Unbounded bool
}

// Bounds pairs each chapter with the start of the next one.
func Bounds(chapters []Chapter) []Bound {
	out := make([]Bound, len(chapters))
	for i, c := range chapters {
		out[i] = Bound{Chapter: c}
		if i+1 < len(chapters) {
			out[i].EndMillis = chapters[i+1].StartMillis
		} else {
			out[i].Unbounded = true
		}
	}
	return out
}

// Strategy is one way of finding chapters for a video.
type Strategy interface {
	Name() string
	Find(ctx context.Context, ref catalog.VideoRef) ([]Chapter, error)
}

// errNoChapters marks a strategy that ran cleanly but found nothing usable.
var errNoChapters = errors.New("no chapters found")

// Engine runs strategies in order until one yields chapters.
type Engine struct {
	strategies []Strategy
	logger     *slog.Logger
}

// NewEngine builds the default strategy chain: the watch page first, then
// the description text.
func NewEngine(cat catalog.Catalog, logger *slog.Logger) *Engine {
	return NewEngineWithStrategies(logger, PageStrategy{Catalog: cat}, DescriptionStrategy{Catalog: cat})
}

// NewEngineWithStrategies builds an engine over an explicit chain.
func NewEngineWithStrategies(logger *slog.Logger, strategies ...Strategy) *Engine {
	return &Engine{
		strategies: strategies,
		logger:     logging.NewComponentLogger(logger, "chapters"),
	}
}

// Discover returns the first non-empty chapter list, or nil when every
// strategy fails.
func (e *Engine) Discover(ctx context.Context, ref catalog.VideoRef) []Chapter {
	ctx = services.WithVideoID(services.WithStage(ctx, "chapters"), ref.ID)
	logger := logging.WithContext(ctx, e.logger)
	for _, s := range e.strategies {
		if ctx.Err() != nil {
			return nil
		}
		found, err := s.Find(ctx, ref)
		if err == nil && len(found) == 0 {
			err = errNoChapters
		}
		if err != nil {
			wrapped := services.Wrap(services.ErrChapterDiscovery, "chapters", s.Name(), ref.ID, err)
			logger.Debug("chapter strategy failed",
				logging.String("strategy", s.Name()),
				logging.Error(wrapped),
			)
			continue
		}
		logger.Info("chapters discovered",
			logging.String("strategy", s.Name()),
			logging.Int("count", len(found)),
		)
		return found
	}
	logger.Info("no chapters discovered")
	return nil
}
