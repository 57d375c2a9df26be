package progress

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	"ytmp3/internal/logging"
)

const (
	saveCursor    = "\x1b7"
	restoreCursor = "\x1b8"
	clearToEOL    = "\x1b[K"

	logStepPercent = 10
)

// Factory hands out reporters that share one output stream.
type Factory struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	logger      *slog.Logger
}

// NewFactory renders to file in place when it is a terminal and falls back
// to sampled log lines otherwise.
func NewFactory(file *os.File, logger *slog.Logger) *Factory {
	if file == nil {
		return NewWriterFactory(nil, false, logger)
	}
	fd := file.Fd()
	return NewWriterFactory(file, isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd), logger)
}

// NewWriterFactory builds a factory with explicit terminal behaviour.
func NewWriterFactory(out io.Writer, interactive bool, logger *slog.Logger) *Factory {
	if out == nil {
		out = io.Discard
	}
	return &Factory{
		out:         out,
		interactive: interactive,
		logger:      logging.NewComponentLogger(logger, "progress"),
	}
}

// Acquire starts a reporter for one operation. The caller must Close it.
func (f *Factory) Acquire(label string) *Reporter {
	label = strings.TrimSpace(label)
	r := &Reporter{factory: f, label: label, last: -1}
	if f == nil {
		return r
	}
	if f.interactive {
		f.write(label + " " + saveCursor)
	} else {
		r.samples = newSampler(logStepPercent)
		f.logger.Info("started", logging.String("operation", label))
	}
	return r
}

func (f *Factory) write(s string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, _ = io.WriteString(f.out, s)
}

// Reporter tracks one operation's completed fraction.
type Reporter struct {
	factory *Factory
	label   string
	samples *sampler

	mu     sync.Mutex
	last   float64
	closed bool
	once   sync.Once
}

// Report records fraction of work done, clamped to [0, 1]. Values that do not
// advance past the last report, and reports after Close, are ignored.
func (r *Reporter) Report(fraction float64) {
	if r == nil || math.IsNaN(fraction) {
		return
	}
	fraction = math.Max(0, math.Min(1, fraction))

	r.mu.Lock()
	if r.closed || fraction <= r.last {
		r.mu.Unlock()
		return
	}
	r.last = fraction
	logLine := r.samples != nil && r.samples.due(fraction*100)
	r.mu.Unlock()

	r.render(fraction, logLine)
}

// Close renders the completion once. It is safe to call repeatedly.
func (r *Reporter) Close() {
	if r == nil {
		return
	}
	r.once.Do(func() {
		r.mu.Lock()
		r.closed = true
		final := math.Max(0, r.last)
		r.mu.Unlock()
		r.complete(final)
	})
}

func (r *Reporter) render(fraction float64, logLine bool) {
	f := r.factory
	if f == nil {
		return
	}
	percent := fraction * 100
	if f.interactive {
		f.write(restoreCursor + clearToEOL + formatPercent(percent))
		return
	}
	if logLine {
		f.logger.Info("progress",
			logging.String("operation", r.label),
			logging.Float64(logging.FieldProgressPercent, math.Round(percent*10)/10),
		)
	}
}

func (r *Reporter) complete(final float64) {
	f := r.factory
	if f == nil {
		return
	}
	status := "done"
	if final < 1 {
		status = fmt.Sprintf("stopped at %s", formatPercent(final*100))
	}
	if f.interactive {
		f.write(restoreCursor + clearToEOL + status + "\n")
		return
	}
	f.logger.Info("finished",
		logging.String("operation", r.label),
		logging.String("status", status),
	)
}

func formatPercent(percent float64) string {
	return fmt.Sprintf("%5.1f%%", percent)
}
