package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"ytmp3/internal/catalog"
	"ytmp3/internal/fileutil"
	"ytmp3/internal/logging"
	"ytmp3/internal/preflight"
	"ytmp3/internal/progress"
	"ytmp3/internal/services"
	"ytmp3/internal/staging"
	"ytmp3/internal/textutil"
)

const copyBufferSize = 256 << 10

// ScratchFile is a downloaded stream inside its private directory. The
// caller owns both and must call Remove when finished.
type ScratchFile struct {
	Path  string
	Dir   string
	Video catalog.Video
}

// Remove deletes the scratch directory and everything in it.
func (s ScratchFile) Remove() error {
	if s.Dir == "" {
		return nil
	}
	return fileutil.RemoveAllQuiet(s.Dir)
}

// Downloader fetches audio streams from a catalog into scratch space.
type Downloader struct {
	catalog  catalog.Catalog
	tempRoot string
	progress *progress.Factory
	logger   *slog.Logger
}

// New constructs a Downloader writing scratch directories under tempRoot.
func New(cat catalog.Catalog, tempRoot string, reporters *progress.Factory, logger *slog.Logger) *Downloader {
	return &Downloader{
		catalog:  cat,
		tempRoot: tempRoot,
		progress: reporters,
		logger:   logging.NewComponentLogger(logger, "download"),
	}
}

// DownloadAudio resolves ref, selects its best audio-only stream, and copies
// it to <scratch>/<sanitized title>.<container>.
func (d *Downloader) DownloadAudio(ctx context.Context, ref catalog.VideoRef) (ScratchFile, error) {
	ctx = services.WithVideoID(services.WithStage(ctx, "download"), ref.ID)
	logger := logging.WithContext(ctx, d.logger)

	video, err := d.catalog.Video(ctx, ref)
	if err != nil {
		return ScratchFile{}, fmt.Errorf("%s: %w", ref.ID, err)
	}
	manifest, err := d.catalog.Manifest(ctx, ref)
	if err != nil {
		return ScratchFile{}, fmt.Errorf("%s: %w", ref.ID, err)
	}
	if manifest == nil {
		return ScratchFile{}, services.Wrap(services.ErrManifestUnavailable, "download", "resolve manifest",
			fmt.Sprintf("no manifest for %s", ref.ID), nil)
	}
	stream, err := SelectBest(manifest.Streams)
	if err != nil {
		return ScratchFile{}, fmt.Errorf("%s: %w", ref.ID, err)
	}
	logger.Debug("selected audio stream",
		logging.Int("itag", stream.Itag),
		logging.Int("bitrate", stream.Bitrate),
		logging.String("container", stream.Container),
	)

	dir, err := staging.NewScratch(d.tempRoot)
	if err != nil {
		return ScratchFile{}, services.Wrap(services.ErrDownloadFailed, "download", "create scratch", "", err)
	}
	path, err := d.fetch(ctx, ref, video, stream, dir)
	if err != nil {
		if rmErr := fileutil.RemoveAllQuiet(dir); rmErr != nil {
			logging.WarnWithContext(logger, "scratch cleanup failed", "scratch_cleanup_failed",
				logging.String("path", dir),
				logging.Error(rmErr),
				logging.String(logging.FieldErrorHint, "remove the directory manually"),
				logging.String(logging.FieldImpact, "temporary files remain on disk"),
			)
		}
		return ScratchFile{}, err
	}
	logger.Info("download complete", logging.String("path", path))
	return ScratchFile{Path: path, Dir: dir, Video: video}, nil
}

func (d *Downloader) fetch(ctx context.Context, ref catalog.VideoRef, video catalog.Video, stream catalog.StreamDescriptor, dir string) (string, error) {
	fail := func(op string, err error) error {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
		return services.Wrap(services.ErrDownloadFailed, "download", op, ref.ID, err)
	}

	if err := preflight.EnsureFreeSpace(dir, stream.ContentLength); err != nil {
		return "", fail("check free space", err)
	}

	body, total, err := d.catalog.OpenStream(ctx, ref, stream)
	if err != nil {
		return "", fail("open stream", err)
	}
	defer body.Close()
	if total <= 0 && stream.ContentLength > 0 {
		total = stream.ContentLength
	}

	path := filepath.Join(dir, fileName(video.Title, ref.ID, stream.Container))
	out, err := os.Create(path)
	if err != nil {
		return "", fail("create file", err)
	}

	reporter := d.progress.Acquire("Downloading " + displayTitle(video.Title, ref.ID))
	defer reporter.Close()

	counter := &countingWriter{total: total, report: reporter.Report}
	_, copyErr := io.CopyBuffer(io.MultiWriter(out, counter), contextReader{ctx: ctx, r: body}, make([]byte, copyBufferSize))
	closeErr := out.Close()
	if copyErr != nil {
		return "", fail("copy stream", copyErr)
	}
	if closeErr != nil {
		return "", fail("close file", closeErr)
	}
	reporter.Report(1)
	return path, nil
}

func fileName(title, id, container string) string {
	base := textutil.SanitizeFileName(strings.TrimSpace(title))
	if base == "" {
		base = id
	}
	container = strings.TrimPrefix(strings.TrimSpace(container), ".")
	if container == "" {
		container = "audio"
	}
	return base + "." + container
}

func displayTitle(title, id string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return id
}

// countingWriter converts byte counts into progress fractions. With an
// unknown total it stays silent and the caller reports completion.
type countingWriter struct {
	written int64
	total   int64
	report  func(float64)
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	if w.total > 0 {
		w.report(float64(w.written) / float64(w.total))
	}
	return len(p), nil
}

// contextReader stops a copy at the next chunk once ctx is done.
type contextReader struct {
	ctx context.Context
	r   io.Reader
}

func (c contextReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
