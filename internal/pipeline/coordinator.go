package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"

	"ytmp3/internal/catalog"
	"ytmp3/internal/chapters"
	"ytmp3/internal/download"
	"ytmp3/internal/logging"
	"ytmp3/internal/services"
	"ytmp3/internal/transcode"
)

// LockFileName is created inside the output directory while a run holds it.
const LockFileName = ".ytmp3.lock"

// PlaylistSource snapshots playlists.
type PlaylistSource interface {
	Playlist(ctx context.Context, ref catalog.PlaylistRef) (catalog.Playlist, error)
}

// Downloader fetches one video's audio into scratch space.
type Downloader interface {
	DownloadAudio(ctx context.Context, ref catalog.VideoRef) (download.ScratchFile, error)
}

// ChapterFinder discovers chapters. It never fails; no chapters is nil.
type ChapterFinder interface {
	Discover(ctx context.Context, ref catalog.VideoRef) []chapters.Chapter
}

// Transcoder performs the ffmpeg operations.
type Transcoder interface {
	ConvertOne(ctx context.Context, input, outputDir string) (string, error)
	Concatenate(ctx context.Context, inputs []string, outputDir, name string) (string, error)
	SplitByChapters(ctx context.Context, req transcode.SplitRequest) ([]string, error)
}

// Options tune run behaviour.
type Options struct {
	OutputDir       string
	ContinueOnError bool
}

// Coordinator runs the pipeline against its collaborators.
type Coordinator struct {
	playlists  PlaylistSource
	downloader Downloader
	chapters   ChapterFinder
	transcoder Transcoder
	opts       Options
	logger     *slog.Logger
}

// New constructs a Coordinator.
func New(playlists PlaylistSource, downloader Downloader, finder ChapterFinder, transcoder Transcoder, opts Options, logger *slog.Logger) *Coordinator {
	if strings.TrimSpace(opts.OutputDir) == "" {
		opts.OutputDir = "output"
	}
	return &Coordinator{
		playlists:  playlists,
		downloader: downloader,
		chapters:   finder,
		transcoder: transcoder,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Request is one run.
type Request struct {
	// Input is a video id or URL, a playlist id or URL, or a local folder.
	Input string
	// Split writes one file per chapter. Videos only.
	Split bool
	// Concat joins a playlist or folder into a single file.
	Concat bool
}

// Failure records an item skipped under continue_on_error.
type Failure struct {
	VideoID string
	Err     error
}

// Result summarises a run.
type Result struct {
	Target   catalog.Target
	Outputs  []string
	Warnings []string
	Failures []Failure
}

func (r *Result) warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// record keeps out and downgrades an incomplete conversion to a warning.
// Any other error is returned.
func (r *Result) record(out string, err error) error {
	if err != nil && services.IsFatal(err) {
		return err
	}
	if out != "" {
		r.Outputs = append(r.Outputs, out)
	}
	if err != nil {
		r.warn(err.Error())
	}
	return nil
}

// Run executes req. The returned Result is populated even when err is set.
func (c *Coordinator) Run(ctx context.Context, req Request) (Result, error) {
	var result Result
	if req.Split && req.Concat {
		return result, services.Wrap(services.ErrValidation, "input", "flags", "split and concat are mutually exclusive", nil)
	}
	target, err := catalog.ParseTarget(req.Input)
	if err != nil {
		return result, err
	}
	result.Target = target
	logger := logging.WithContext(ctx, c.logger)
	logger.Info("run started",
		logging.String("target", target.Kind.String()),
		logging.String("input", req.Input),
		logging.Bool("split", req.Split),
		logging.Bool("concat", req.Concat),
	)

	switch target.Kind {
	case catalog.TargetVideo:
		if req.Concat {
			result.warn("--concat has no effect on a single video")
		}
		err = c.withOutputLock(c.opts.OutputDir, func() error {
			return c.runVideo(ctx, target.Video, req.Split, &result)
		})
	case catalog.TargetPlaylist:
		if req.Split {
			result.warn("--split has no effect on a playlist")
		}
		err = c.withOutputLock(c.opts.OutputDir, func() error {
			return c.runPlaylist(ctx, target.Playlist, req.Concat, &result)
		})
	case catalog.TargetFolder:
		if req.Split {
			result.warn("--split has no effect on a folder")
		}
		err = c.runFolder(ctx, target.Folder, &result)
	}
	for _, w := range result.Warnings {
		logging.WarnWithContext(logger, w, "run_warning",
			logging.String(logging.FieldImpact, "run continued"))
	}
	if err != nil {
		return result, err
	}
	logger.Info("run finished", logging.Int("outputs", len(result.Outputs)))
	return result, nil
}

func (c *Coordinator) withOutputLock(dir string, fn func() error) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, "output", "create directory", dir, err)
	}
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return services.Wrap(services.ErrValidation, "output", "lock",
			fmt.Sprintf("another ytmp3 run is writing to %s", dir), nil)
	}
	defer func() { _ = lock.Unlock() }()
	return fn()
}

func (c *Coordinator) runVideo(ctx context.Context, ref catalog.VideoRef, split bool, result *Result) error {
	ctx = services.WithVideoID(ctx, ref.ID)
	file, err := c.downloader.DownloadAudio(ctx, ref)
	if err != nil {
		return err
	}
	defer c.removeScratch(ctx, file)

	ctx = services.WithStage(ctx, "transcode")
	if split {
		found := c.chapters.Discover(ctx, ref)
		if len(found) > 0 {
			dir := filepath.Join(c.opts.OutputDir, folderName(file.Video.Title, ref.ID))
			outputs, err := c.transcoder.SplitByChapters(ctx, transcode.SplitRequest{
				Input:      file.Path,
				Chapters:   found,
				OutputDir:  dir,
				ScratchDir: file.Dir,
			})
			if err != nil && services.IsFatal(err) {
				return err
			}
			result.Outputs = append(result.Outputs, outputs...)
			if err != nil {
				result.warn(err.Error())
			}
			return nil
		}
		result.warn(fmt.Sprintf("%s has no chapters; converting the whole video", ref.ID))
	}
	return result.record(c.transcoder.ConvertOne(ctx, file.Path, c.opts.OutputDir))
}

func (c *Coordinator) runPlaylist(ctx context.Context, ref catalog.PlaylistRef, concat bool, result *Result) error {
	logger := logging.WithContext(ctx, c.logger)
	playlist, err := c.playlists.Playlist(ctx, ref)
	if err != nil {
		return err
	}
	name := folderName(playlist.Title, playlist.ID)
	logger.Info("playlist resolved",
		logging.String("playlist_id", playlist.ID),
		logging.String("title", playlist.Title),
		logging.Int("videos", len(playlist.Videos)),
	)
	if len(playlist.Videos) == 0 && !concat {
		result.warn(fmt.Sprintf("playlist %s has no videos", playlist.ID))
		return nil
	}

	files := make([]download.ScratchFile, 0, len(playlist.Videos))
	defer func() {
		for _, f := range files {
			c.removeScratch(ctx, f)
		}
	}()

	for i, video := range playlist.Videos {
		if err := ctx.Err(); err != nil {
			return err
		}
		logger.Info("downloading playlist entry",
			logging.String(logging.FieldVideoID, video.ID),
			logging.Int("index", i+1),
			logging.Int("total", len(playlist.Videos)),
		)
		file, err := c.downloader.DownloadAudio(ctx, video)
		if err != nil {
			if !c.skippable(ctx, err) {
				return fmt.Errorf("playlist entry %d (%s): %w", i+1, video.ID, err)
			}
			result.Failures = append(result.Failures, Failure{VideoID: video.ID, Err: err})
			logging.WarnWithContext(logger, "skipping playlist entry", "playlist_entry_skipped",
				logging.String(logging.FieldVideoID, video.ID),
				logging.Error(err),
				logging.String(logging.FieldImpact, "entry missing from output"),
			)
			continue
		}
		files = append(files, file)
	}

	ctx = services.WithStage(ctx, "transcode")
	if concat {
		if len(files) == 0 {
			return services.Wrap(services.ErrEmptyInputSet, "playlist", "concatenate", "no videos downloaded", nil)
		}
		inputs := make([]string, len(files))
		for i, f := range files {
			inputs[i] = f.Path
		}
		return result.record(c.transcoder.Concatenate(ctx, inputs, c.opts.OutputDir, name))
	}

	dir := filepath.Join(c.opts.OutputDir, name)
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		out, err := c.transcoder.ConvertOne(services.WithVideoID(ctx, f.Video.ID), f.Path, dir)
		if err := result.record(out, err); err != nil {
			if !c.skippable(ctx, err) {
				return err
			}
			result.Failures = append(result.Failures, Failure{VideoID: f.Video.ID, Err: err})
		}
	}
	return nil
}

func (c *Coordinator) runFolder(ctx context.Context, folder string, result *Result) error {
	abs, err := filepath.Abs(folder)
	if err != nil {
		return services.Wrap(services.ErrValidation, "input", "resolve folder", folder, err)
	}
	inputs, err := listMP3(abs)
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		return services.Wrap(services.ErrEmptyInputSet, "folder", "concatenate",
			fmt.Sprintf("no .mp3 files in %s", abs), nil)
	}
	ctx = services.WithStage(ctx, "transcode")
	// The result lands next to the folder, so the parent is the locked directory.
	parent := filepath.Dir(abs)
	return c.withOutputLock(parent, func() error {
		return result.record(c.transcoder.Concatenate(ctx, inputs, parent, filepath.Base(abs)))
	})
}

// skippable reports whether a per-video failure may be skipped. Cancellation
// and configuration problems always stop the run.
func (c *Coordinator) skippable(ctx context.Context, err error) bool {
	if !c.opts.ContinueOnError || ctx.Err() != nil {
		return false
	}
	return !errors.Is(err, services.ErrConfiguration) && !errors.Is(err, context.Canceled)
}

func (c *Coordinator) removeScratch(ctx context.Context, file download.ScratchFile) {
	if err := file.Remove(); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, c.logger), "scratch cleanup failed", "scratch_cleanup_failed",
			logging.String("path", file.Dir),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove the directory manually"),
			logging.String(logging.FieldImpact, "temporary files remain on disk"),
		)
	}
}
