package transcode

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ytmp3/internal/chapters"
	"ytmp3/internal/fileutil"
	"ytmp3/internal/logging"
	"ytmp3/internal/services"
	"ytmp3/internal/textutil"
)

const crossfadeSeconds = 1.0

// ConvertOne re-encodes the first audio stream of input at its native
// bitrate into <outputDir>/<stem>.mp3, overwriting any existing file.
func (e *Engine) ConvertOne(ctx context.Context, input, outputDir string) (string, error) {
	audio, err := e.probe.Probe(ctx, input)
	if err != nil {
		if isCancelled(err) {
			return "", err
		}
		return "", services.Wrap(services.ErrExternalTool, "transcode", "probe", input, err)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	stem := fileutil.Stem(input)
	job := Job{
		Label:    "Converting " + stem,
		Inputs:   []Input{{Path: input}},
		Params:   append([]string{"-map", "0:a:0", "-vn"}, e.encodeParams(e.bitrateFor(audio.BitRate))...),
		Output:   filepath.Join(outputDir, stem+".mp3"),
		Duration: audio.Duration,
	}
	return e.submit(ctx, job)
}

// Concatenate joins the first audio stream of every input, in order, into
// <outputDir>/<name>.mp3.
func (e *Engine) Concatenate(ctx context.Context, inputs []string, outputDir, name string) (string, error) {
	if len(inputs) == 0 {
		return "", services.Wrap(services.ErrEmptyInputSet, "transcode", "concatenate", "no inputs", nil)
	}
	logger := logging.WithContext(ctx, e.logger)

	var total time.Duration
	var bitrate int64
	probed := 0
	job := Job{Inputs: make([]Input, 0, len(inputs))}
	for _, in := range inputs {
		job.Inputs = append(job.Inputs, Input{Path: in})
		audio, err := e.probe.Probe(ctx, in)
		if err != nil {
			if isCancelled(err) {
				return "", err
			}
			logger.Debug("probe failed; progress and bitrate may be approximate",
				logging.String("input", in), logging.Error(err))
			continue
		}
		total += audio.Duration
		bitrate = max(bitrate, audio.BitRate)
		probed++
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	name = outputName(name, "concatenated")
	job.Label = "Concatenating " + name
	// Mean over probed inputs only; zero disables time-based progress.
	if probed > 0 {
		job.Duration = total / time.Duration(probed)
	}
	job.Params = append([]string{"-filter_complex", BuildConcatFilter(len(inputs)), "-map", "[outa]"},
		e.encodeParams(e.bitrateFor(bitrate))...)
	job.Output = filepath.Join(outputDir, name+".mp3")
	return e.submit(ctx, job)
}

// SplitRequest describes one split-by-chapters operation.
type SplitRequest struct {
	Input     string
	Chapters  []chapters.Chapter
	OutputDir string
	// ScratchDir is removed once every chapter has been processed.
	ScratchDir string
}

// SplitByChapters writes one file per chapter into OutputDir, in chapter
// order. Chapters whose output came out incomplete are returned with their
// paths and joined into the error; any other failure stops the split.
func (e *Engine) SplitByChapters(ctx context.Context, req SplitRequest) ([]string, error) {
	logger := logging.WithContext(ctx, e.logger)
	if req.ScratchDir != "" {
		defer func() {
			if err := fileutil.RemoveAllQuiet(req.ScratchDir); err != nil {
				logging.WarnWithContext(logger, "scratch cleanup failed", "scratch_cleanup_failed",
					logging.String("path", req.ScratchDir),
					logging.Error(err),
					logging.String(logging.FieldImpact, "temporary files remain on disk"),
				)
			}
		}()
	}
	if len(req.Chapters) == 0 {
		return nil, nil
	}

	audio, err := e.probe.Probe(ctx, req.Input)
	if err != nil {
		if isCancelled(err) {
			return nil, err
		}
		return nil, services.Wrap(services.ErrExternalTool, "transcode", "probe", req.Input, err)
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	encode := e.encodeParams(e.bitrateFor(audio.BitRate))
	names := make(map[string]int, len(req.Chapters))
	var outputs []string
	var incomplete []error
	for i, bound := range chapters.Bounds(req.Chapters) {
		name := uniqueName(names, outputName(bound.Title, fmt.Sprintf("Chapter %02d", i+1)))
		options := []string{"-ss", FormatTimestamp(bound.StartMillis)}
		end := audio.Duration
		if !bound.Unbounded {
			options = append(options, "-to", FormatTimestamp(bound.EndMillis))
			end = time.Duration(bound.EndMillis) * time.Millisecond
		}
		job := Job{
			Label:    "Splitting " + name,
			Inputs:   []Input{{Path: req.Input, Options: options}},
			Params:   append([]string{"-filter_complex", BuildCrossfadeFilter(crossfadeSeconds), "-map", "[aout]"}, encode...),
			Output:   filepath.Join(req.OutputDir, name+".mp3"),
			Duration: max(end-time.Duration(bound.StartMillis)*time.Millisecond, 0),
		}
		out, err := e.submit(ctx, job)
		if err != nil && services.IsFatal(err) {
			return outputs, err
		}
		if err != nil {
			incomplete = append(incomplete, err)
		}
		outputs = append(outputs, out)
	}
	return outputs, errors.Join(incomplete...)
}

func outputName(name, fallback string) string {
	name = strings.TrimSpace(textutil.SanitizeFileName(strings.TrimSpace(name)))
	if name == "" {
		return fallback
	}
	return name
}

// uniqueName suffixes repeated names so chapters sharing a title do not
// overwrite each other.
func uniqueName(seen map[string]int, name string) string {
	key := strings.ToLower(name)
	seen[key]++
	if n := seen[key]; n > 1 {
		return name + " (" + strconv.Itoa(n) + ")"
	}
	return name
}
