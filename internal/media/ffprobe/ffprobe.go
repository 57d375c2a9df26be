package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

var commandContext = exec.CommandContext

// probeArgs limits the report to audio streams plus the container section.
var probeArgs = []string{
	"-v", "error",
	"-hide_banner",
	"-select_streams", "a",
	"-show_entries", "stream=index,codec_name,codec_type,bit_rate,duration,sample_rate,channels:format=duration,bit_rate,format_name",
	"-of", "json",
}

// Number is one of ffprobe's quoted numeric fields. Blank, "N/A", negative
// and unparsable values decode as zero.
type Number float64

// UnmarshalJSON accepts both quoted and bare numbers.
func (n *Number) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(bytes.Trim(data, `"`)))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}

func (n Number) seconds() time.Duration {
	return time.Duration(float64(n) * float64(time.Second))
}

// Result is the decoded ffprobe report.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is one entry of the streams section.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	BitRate    Number `json:"bit_rate"`
	Duration   Number `json:"duration"`
	SampleRate Number `json:"sample_rate"`
	Channels   int    `json:"channels"`
}

// Format is the container section.
type Format struct {
	FormatName string `json:"format_name"`
	BitRate    Number `json:"bit_rate"`
	Duration   Number `json:"duration"`
}

// Audio summarizes the first audio stream, with container values filling
// gaps the stream leaves (webm/opus streams rarely report their own bitrate).
type Audio struct {
	Codec      string
	BitRate    int64
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// Inspect runs ffprobe on path. A blank binary means "ffprobe" from PATH.
func Inspect(ctx context.Context, binary string, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if binary = strings.TrimSpace(binary); binary == "" {
		binary = "ffprobe"
	}

	args := append(append([]string{}, probeArgs...), "--", path)
	var stderr bytes.Buffer
	cmd := commandContext(ctx, binary, args...)
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		if detail := strings.TrimSpace(stderr.String()); detail != "" {
			return Result{}, fmt.Errorf("ffprobe inspect %s: %w: %s", path, err, detail)
		}
		return Result{}, fmt.Errorf("ffprobe inspect %s: %w", path, err)
	}

	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse %s: %w", path, err)
	}
	return result, nil
}

// AudioStream summarizes the first audio stream. The boolean is false when
// the file carries no audio.
func (r Result) AudioStream() (Audio, bool) {
	for _, s := range r.Streams {
		if s.CodecType != "" && !strings.EqualFold(s.CodecType, "audio") {
			continue
		}
		audio := Audio{
			Codec:      s.CodecName,
			BitRate:    int64(s.BitRate),
			Duration:   s.Duration.seconds(),
			SampleRate: int(s.SampleRate),
			Channels:   s.Channels,
		}
		if audio.BitRate == 0 {
			audio.BitRate = int64(r.Format.BitRate)
		}
		if audio.Duration == 0 {
			audio.Duration = r.Format.Duration.seconds()
		}
		return audio, true
	}
	return Audio{}, false
}
