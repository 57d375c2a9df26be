package transcode

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Input is one ffmpeg input with the options that precede its -i.
type Input struct {
	Path    string
	Options []string
}

// Job is one ffmpeg invocation. Jobs are built fresh per operation and are
// not modified after submission.
type Job struct {
	Label  string
	Inputs []Input
	Params []string
	Output string
	// Duration is the media length one input contributes to the output.
	// Zero means unknown and suppresses intermediate progress.
	Duration time.Duration
}

var baseArgs = []string{
	"-hide_banner",
	"-nostdin",
	"-y",
	"-progress", "pipe:1",
	"-nostats",
	"-loglevel", "error",
}

// Args builds the ffmpeg argument list.
func (j Job) Args() []string {
	args := append([]string(nil), baseArgs...)
	for _, in := range j.Inputs {
		args = append(args, in.Options...)
		args = append(args, "-i", in.Path)
	}
	args = append(args, j.Params...)
	return append(args, j.Output)
}

// BuildConcatFilter references the first audio stream of each of n inputs in
// order and joins them into [outa].
func BuildConcatFilter(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "[%d:a:0]", i)
	}
	fmt.Fprintf(&b, "concat=n=%d:v=0:a=1[outa]", n)
	return b.String()
}

// BuildCrossfadeFilter fades the trimmed segment into generated silence over
// the given number of seconds, producing [aout].
func BuildCrossfadeFilter(seconds float64) string {
	d := strconv.FormatFloat(seconds, 'f', 1, 64)
	return "aevalsrc=0:d=" + d + "[a_silence];[0:a:0][a_silence]acrossfade=d=" + d + "[aout]"
}

// FormatTimestamp renders milliseconds as HH:MM:SS.mmm.
func FormatTimestamp(millis uint64) string {
	ms := millis % 1000
	total := millis / 1000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", total/3600, (total/60)%60, total%60, ms)
}

// parseProgressLine turns one "-progress" key=value line into the engine's
// raw percentage for job. ok is false for lines that carry no position.
func parseProgressLine(line string, job Job) (percent float64, ok bool) {
	key, value, found := strings.Cut(strings.TrimSpace(line), "=")
	if !found {
		return 0, false
	}
	value = strings.TrimSpace(value)
	inputs := max(len(job.Inputs), 1)

	if key == "progress" {
		if value == "end" {
			return float64(100 * inputs), true
		}
		return 0, false
	}
	if job.Duration <= 0 {
		return 0, false
	}

	var position time.Duration
	switch key {
	case "out_time_us", "out_time_ms":
		// ffmpeg reports both keys in microseconds.
		us, err := strconv.ParseInt(value, 10, 64)
		if err != nil || us < 0 {
			return 0, false
		}
		position = time.Duration(us) * time.Microsecond
	case "out_time":
		d, err := parseClock(value)
		if err != nil {
			return 0, false
		}
		position = d
	default:
		return 0, false
	}
	return float64(position) / float64(job.Duration) * 100, true
}

// parseClock parses ffmpeg's HH:MM:SS.micro clock.
func parseClock(value string) (time.Duration, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid clock %q", value)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, err
	}
	s, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, err
	}
	if h < 0 || m < 0 || s < 0 {
		return 0, fmt.Errorf("invalid clock %q", value)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s*float64(time.Second)), nil
}
