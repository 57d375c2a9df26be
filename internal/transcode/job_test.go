package transcode

import (
	"reflect"
	"testing"
	"time"
)

func TestBuildConcatFilterPreservesOrder(t *testing.T) {
	if got := BuildConcatFilter(3); got != "[0:a:0][1:a:0][2:a:0]concat=n=3:v=0:a=1[outa]" {
		t.Fatalf("unexpected filter: %s", got)
	}
	if got := BuildConcatFilter(1); got != "[0:a:0]concat=n=1:v=0:a=1[outa]" {
		t.Fatalf("unexpected single-input filter: %s", got)
	}
}

func TestBuildCrossfadeFilter(t *testing.T) {
	want := "aevalsrc=0:d=1.0[a_silence];[0:a:0][a_silence]acrossfade=d=1.0[aout]"
	if got := BuildCrossfadeFilter(1); got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := map[uint64]string{
		0:        "00:00:00.000",
		90000:    "00:01:30.000",
		3723004:  "01:02:03.004",
		86399999: "23:59:59.999",
	}
	for in, want := range tests {
		if got := FormatTimestamp(in); got != want {
			t.Errorf("FormatTimestamp(%d) = %s, want %s", in, got, want)
		}
	}
}

func TestJobArgs(t *testing.T) {
	job := Job{
		Inputs: []Input{
			{Path: "a.webm", Options: []string{"-ss", "00:00:05.000"}},
			{Path: "b.webm"},
		},
		Params: []string{"-map", "[outa]"},
		Output: "out.mp3",
	}
	want := []string{
		"-hide_banner", "-nostdin", "-y", "-progress", "pipe:1", "-nostats", "-loglevel", "error",
		"-ss", "00:00:05.000", "-i", "a.webm",
		"-i", "b.webm",
		"-map", "[outa]",
		"out.mp3",
	}
	if got := job.Args(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Args() = %v\nwant %v", got, want)
	}
}

func TestParseProgressLine(t *testing.T) {
	single := Job{Inputs: []Input{{Path: "a"}}, Duration: 10 * time.Second}
	tests := []struct {
		line string
		job  Job
		want float64
		ok   bool
	}{
		{"out_time_us=5000000", single, 50, true},
		{"out_time_ms=2500000", single, 25, true},
		{"out_time=00:00:07.500000", single, 75, true},
		{"progress=continue", single, 0, false},
		{"progress=end", single, 100, true},
		{"progress=end", Job{Inputs: []Input{{}, {}, {}}}, 300, true},
		{"out_time_us=5000000", Job{Inputs: []Input{{}}}, 0, false},
		{"out_time=N/A", single, 0, false},
		{"bitrate=128.0kbits/s", single, 0, false},
		{"garbage", single, 0, false},
	}
	for _, tt := range tests {
		got, ok := parseProgressLine(tt.line, tt.job)
		if ok != tt.ok || got != tt.want {
			t.Errorf("parseProgressLine(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}
