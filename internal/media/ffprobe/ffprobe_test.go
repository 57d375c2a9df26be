package ffprobe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"testing"
	"time"
)

func TestAudioStreamFallsBackToContainer(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video"},
			{CodecType: "audio", CodecName: "opus", SampleRate: 48000, Channels: 2},
			{CodecType: "audio", CodecName: "aac"},
		},
		Format: Format{Duration: 123.5, BitRate: 132000},
	}
	audio, ok := result.AudioStream()
	if !ok {
		t.Fatal("expected audio stream")
	}
	if audio.Codec != "opus" || audio.SampleRate != 48000 || audio.Channels != 2 {
		t.Fatalf("unexpected audio summary: %+v", audio)
	}
	if audio.BitRate != 132000 {
		t.Fatalf("expected container bitrate fallback, got %d", audio.BitRate)
	}
	if audio.Duration != 123500*time.Millisecond {
		t.Fatalf("expected container duration fallback, got %s", audio.Duration)
	}
}

func TestAudioStreamPrefersStreamValues(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "audio", CodecName: "aac", BitRate: 128000, Duration: 10}},
		Format:  Format{BitRate: 999, Duration: 20},
	}
	audio, ok := result.AudioStream()
	if !ok {
		t.Fatal("expected audio stream")
	}
	if audio.BitRate != 128000 || audio.Duration != 10*time.Second {
		t.Fatalf("unexpected audio summary: %+v", audio)
	}
}

func TestAudioStreamMissing(t *testing.T) {
	if _, ok := (Result{Streams: []Stream{{CodecType: "video"}}}).AudioStream(); ok {
		t.Fatal("expected no audio stream")
	}
	if _, ok := (Result{}).AudioStream(); ok {
		t.Fatal("expected no audio stream in empty result")
	}
}

func TestNumberDecodesLeniently(t *testing.T) {
	var format Format
	payload := `{"duration":"bad","bit_rate":"N/A","format_name":"mp3"}`
	if err := json.Unmarshal([]byte(payload), &format); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if format.Duration != 0 || format.BitRate != 0 || format.FormatName != "mp3" {
		t.Fatalf("unexpected format: %+v", format)
	}

	var stream Stream
	if err := json.Unmarshal([]byte(`{"bit_rate":"-5","duration":61.25,"sample_rate":"44100"}`), &stream); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stream.BitRate != 0 || stream.Duration != 61.25 || stream.SampleRate != 44100 {
		t.Fatalf("unexpected stream: %+v", stream)
	}
}

func TestInspectParsesOutput(t *testing.T) {
	restore := stubCommand(t, "ok")
	defer restore()

	result, err := Inspect(context.Background(), "ffprobe", "/tmp/input.webm")
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	audio, ok := result.AudioStream()
	if !ok || audio.Codec != "opus" || audio.BitRate != 160000 || audio.Duration != 61200*time.Millisecond {
		t.Fatalf("unexpected audio: %+v ok=%v", audio, ok)
	}
}

func TestInspectReportsFailure(t *testing.T) {
	restore := stubCommand(t, "fail")
	defer restore()

	_, err := Inspect(context.Background(), "ffprobe", "/tmp/input.webm")
	if err == nil || !strings.Contains(err.Error(), "Invalid data") {
		t.Fatalf("expected stderr in error, got %v", err)
	}
}

func TestInspectRejectsEmptyPath(t *testing.T) {
	if _, err := Inspect(context.Background(), "", " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func stubCommand(t *testing.T, mode string) func() {
	t.Helper()
	original := commandContext
	commandContext = func(ctx context.Context, name string, args ...string) *exec.Cmd {
		cs := []string{"-test.run=TestHelperProcess", "--", name}
		cs = append(cs, args...)
		cmd := exec.CommandContext(ctx, os.Args[0], cs...)
		cmd.Env = append(os.Environ(), "GO_WANT_HELPER_PROCESS=1", "HELPER_MODE="+mode)
		return cmd
	}
	return func() { commandContext = original }
}

func TestHelperProcess(t *testing.T) {
	if os.Getenv("GO_WANT_HELPER_PROCESS") != "1" {
		return
	}
	switch os.Getenv("HELPER_MODE") {
	case "fail":
		fmt.Fprint(os.Stderr, "input.webm: Invalid data found when processing input")
		os.Exit(1)
	default:
		fmt.Fprint(os.Stdout, `{"streams":[{"index":0,"codec_name":"opus","codec_type":"audio","bit_rate":"160000","duration":"61.2"}],"format":{"duration":"61.2","bit_rate":"161000"}}`)
	}
	os.Exit(0)
}
