package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ytmp3/internal/catalog"
	"ytmp3/internal/chapters"
	"ytmp3/internal/pipeline"
	"ytmp3/internal/services"
)

func TestRunRejectsSplitWithConcat(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"--split", "--concat", "dQw4w9WgXcQ"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunRejectsUnrecognisedInput(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"https://example.com/watch?v=dQw4w9WgXcQ"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRunReportsMissingEngine(t *testing.T) {
	env := setupCLITestEnv(t)
	folder := filepath.Join(env.baseDir, "album")
	if err := os.MkdirAll(folder, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, _, err := runCLI(t, []string{folder}, env.configPath)
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if code := services.ExitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
}

func TestRunWithoutArgsPrintsHelp(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, nil, env.configPath)
	if err != nil {
		t.Fatalf("help: %v", err)
	}
	requireContains(t, out, "--split")
	requireContains(t, out, "--concat")
}

func TestPrintRunResult(t *testing.T) {
	var buf bytes.Buffer
	printRunResult(&buf, pipeline.Result{
		Target:   catalog.Target{Kind: catalog.TargetPlaylist},
		Outputs:  []string{"/music/First.mp3", "/music/Second.mp3"},
		Warnings: []string{"output incomplete"},
		Failures: []pipeline.Failure{{VideoID: "abcdefghijk", Err: errors.New("stream closed")}},
	})
	out := buf.String()
	requireContains(t, out, "/music/First.mp3")
	requireContains(t, out, "/music/Second.mp3")
	requireContains(t, out, "abcdefghijk")
	requireContains(t, out, "stream closed")
	requireContains(t, out, "Warning: output incomplete")
}

func TestPrintRunResultEmpty(t *testing.T) {
	var buf bytes.Buffer
	printRunResult(&buf, pipeline.Result{})
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestRenderChapters(t *testing.T) {
	out := renderChapters(chapters.Bounds([]chapters.Chapter{
		{Title: "Intro", StartMillis: 0},
		{Title: "Main Theme", StartMillis: 83_500},
	}))
	requireContains(t, out, "Intro")
	requireContains(t, out, "Main Theme")
	requireContains(t, out, "00:01:23.500")
	requireContains(t, out, "end")
}

func TestChaptersRejectsPlaylist(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"chapters", "PLrAXtmErZgOeiKm4sgNOknGvNjby9efdf"}, env.configPath)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
