package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestScratchListAndClean(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"scratch", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("scratch list: %v", err)
	}
	requireContains(t, out, "No scratch directories found")

	fresh := filepath.Join(env.tempDir, "ytmp3-fresh")
	stale := filepath.Join(env.tempDir, "ytmp3-stale")
	for _, dir := range []string{fresh, stale} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(filepath.Join(dir, "audio.webm"), make([]byte, 2048), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	old := time.Now().Add(-72 * time.Hour)
	if err := os.Chtimes(stale, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	unrelated := filepath.Join(env.tempDir, "keep-me")
	if err := os.MkdirAll(unrelated, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	out, _, err = runCLI(t, []string{"scratch", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("scratch list: %v", err)
	}
	requireContains(t, out, "ytmp3-fresh")
	requireContains(t, out, "ytmp3-stale")
	requireContains(t, out, "3d")
	requireContains(t, out, "Total: 2 directories")

	out, _, err = runCLI(t, []string{"scratch", "clean"}, env.configPath)
	if err != nil {
		t.Fatalf("scratch clean: %v", err)
	}
	requireContains(t, out, "Removed 1 stale directories")
	if _, err := os.Stat(stale); !os.IsNotExist(err) {
		t.Fatalf("expected stale dir removed, stat err=%v", err)
	}
	if _, err := os.Stat(fresh); err != nil {
		t.Fatalf("expected fresh dir kept: %v", err)
	}

	out, _, err = runCLI(t, []string{"scratch", "clean", "--all"}, env.configPath)
	if err != nil {
		t.Fatalf("scratch clean --all: %v", err)
	}
	requireContains(t, out, "Removed 1 scratch directories")
	if _, err := os.Stat(unrelated); err != nil {
		t.Fatalf("expected unrelated dir kept: %v", err)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[time.Duration]string{
		5 * time.Minute: "5m",
		3 * time.Hour:   "3h",
		50 * time.Hour:  "2d",
	}
	for in, want := range cases {
		if got := formatDuration(in); got != want {
			t.Fatalf("formatDuration(%s) = %q, want %q", in, got, want)
		}
	}
}
