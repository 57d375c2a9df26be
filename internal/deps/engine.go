package deps

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Engine holds resolved transcoding executables.
type Engine struct {
	FFmpeg  string
	FFprobe string
}

// Requirements lists the binaries the pipeline needs. When binDir is set the
// commands point inside it; otherwise they are resolved from PATH.
func Requirements(binDir string) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: commandIn(binDir, "ffmpeg"), Purpose: "Converts, splits, and concatenates audio"},
		{Name: "FFprobe", Command: commandIn(binDir, "ffprobe"), Purpose: "Reads input bitrate and duration"},
	}
}

// ResolveEngine locates ffmpeg and ffprobe. A configured binDir wins over PATH;
// a binDir that lacks either binary is an error rather than a silent fallback.
func ResolveEngine(binDir string) (Engine, error) {
	statuses := CheckBinaries(Requirements(binDir))
	var missing []string
	for _, status := range statuses {
		if !status.Available {
			missing = append(missing, status.Detail)
		}
	}
	if len(missing) > 0 {
		return Engine{}, errors.New(strings.Join(missing, "; "))
	}
	return Engine{FFmpeg: statuses[0].Command, FFprobe: statuses[1].Command}, nil
}

func commandIn(binDir, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	binDir = strings.TrimSpace(binDir)
	if binDir == "" {
		return name
	}
	return filepath.Join(binDir, name)
}

// CheckDirectory confirms binDir exists before resolution so misconfiguration
// is reported as such instead of as two missing binaries.
func CheckDirectory(binDir string) error {
	if strings.TrimSpace(binDir) == "" {
		return nil
	}
	info, err := os.Stat(binDir)
	if err != nil {
		return fmt.Errorf("ffmpeg binary dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("ffmpeg binary dir %q is not a directory", binDir)
	}
	return nil
}
