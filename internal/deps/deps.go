// Package deps locates the external binaries ytmp3 drives and reports
// whether they are usable.
package deps

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Requirement names an external binary ytmp3 runs.
type Requirement struct {
	Name    string
	Command string
	Purpose string
}

// Status is the outcome of locating one Requirement. Available entries carry
// the resolved executable path in Command.
type Status struct {
	Requirement
	Available bool
	// Version is taken from the binary's -version banner; empty when the
	// binary printed none.
	Version string
	Detail  string
}

var versionTimeout = 5 * time.Second

// CheckBinaries resolves each requirement and, when found, asks it for its
// version.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		req.Command = strings.TrimSpace(req.Command)
		status := Status{Requirement: req}
		if req.Command == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(req.Command)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found; install it or set ffmpeg.binary_dir", req.Command)
			results = append(results, status)
			continue
		}
		status.Command = resolved
		status.Available = true
		status.Version = probeVersion(resolved)
		results = append(results, status)
	}
	return results
}

func probeVersion(path string) string {
	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, path, "-version").Output() //nolint:gosec
	if err != nil {
		return ""
	}
	return parseVersion(string(out))
}

// parseVersion reads "ffmpeg version 7.1.1 Copyright ..." style banners.
func parseVersion(banner string) string {
	line, _, _ := strings.Cut(banner, "\n")
	fields := strings.Fields(line)
	for i, f := range fields {
		if f == "version" && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}
