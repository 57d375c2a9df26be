package preflight

import (
	"context"
	"fmt"
	"net/http"

	"ytmp3/internal/config"
	"ytmp3/internal/deps"
)

// CatalogURL is probed by RunAll to confirm outbound connectivity.
var CatalogURL = "https://www.youtube.com/"

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, client *http.Client) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("Temp directory", cfg.Paths.TempDir),
	}
	if cfg.FFmpeg.BinaryDir != "" {
		if err := deps.CheckDirectory(cfg.FFmpeg.BinaryDir); err != nil {
			results = append(results, Result{Name: "FFmpeg directory", Detail: err.Error()})
		}
	}
	for _, status := range deps.CheckBinaries(deps.Requirements(cfg.FFmpeg.BinaryDir)) {
		result := Result{Name: status.Name, Passed: status.Available, Detail: status.Command}
		switch {
		case !status.Available:
			result.Detail = status.Detail
		case status.Version != "":
			result.Detail = fmt.Sprintf("%s (version %s)", status.Command, status.Version)
		}
		results = append(results, result)
	}
	results = append(results, CheckEndpoint(ctx, client, "YouTube", CatalogURL))
	return results
}
