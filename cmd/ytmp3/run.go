package main

import (
	"fmt"
	"io"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ytmp3/internal/catalog"
	"ytmp3/internal/chapters"
	"ytmp3/internal/deps"
	"ytmp3/internal/download"
	"ytmp3/internal/pipeline"
	"ytmp3/internal/services"
	"ytmp3/internal/staging"
	"ytmp3/internal/transcode"
)

func runConvert(cmd *cobra.Command, ctx *commandContext, input string, split, concat bool) error {
	if split && concat {
		return services.Wrap(services.ErrValidation, "input", "flags", "--split and --concat are mutually exclusive", nil)
	}
	if _, err := catalog.ParseTarget(input); err != nil {
		return err
	}

	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	runCtx = services.WithRunID(runCtx, uuid.NewString())

	if age := cfg.StaleTempAge(); age > 0 {
		staging.CleanStale(runCtx, cfg.Paths.TempDir, age, logger)
	}

	engine, err := deps.ResolveEngine(cfg.FFmpeg.BinaryDir)
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "deps", "resolve engine", "run `ytmp3 deps` for details", err)
	}

	out := cmd.OutOrStdout()
	reporters := progressFactory(out, logger)
	cat := ctx.newCatalog(logger)
	transcoder := transcode.NewEngine(transcode.EngineConfig{
		FFmpeg:          engine.FFmpeg,
		FFprobe:         engine.FFprobe,
		AudioCodec:      cfg.FFmpeg.AudioCodec,
		FallbackBitrate: cfg.FFmpeg.FallbackBitrate,
		MaxBitrate:      cfg.FFmpeg.MaxBitrate,
	}, transcode.WithProgress(reporters), transcode.WithLogger(logger))

	coordinator := pipeline.New(
		cat,
		download.New(cat, cfg.Paths.TempDir, reporters, logger),
		chapters.NewEngine(cat, logger),
		transcoder,
		pipeline.Options{
			OutputDir:       cfg.Paths.OutputDir,
			ContinueOnError: cfg.Pipeline.ContinueOnError,
		},
		logger,
	)

	result, err := coordinator.Run(runCtx, pipeline.Request{Input: input, Split: split, Concat: concat})
	printRunResult(out, result)
	return err
}

func printRunResult(out io.Writer, result pipeline.Result) {
	if len(result.Outputs) > 0 {
		rows := make([][]string, 0, len(result.Outputs))
		for i, path := range result.Outputs {
			rows = append(rows, []string{strconv.Itoa(i + 1), path})
		}
		fmt.Fprint(out, renderTable([]column{{title: "#", right: true}, {title: "Output"}}, rows))
	}
	if len(result.Failures) > 0 {
		rows := make([][]string, 0, len(result.Failures))
		for _, f := range result.Failures {
			rows = append(rows, []string{f.VideoID, f.Err.Error()})
		}
		fmt.Fprint(out, renderTable([]column{{title: "Skipped"}, {title: "Reason"}}, rows))
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(out, "Warning: %s\n", w)
	}
}
