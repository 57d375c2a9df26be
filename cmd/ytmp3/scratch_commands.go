package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ytmp3/internal/logging"
	"ytmp3/internal/staging"
)

func newScratchCommand(ctx *commandContext) *cobra.Command {
	scratchCmd := &cobra.Command{
		Use:   "scratch",
		Short: "Manage scratch directories left by interrupted runs",
	}

	scratchCmd.AddCommand(newScratchListCommand(ctx))
	scratchCmd.AddCommand(newScratchCleanCommand(ctx))

	return scratchCmd
}

func newScratchListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scratch directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			dirs, err := staging.ListDirectories(cfg.Paths.TempDir)
			if err != nil {
				return fmt.Errorf("list scratch directories: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(dirs) == 0 {
				fmt.Fprintln(out, "No scratch directories found")
				return nil
			}

			fmt.Fprintf(out, "Temp directory: %s\n\n", cfg.Paths.TempDir)

			now := time.Now()
			var totalSize int64
			rows := make([][]string, 0, len(dirs))
			for _, dir := range dirs {
				age := dir.Age(now).Truncate(time.Minute)
				totalSize += dir.Size
				rows = append(rows, []string{dir.Name, formatDuration(age), logging.FormatBytes(dir.Size)})
			}

			fmt.Fprint(out, renderTable(
				[]column{{title: "Directory"}, {title: "Age", right: true}, {title: "Size", right: true}},
				rows,
				fmt.Sprintf("Total: %d directories", len(dirs)), "", logging.FormatBytes(totalSize),
			))
			return nil
		},
	}
}

func newScratchCleanCommand(ctx *commandContext) *cobra.Command {
	var cleanAll bool

	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove stale scratch directories",
		Long: `Remove scratch directories older than pipeline.stale_temp_hours.

Runs remove their own scratch space when they finish; directories only linger
when a run is killed. Use --all to remove every scratch directory regardless
of age. Do not use --all while another run is in progress.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			maxAge := cfg.StaleTempAge()
			label := "stale"
			if cleanAll {
				maxAge = 0
				label = "scratch"
			}
			result := staging.CleanStale(cmd.Context(), cfg.Paths.TempDir, maxAge, logger)
			printCleanResult(cmd, result, label)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cleanAll, "all", false, "Remove all scratch directories regardless of age")

	return cmd
}

func printCleanResult(cmd *cobra.Command, result staging.CleanResult, label string) {
	out := cmd.OutOrStdout()
	if len(result.Removed) == 0 && len(result.Failures) == 0 {
		fmt.Fprintf(out, "No %s directories to clean\n", label)
		return
	}
	if len(result.Failures) > 0 {
		fmt.Fprintf(out, "Removed %d %s directories, %d errors\n", len(result.Removed), label, len(result.Failures))
		for _, f := range result.Failures {
			fmt.Fprintf(out, "  Error: %s: %v\n", f.Path, f.Err)
		}
		return
	}
	fmt.Fprintf(out, "Removed %d %s directories\n", len(result.Removed), label)
}

func formatDuration(d time.Duration) string {
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}
