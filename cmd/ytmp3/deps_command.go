package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"ytmp3/internal/preflight"
	"ytmp3/internal/services"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check ffmpeg, ffprobe, directories, and connectivity",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			results := preflight.RunAll(cmd.Context(), cfg, ctx.httpClient())
			rows := make([][]string, 0, len(results))
			failed := 0
			for _, r := range results {
				status := "ok"
				if !r.Passed {
					status = "FAIL"
					failed++
				}
				rows = append(rows, []string{r.Name, status, r.Detail})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]column{{title: "Check"}, {title: "Status"}, {title: "Detail"}}, rows))
			if failed > 0 {
				return services.Wrap(services.ErrConfiguration, "deps", "check", fmt.Sprintf("%d of %d checks failed", failed, len(results)), nil)
			}
			return nil
		},
	}
}
