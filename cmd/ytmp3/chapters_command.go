package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"ytmp3/internal/catalog"
	"ytmp3/internal/chapters"
	"ytmp3/internal/services"
	"ytmp3/internal/transcode"
)

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "chapters <video>",
		Short: "Show the chapters discovered for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, ok := catalog.ParseVideoRef(args[0])
			if !ok {
				return services.Wrap(services.ErrValidation, "input", "parse",
					fmt.Sprintf("%q is not a video id or URL", args[0]), nil)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			found := chapters.NewEngine(ctx.newCatalog(logger), logger).Discover(cmd.Context(), ref)
			out := cmd.OutOrStdout()
			if len(found) == 0 {
				fmt.Fprintf(out, "No chapters found for %s\n", ref)
				return nil
			}
			fmt.Fprint(out, renderChapters(chapters.Bounds(found)))
			return nil
		},
	}
}

func renderChapters(bounds []chapters.Bound) string {
	rows := make([][]string, 0, len(bounds))
	for i, b := range bounds {
		end := "end"
		if !b.Unbounded {
			end = transcode.FormatTimestamp(b.EndMillis)
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			b.Title,
			transcode.FormatTimestamp(b.StartMillis),
			end,
		})
	}
	return renderTable([]column{
		{title: "#", right: true},
		{title: "Title"},
		{title: "Start", right: true},
		{title: "End", right: true},
	}, rows)
}
