package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var logLevelFlag string
	var split bool
	var concat bool

	ctx := newCommandContext(&configFlag, &logLevelFlag)

	rootCmd := &cobra.Command{
		Use:   "ytmp3 [video|playlist|folder]",
		Short: "Download YouTube audio and convert it to mp3",
		Long: `Download YouTube audio and convert it to mp3.

The input is a video id or URL, a playlist id or URL, or a local folder of
mp3 files. Videos become one mp3 each; --split writes one file per chapter
instead. Playlists become one mp3 per entry; --concat joins them into a
single file. Folders are always joined into one file named after the folder.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runConvert(cmd, ctx, args[0], split, concat)
		},
	}

	rootCmd.Flags().BoolVarP(&split, "split", "s", false, "Split a video into one file per chapter")
	rootCmd.Flags().BoolVarP(&concat, "concat", "c", false, "Concatenate a playlist into a single file")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Override logging.level (debug, info, warn, error)")

	rootCmd.AddCommand(newChaptersCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newScratchCommand(ctx))

	return rootCmd
}
