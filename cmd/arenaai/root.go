package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "arenaai",
		Short:         "Speaker-attributed match transcription and analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.ensure()
		},
	}

	root.PersistentFlags().StringVar(&ctx.configPath, "config", "arenaai.toml", "path to the configuration file")

	root.AddCommand(newProcessCommand(ctx))
	root.AddCommand(newAnalyzeCommand(ctx))
	root.AddCommand(newCommentaryCommand(ctx))
	root.AddCommand(newShowCommand(ctx))
	root.AddCommand(newServeCommand(ctx))

	return root
}
