package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/giantswarm/scenegroup"
)

// commandContext carries the persistent flag values to subcommands.
type commandContext struct {
	contentDir   string
	pollInterval time.Duration
	verbose      bool
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "scenegroup",
		Short:         "Scene group catalog and content tool",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelWarn
			if ctx.verbose {
				level = slog.LevelDebug
			}
			scenegroup.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.contentDir, "content", "", "Addressable content directory")
	rootCmd.PersistentFlags().DurationVar(&ctx.pollInterval, "poll-interval", scenegroup.DefaultPollInterval, "How often loads are polled for progress")
	rootCmd.PersistentFlags().BoolVarP(&ctx.verbose, "verbose", "v", false, "Log debug output to stderr")

	rootCmd.AddCommand(newValidateCommand())
	rootCmd.AddCommand(newListCommand())
	rootCmd.AddCommand(newContentCommand(ctx))
	rootCmd.AddCommand(newLoadCommand(ctx))

	return rootCmd
}
