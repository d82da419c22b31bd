package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/trailerseerr/pkg/logger"
)

func newRootCommand() *cobra.Command {
	var configFlag string

	ctx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "trailerseerr",
		Short:         "Turn trailer titles into Overseerr requests",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger.Init(os.Getenv("ENV") != "production")
			if shouldSkipConfig(cmd) {
				return nil
			}
			return ctx.ensureConfig()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path (default $CONFIG_PATH or config/config.yaml)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newCleanCommand())
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newRequestCommand(ctx))
	rootCmd.AddCommand(newTestCommand(ctx))
	rootCmd.AddCommand(newScrapeCommand(ctx))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// shouldSkipConfig reports whether cmd works without any configuration.
func shouldSkipConfig(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "clean", "version", "help", "trailerseerr":
		return true
	}
	return false
}
