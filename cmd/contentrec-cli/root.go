package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/contentrec/internal/logger"
	"github.com/kailas-cloud/contentrec/internal/version"
)

// commandContext carries state shared by every subcommand.
type commandContext struct {
	logLevel string
	logger   *zap.Logger
}

func (c *commandContext) log() *zap.Logger {
	if c.logger == nil {
		return zap.NewNop()
	}
	return c.logger
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	rootCmd := &cobra.Command{
		Use:           "contentrec-cli",
		Short:         "Train and query content-based recommendation models offline",
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := logpkg.NewCLI(ctx.logLevel)
			if err != nil {
				return err
			}
			ctx.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if ctx.logger != nil {
				_ = ctx.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "", "Log level: debug, info, warn, error (default warn)")

	rootCmd.AddCommand(newTrainCommand(ctx))
	rootCmd.AddCommand(newSimilarCommand(ctx))
	rootCmd.AddCommand(newTokensCommand(ctx))

	return rootCmd
}
