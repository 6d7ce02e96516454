package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/loader"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/logging"
)

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	ctx := newCommandContext(opts)

	rootCmd := &cobra.Command{
		Use:           "zavlab",
		Short:         "Validate, merge and preview graph configurations",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", logging.FormatAuto, "Log format (auto, console, json)")
	flags.StringVar(&opts.envPrefix, "env-prefix", loader.DefaultEnvPrefix, "Prefix of environment variables that override parameters")
	flags.BoolVar(&opts.noEnv, "no-env", false, "Ignore parameter overrides from the environment")

	rootCmd.AddCommand(newCheckCommand(ctx))
	rootCmd.AddCommand(newResolveCommand(ctx))
	rootCmd.AddCommand(newRenderCommand(ctx))
	rootCmd.AddCommand(newParamsCommand(ctx))
	rootCmd.AddCommand(newWatchCommand(ctx))
	rootCmd.AddCommand(newServeCommand(ctx))

	return rootCmd
}
