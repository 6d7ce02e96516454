package main

import (
	"github.com/spf13/cobra"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/loader"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var paramsOnly bool

	cmd := &cobra.Command{
		Use:   "resolve <file>",
		Short: "Print the merged per-entity configuration",
		Long: `Resolve loads a plot configuration with its includes and environment
overrides and prints every parameter's per-entity values, where each value
came from, and any diagnostics.

With --params only the overridden values are printed, in a form that can be
saved and loaded again.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := loader.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			req, err := ctx.loadRequest(args[0])
			if err != nil {
				return err
			}
			cfg := ctx.engine.Resolve(req)

			var tree any = cfg.Tree()
			if paramsOnly {
				tree = map[string]any{"params": cfg.Params()}
			}
			out, err := loader.Marshal(format, tree)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVarP(&formatFlag, "format", "f", string(loader.FormatJSON), "Output format (json, yaml, toml)")
	cmd.Flags().BoolVar(&paramsOnly, "params", false, "Print only overridden parameters")
	return cmd
}
