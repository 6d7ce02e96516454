package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
)

func newCheckCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Validate a plot configuration and list its diagnostics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := ctx.loadRequest(args[0])
			if err != nil {
				return err
			}
			cfg := ctx.engine.Resolve(req)

			if jsonOutput {
				if err := writeJSON(cmd, checkResult{OK: cfg.OK(), Counts: cfg.Counts, Diagnostics: cfg.Diagnostics}); err != nil {
					return err
				}
			} else {
				printCheck(cmd.OutOrStdout(), cfg)
			}
			if !cfg.OK() {
				return errDiagnostics
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write the result as JSON")
	return cmd
}

type checkResult struct {
	OK          bool              `json:"ok"`
	Counts      graphconf.Counts  `json:"counts"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

// printCheck writes a one-line summary followed by a diagnostics table.
func printCheck(w io.Writer, cfg *graphconf.GraphConfig) {
	if cfg.OK() {
		fmt.Fprintf(w, "Configuration valid: %d curves, %d subplots\n", cfg.Counts.Curves, cfg.Counts.Subplots)
		return
	}
	fmt.Fprintf(w, "Configuration has %d diagnostics\n", len(cfg.Diagnostics))
	fmt.Fprintln(w, diagnosticsTable(cfg.Diagnostics))
}

func diagnosticsTable(diags []diag.Diagnostic) string {
	rows := make([][]string, 0, len(diags))
	for _, d := range diags {
		entity := "-"
		if d.HasEntity() {
			entity = strconv.Itoa(d.Index())
		}
		rows = append(rows, []string{d.Parameter, entity, string(d.Code), d.Message})
	}
	return renderTable("Diagnostics",
		[]string{"Parameter", "Entity", "Code", "Message"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft})
}
