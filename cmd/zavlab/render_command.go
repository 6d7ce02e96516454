package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/logging"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Preview how each subplot and curve will be drawn",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			plot, err := ctx.loadPlot(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			r := &summaryRenderer{w: out, color: logging.IsTerminal(out)}
			cfg, err := ctx.engine.Render(cmd.Context(), r, plot)
			if err != nil {
				return err
			}
			if !cfg.OK() {
				fmt.Fprintln(out, diagnosticsTable(cfg.Diagnostics))
				if strict {
					return errDiagnostics
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when there are diagnostics")
	return cmd
}

// summaryRenderer writes a text preview of a figure, one table per subplot.
type summaryRenderer struct {
	w     io.Writer
	color bool
}

func (r *summaryRenderer) Render(ctx context.Context, fig *graphconf.Figure) error {
	for _, sp := range fig.Subplots {
		if err := ctx.Err(); err != nil {
			return err
		}

		rows := make([][]string, 0, len(sp.Curves))
		for _, c := range sp.Curves {
			swatch, err := r.swatch(c.Style)
			if err != nil {
				return err
			}
			rows = append(rows, []string{
				strconv.Itoa(c.Style.Index),
				c.Style.Label,
				swatch,
				c.Style.LineStyle,
				c.Style.Marker,
				strconv.Itoa(c.Style.MarkerSize),
				strconv.Itoa(c.Y.Len()),
			})
		}

		title := fmt.Sprintf("Subplot %d", sp.Style.Index)
		if sp.Style.Title != "" {
			title += ": " + sp.Style.Title
		}
		fmt.Fprintln(r.w, renderTable(title,
			[]string{"Curve", "Label", "Color", "Line", "Marker", "Size", "Points"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight}))
		fmt.Fprintln(r.w, describeAxes(sp.Axis))
	}
	fmt.Fprintf(r.w, "legend font size %d\n", fig.Legend.FontSize)
	return nil
}

// swatch returns the curve color, prefixed by a true-color block on terminals.
func (r *summaryRenderer) swatch(style graphconf.CurveStyle) (string, error) {
	col, err := style.RGB()
	if err != nil {
		return "", err
	}
	if !r.color {
		return style.Color, nil
	}
	red, green, blue := col.RGB255()
	return fmt.Sprintf("\x1b[48;2;%d;%d;%dm  \x1b[0m %s", red, green, blue, style.Color), nil
}

func describeAxes(a graphconf.AxisStyle) string {
	var b strings.Builder
	for k, name := range []string{"x", "y"} {
		fmt.Fprintf(&b, "  %s: %q font %d, %d minor ticks, %s", name, a.Titles[k], a.FontSize[k], a.SmallTicks[k], a.RoundAccuracy[k])
		if a.Logarithmic[k] {
			b.WriteString(", log")
		}
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "  scaling: %s", a.Scaling.Mode)
	if ticks := a.Scaling.Ticks(); len(ticks) > 0 {
		fmt.Fprintf(&b, " %v", ticks)
	}
	return b.String()
}
