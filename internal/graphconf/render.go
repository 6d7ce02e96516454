package graphconf

import (
	"context"
	"errors"
	"fmt"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
)

// ErrNoRenderer is returned by Engine.Render when no renderer is given.
var ErrNoRenderer = errors.New("graphconf: no renderer")

// Series is one data series with optional per-point errors.
type Series struct {
	Values []float64 `json:"values" yaml:"values" toml:"values"`
	Errors []float64 `json:"errors,omitempty" yaml:"errors,omitempty" toml:"errors,omitempty"`
}

// Len returns the number of points.
func (s Series) Len() int {
	return len(s.Values)
}

// Curve is one x/y data set.
type Curve struct {
	X Series `json:"x" yaml:"x" toml:"x"`
	Y Series `json:"y" yaml:"y" toml:"y"`
}

// Plot is the data description and configuration of one render call.
type Plot struct {
	Curves []Curve
	Layout Layout
	Layers []Layer
}

// Request returns the validate-and-merge request of the plot.
func (p Plot) Request() Request {
	return Request{
		Curves: len(p.Curves),
		Layout: p.Layout,
		Layers: p.Layers,
	}
}

// CurveData is a curve with its resolved style.
type CurveData struct {
	Curve
	Style CurveStyle
}

// SubplotData is one subplot with its axes and curves.
type SubplotData struct {
	Style  SubplotStyle
	Axis   AxisStyle
	Curves []CurveData
}

// Figure is what a Renderer draws.
type Figure struct {
	Config   *GraphConfig
	Legend   LegendStyle
	Subplots []SubplotData
}

// Renderer draws a resolved figure.
type Renderer interface {
	Render(ctx context.Context, fig *Figure) error
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(ctx context.Context, fig *Figure) error

// Render calls f(ctx, fig).
func (f RendererFunc) Render(ctx context.Context, fig *Figure) error {
	return f(ctx, fig)
}

// Render validates the plot data, resolves its configuration and hands the
// figure to r. Curves whose series are inconsistent are reported and left
// out of the figure. The returned error is only set when rendering could
// not be attempted or the renderer failed; configuration problems are in
// the returned config's Diagnostics.
func (e *Engine) Render(ctx context.Context, r Renderer, plot Plot) (*GraphConfig, error) {
	if r == nil {
		return nil, ErrNoRenderer
	}

	report := &diag.Report{}
	cfg := e.resolve(plot.Request(), report)
	skip := checkCurves(plot.Curves, report)
	cfg.Diagnostics = report.Items()

	if err := ctx.Err(); err != nil {
		return cfg, err
	}

	fig := buildFigure(cfg, plot.Curves, skip)
	e.logger.Debug("rendering figure",
		"curves", len(plot.Curves),
		"skipped", len(skip),
		"subplots", len(fig.Subplots),
		"diagnostics", len(cfg.Diagnostics))

	if err := r.Render(ctx, fig); err != nil {
		return cfg, fmt.Errorf("render figure: %w", err)
	}
	return cfg, nil
}

// checkCurves reports curves whose x and y series differ in length or whose
// error series do not match their values.
func checkCurves(curves []Curve, report *diag.Report) map[int]bool {
	skip := make(map[int]bool)
	for i, c := range curves {
		switch {
		case c.X.Len() != c.Y.Len():
			report.Add(diag.NewAt(CurvesParameter, i, diag.ArityMismatch, nil,
				"x has %d points, y has %d", c.X.Len(), c.Y.Len()))
		case c.X.Errors != nil && len(c.X.Errors) != c.X.Len():
			report.Add(diag.NewAt(CurvesParameter, i, diag.ArityMismatch, nil,
				"x errors has %d points, x has %d", len(c.X.Errors), c.X.Len()))
		case c.Y.Errors != nil && len(c.Y.Errors) != c.Y.Len():
			report.Add(diag.NewAt(CurvesParameter, i, diag.ArityMismatch, nil,
				"y errors has %d points, y has %d", len(c.Y.Errors), c.Y.Len()))
		default:
			continue
		}
		skip[i] = true
	}
	return skip
}

func buildFigure(cfg *GraphConfig, curves []Curve, skip map[int]bool) *Figure {
	fig := &Figure{
		Config:   cfg,
		Legend:   cfg.Legend(),
		Subplots: make([]SubplotData, cfg.Counts.Subplots),
	}
	for i := range fig.Subplots {
		fig.Subplots[i] = SubplotData{
			Style: cfg.Subplot(i),
			Axis:  cfg.Axis(i),
		}
	}
	for i, c := range curves {
		if skip[i] {
			continue
		}
		style := cfg.Curve(i)
		sp := &fig.Subplots[style.Subplot]
		sp.Curves = append(sp.Curves, CurveData{Curve: c, Style: style})
	}
	return fig
}
