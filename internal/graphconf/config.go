package graphconf

import (
	"fmt"
	"sort"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/merge"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

// GraphConfig is the result of one validate-and-merge call.
type GraphConfig struct {
	Counts      Counts
	Layout      Layout
	Tables      map[string]*merge.Table
	Diagnostics []diag.Diagnostic
}

// OK reports whether the call produced no diagnostics.
func (g *GraphConfig) OK() bool {
	return len(g.Diagnostics) == 0
}

// Err returns the diagnostics as an error, or nil when there are none.
func (g *GraphConfig) Err() error {
	if g.OK() {
		return nil
	}
	report := &diag.Report{}
	for i := range g.Diagnostics {
		report.Add(&g.Diagnostics[i])
	}
	return report
}

// Names returns the resolved parameter names in sorted order.
func (g *GraphConfig) Names() []string {
	names := make([]string, 0, len(g.Tables))
	for name := range g.Tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table returns the resolved table of a parameter.
func (g *GraphConfig) Table(name string) (*merge.Table, bool) {
	t, ok := g.Tables[name]
	return t, ok
}

// Value returns the resolved value of parameter name for entity i, or nil.
func (g *GraphConfig) Value(name string, i int) any {
	t, ok := g.Tables[name]
	if !ok {
		return nil
	}
	return t.At(i)
}

// CurveStyle is the resolved style of one curve.
type CurveStyle struct {
	Index      int
	Subplot    int
	Color      string
	LineStyle  string
	Marker     string
	MarkerSize int
	Label      string
}

// RGB parses Color.
func (c CurveStyle) RGB() (colorful.Color, error) {
	col, err := colorful.Hex(c.Color)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("curve %d color %q: %w", c.Index, c.Color, err)
	}
	return col, nil
}

// Curve returns the resolved style of curve i.
func (g *GraphConfig) Curve(i int) CurveStyle {
	return CurveStyle{
		Index:      i,
		Subplot:    g.Layout.SubplotOf(i),
		Color:      g.stringAt(schema.Color, i),
		LineStyle:  g.stringAt(schema.LineStyle, i),
		Marker:     g.stringAt(schema.MarkerShape, i),
		MarkerSize: g.intAt(schema.MarkerSize, i),
		Label:      g.stringAt(schema.Label, i),
	}
}

// Range is one [start, stop, count] tick range of a scaling rule.
type Range struct {
	Start float64
	Stop  float64
	Count int
}

// Ticks returns Count evenly spaced values from Start to Stop inclusive.
func (r Range) Ticks() []float64 {
	if r.Count < 1 {
		return nil
	}
	if r.Count == 1 {
		return []float64{r.Start}
	}
	step := (r.Stop - r.Start) / float64(r.Count-1)
	out := make([]float64, r.Count)
	for i := range out {
		out[i] = r.Start + step*float64(i)
	}
	out[r.Count-1] = r.Stop
	return out
}

// ScalingRule is the resolved axes_scaling of one axis.
type ScalingRule struct {
	Mode   string
	Ranges []Range
}

// Ticks returns the ticks of every range in order.
func (s ScalingRule) Ticks() []float64 {
	var out []float64
	for _, r := range s.Ranges {
		out = append(out, r.Ticks()...)
	}
	return out
}

// AxisStyle is the resolved style of one subplot's axes. Pair values are
// indexed 0 for x and 1 for y.
type AxisStyle struct {
	Index         int
	FontSize      [2]int
	SmallTicks    [2]int
	RoundAccuracy [2]string
	Logarithmic   [2]bool
	Titles        [2]string
	Scaling       ScalingRule
}

// Axis returns the resolved axis style of subplot i.
func (g *GraphConfig) Axis(i int) AxisStyle {
	a := AxisStyle{Index: i, Scaling: g.scalingAt(schema.AxesScaling, i)}
	pair := func(name string) []any {
		seq, _ := g.Value(name, i).([]any)
		if len(seq) != 2 {
			return []any{nil, nil}
		}
		return seq
	}
	for k := 0; k < 2; k++ {
		a.FontSize[k], _ = pair(schema.AxesFontSize)[k].(int)
		a.SmallTicks[k], _ = pair(schema.AxesSmallTicks)[k].(int)
		a.RoundAccuracy[k], _ = pair(schema.AxesRoundAccuracy)[k].(string)
		a.Logarithmic[k], _ = pair(schema.LogarithmicScaling)[k].(bool)
		a.Titles[k], _ = pair(schema.AxesTitles)[k].(string)
	}
	return a
}

// SubplotStyle is the resolved style of one subplot.
type SubplotStyle struct {
	Index         int
	Title         string
	TitleFontSize int
	Curves        []int
}

// Subplot returns the resolved style of subplot i.
func (g *GraphConfig) Subplot(i int) SubplotStyle {
	return SubplotStyle{
		Index:         i,
		Title:         g.stringAt(schema.SubplotsTitles, i),
		TitleFontSize: g.intAt(schema.SubplotsTitlesFontSize, i),
		Curves:        g.Layout.CurvesIn(i),
	}
}

// LegendStyle holds figure-wide legend settings.
type LegendStyle struct {
	FontSize int
}

// Legend returns the figure legend style.
func (g *GraphConfig) Legend() LegendStyle {
	return LegendStyle{FontSize: g.intAt(schema.LegendFontSize, 0)}
}

func (g *GraphConfig) stringAt(name string, i int) string {
	s, _ := g.Value(name, i).(string)
	return s
}

func (g *GraphConfig) intAt(name string, i int) int {
	n, _ := g.Value(name, i).(int)
	return n
}

func (g *GraphConfig) scalingAt(name string, i int) ScalingRule {
	m, ok := g.Value(name, i).(map[string]any)
	if !ok {
		return ScalingRule{Mode: schema.ScalingNone}
	}
	rule := ScalingRule{}
	rule.Mode, _ = m["mode"].(string)
	ranges, _ := m["ranges"].([]any)
	for _, r := range ranges {
		triplet, ok := r.([]any)
		if !ok || len(triplet) != 3 {
			continue
		}
		var rg Range
		rg.Start, _ = triplet[0].(float64)
		rg.Stop, _ = triplet[1].(float64)
		rg.Count, _ = triplet[2].(int)
		rule.Ranges = append(rule.Ranges, rg)
	}
	return rule
}
