package graphconf

import (
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
)

// Pseudo-parameter names used for layout and curve data diagnostics.
const (
	LayoutParameter = "layout"
	CurvesParameter = "curves"
)

// Layout arranges subplots in a Rows x Cols grid and assigns each curve to
// a subplot. The zero Layout is one subplot holding every curve.
type Layout struct {
	Rows int `json:"rows" yaml:"rows" toml:"rows"`
	Cols int `json:"cols" yaml:"cols" toml:"cols"`

	// Distribution[i] is the subplot index of curve i.
	Distribution []int `json:"distribution,omitempty" yaml:"distribution,omitempty" toml:"distribution,omitempty"`
}

// DefaultLayout returns a single subplot layout.
func DefaultLayout() Layout {
	return Layout{Rows: 1, Cols: 1}
}

// Cells returns the number of subplots. Grids larger than MaxEntities
// report MaxEntities+1 rather than overflowing.
func (l Layout) Cells() int {
	if l.Rows < 1 || l.Cols < 1 {
		return 0
	}
	if l.Rows > MaxEntities/l.Cols {
		return MaxEntities + 1
	}
	return l.Rows * l.Cols
}

// SubplotOf returns the subplot index of curve, or 0 when curve is not
// distributed.
func (l Layout) SubplotOf(curve int) int {
	if curve < 0 || curve >= len(l.Distribution) {
		return 0
	}
	return l.Distribution[curve]
}

// CurvesIn returns the indices of the curves assigned to subplot.
func (l Layout) CurvesIn(subplot int) []int {
	var out []int
	for curve, s := range l.Distribution {
		if s == subplot {
			out = append(out, curve)
		}
	}
	return out
}

// resolveLayout returns a layout with a positive grid and one distribution
// entry per curve. Problems are reported and repaired: bad dimensions fall
// back to 1, grids over MaxEntities cells are shrunk, and curves without a
// valid subplot go to subplot 0. curves must already be within MaxEntities.
func resolveLayout(l Layout, curves int, report *diag.Report) Layout {
	out := Layout{Rows: l.Rows, Cols: l.Cols}
	if out.Rows == 0 && out.Cols == 0 {
		out = DefaultLayout()
	}
	if out.Rows < 1 {
		report.Add(diag.New(LayoutParameter, diag.RangeViolation, l.Rows,
			"rows %d must be at least 1", l.Rows))
		out.Rows = 1
	}
	if out.Cols < 1 {
		report.Add(diag.New(LayoutParameter, diag.RangeViolation, l.Cols,
			"cols %d must be at least 1", l.Cols))
		out.Cols = 1
	}
	if out.Cells() > MaxEntities {
		report.Add(diag.New(LayoutParameter, diag.RangeViolation, []any{l.Rows, l.Cols},
			"grid %dx%d exceeds the limit of %d subplots", out.Rows, out.Cols, MaxEntities))
		out.Cols = min(out.Cols, MaxEntities)
		out.Rows = min(out.Rows, MaxEntities/out.Cols)
	}

	out.Distribution = make([]int, curves)
	if l.Distribution == nil {
		return out
	}

	if len(l.Distribution) != curves {
		report.Add(diag.New(LayoutParameter, diag.ArityMismatch, l.Distribution,
			"distribution has %d entries for %d curves", len(l.Distribution), curves))
	}

	cells := out.Cells()
	for curve := 0; curve < curves && curve < len(l.Distribution); curve++ {
		s := l.Distribution[curve]
		if s < 0 || s >= cells {
			report.Add(diag.NewAt(LayoutParameter, curve, diag.EntityIndexOutOfRange, s,
				"curve %d is assigned to subplot %d, outside [0, %d)", curve, s, cells))
			continue
		}
		out.Distribution[curve] = s
	}
	return out
}
