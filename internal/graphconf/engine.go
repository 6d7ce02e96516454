package graphconf

import (
	"log/slog"
	"sort"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/merge"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/shape"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/validate"
)

// RequestLayerName is the layer name NewRequest gives its parameters.
const RequestLayerName = "request"

// Engine runs the validate-and-merge pipeline.
type Engine struct {
	registry *schema.Registry
	logger   *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for per-call debug output.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRegistry replaces the built-in parameter registry.
func WithRegistry(r *schema.Registry) Option {
	return func(e *Engine) {
		if r != nil {
			e.registry = r
		}
	}
}

// New creates an engine over the built-in registry.
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: schema.Builtin(),
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the parameter registry the engine validates against.
func (e *Engine) Registry() *schema.Registry {
	return e.registry
}

// MaxEntities bounds the number of curves, and the number of subplots a
// layout may hold. Larger counts are reported and clamped.
const MaxEntities = 1 << 16

// Counts holds the number of entities of each kind.
type Counts struct {
	Curves   int `json:"curves" yaml:"curves" toml:"curves"`
	Axes     int `json:"axes" yaml:"axes" toml:"axes"`
	Subplots int `json:"subplots" yaml:"subplots" toml:"subplots"`
}

// For returns the entity count for kind. A figure always has one entity.
func (c Counts) For(kind schema.EntityKind) int {
	var n int
	switch kind {
	case schema.EntityCurve:
		n = c.Curves
	case schema.EntityAxis:
		n = c.Axes
	case schema.EntitySubplot:
		n = c.Subplots
	case schema.EntityFigure:
		return 1
	}
	return max(n, 0)
}

// CountsFor returns counts where only kind has n entities.
func CountsFor(kind schema.EntityKind, n int) Counts {
	var c Counts
	switch kind {
	case schema.EntityCurve:
		c.Curves = n
	case schema.EntityAxis:
		c.Axes = n
	case schema.EntitySubplot:
		c.Subplots = n
	}
	return c
}

// Layer is one named set of raw parameters. Later layers of a request take
// precedence over earlier ones within the same input form.
type Layer struct {
	Name   string
	Params map[string]any
}

// Request is the input of one validate-and-merge call.
type Request struct {
	Curves int
	Layout Layout
	Layers []Layer
}

// NewRequest builds a single-layer request.
func NewRequest(curves int, layout Layout, params map[string]any) Request {
	return Request{
		Curves: curves,
		Layout: layout,
		Layers: []Layer{{Name: RequestLayerName, Params: params}},
	}
}

// Resolve validates and merges req. The result always holds a table for
// every registered parameter; problems are listed in Diagnostics.
func (e *Engine) Resolve(req Request) *GraphConfig {
	report := &diag.Report{}
	cfg := e.resolve(req, report)
	cfg.Diagnostics = report.Items()
	e.logger.Debug("resolved graph config",
		"curves", cfg.Counts.Curves,
		"subplots", cfg.Counts.Subplots,
		"layers", len(req.Layers),
		"diagnostics", len(cfg.Diagnostics))
	return cfg
}

// Check validates params against counts and returns the diagnostics only.
func (e *Engine) Check(params map[string]any, counts Counts) []diag.Diagnostic {
	report := &diag.Report{}
	counts = boundCounts(counts, report)
	e.resolveTables([]Layer{{Name: RequestLayerName, Params: params}}, counts, report)
	e.logger.Debug("checked parameters",
		"parameters", len(params),
		"diagnostics", report.Len())
	return report.Items()
}

func (e *Engine) resolve(req Request, report *diag.Report) *GraphConfig {
	curves := req.Curves
	if curves < 0 {
		report.Add(diag.New(CurvesParameter, diag.RangeViolation, curves,
			"curve count %d must not be negative", curves))
		curves = 0
	}
	if curves > MaxEntities {
		report.Add(diag.New(CurvesParameter, diag.RangeViolation, curves,
			"curve count %d exceeds the limit of %d", curves, MaxEntities))
		curves = MaxEntities
	}

	layout := resolveLayout(req.Layout, curves, report)
	counts := Counts{
		Curves:   curves,
		Axes:     layout.Cells(),
		Subplots: layout.Cells(),
	}

	return &GraphConfig{
		Counts: counts,
		Layout: layout,
		Tables: e.resolveTables(req.Layers, counts, report),
	}
}

// boundCounts clamps explicit counts to MaxEntities. Curve counts are
// reported under "curves", axis and subplot counts under "layout".
func boundCounts(c Counts, report *diag.Report) Counts {
	bound := func(param, what string, n int) int {
		if n <= MaxEntities {
			return n
		}
		report.Add(diag.New(param, diag.RangeViolation, n,
			"%s count %d exceeds the limit of %d", what, n, MaxEntities))
		return MaxEntities
	}
	c.Curves = bound(CurvesParameter, "curve", c.Curves)
	c.Axes = bound(LayoutParameter, "axis", c.Axes)
	c.Subplots = bound(LayoutParameter, "subplot", c.Subplots)
	return c
}

// resolveTables runs every parameter through normalize, validate and merge.
// Parameters are processed in name order so diagnostics are deterministic.
func (e *Engine) resolveTables(layers []Layer, counts Counts, report *diag.Report) map[string]*merge.Table {
	names := make(map[string]struct{}, e.registry.Len())
	for _, name := range e.registry.Names() {
		names[name] = struct{}{}
	}
	for _, l := range layers {
		for name := range l.Params {
			names[name] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(names))
	for name := range names {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	tables := make(map[string]*merge.Table, e.registry.Len())
	for _, name := range sorted {
		spec, ok := e.registry.Lookup(name)
		if !ok {
			for _, l := range layers {
				if raw, present := l.Params[name]; present {
					report.Add(diag.NewUnknownParameter(name, raw))
				}
			}
			continue
		}

		count := counts.For(spec.Entity)
		var contributions []merge.Layer
		for _, l := range layers {
			raw, present := l.Params[name]
			if !present {
				continue
			}
			if ml, ok := buildLayer(spec, l.Name, raw, count, report); ok {
				contributions = append(contributions, ml)
			}
		}
		tables[name] = merge.Resolve(spec, count, contributions)
	}
	return tables
}

// buildLayer normalizes and validates one raw value. Entries that fail
// validation are reported and left out of the layer.
func buildLayer(spec *schema.ParameterSpec, name string, raw any, count int, report *diag.Report) (merge.Layer, bool) {
	n, d := shape.Normalize(spec, raw, count)
	if d != nil {
		report.Add(d)
		return merge.Layer{}, false
	}

	valid := make([]shape.Entry, 0, len(n.Entries))
	for _, entry := range n.Entries {
		v, d := validate.Check(spec, entry, count)
		if d != nil {
			report.Add(d)
			continue
		}
		entry.Value = v
		valid = append(valid, entry)
	}

	return merge.Layer{
		Name:  name,
		Form:  n.Form,
		Slots: shape.Expand(valid, count),
	}, true
}
