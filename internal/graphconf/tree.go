package graphconf

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

// Tree returns the config as nested maps and slices of strings, numbers,
// booleans and nil only. It is the form handed to serializers.
func (g *GraphConfig) Tree() map[string]any {
	params := make(map[string]any, len(g.Tables))
	sources := make(map[string]any, len(g.Tables))
	for name, t := range g.Tables {
		values := make([]any, len(t.Values))
		for i, v := range t.Values {
			values[i] = primitive(v)
		}
		params[name] = values

		src := make([]any, len(t.Sources))
		for i, s := range t.Sources {
			src[i] = s.String()
		}
		sources[name] = src
	}

	diagnostics := make([]any, len(g.Diagnostics))
	for i, d := range g.Diagnostics {
		m := map[string]any{
			"parameter": d.Parameter,
			"code":      string(d.Code),
			"message":   d.Message,
		}
		if d.Entity != nil {
			m["entity"] = *d.Entity
		}
		if d.Value != nil {
			m["value"] = primitive(d.Value)
		}
		diagnostics[i] = m
	}

	distribution := make([]any, len(g.Layout.Distribution))
	for i, s := range g.Layout.Distribution {
		distribution[i] = s
	}

	return map[string]any{
		"counts": map[string]any{
			"curves":   g.Counts.Curves,
			"axes":     g.Counts.Axes,
			"subplots": g.Counts.Subplots,
		},
		"layout": map[string]any{
			"rows":         g.Layout.Rows,
			"cols":         g.Layout.Cols,
			"distribution": distribution,
		},
		"parameters":  params,
		"sources":     sources,
		"diagnostics": diagnostics,
	}
}

// Params returns a parameter mapping that resolves back to the same tables
// for the same curve count and layout. Overridden entities are written in
// sparse form; parameters left at their defaults are omitted.
func (g *GraphConfig) Params() map[string]any {
	out := make(map[string]any)
	for name, t := range g.Tables {
		var entries []any
		for i, v := range t.Values {
			if !t.Overridden(i) {
				continue
			}
			entries = append(entries, []any{i, schema.Clone(v)})
		}
		if len(entries) == 0 {
			continue
		}
		if t.Entity == schema.EntityFigure {
			out[name] = schema.Clone(t.Values[0])
			continue
		}
		out[name] = entries
	}
	return out
}

// primitive converts v to a tree of string, bool, int, float64, nil,
// []any and map[string]any. Non-finite floats become strings so every
// serializer can encode the tree.
func primitive(v any) any {
	switch val := v.(type) {
	case nil, string, bool, int:
		return val
	case float64:
		return finite(val)
	case json.Number:
		if !strings.ContainsAny(val.String(), ".eE") {
			if n, err := val.Int64(); err == nil {
				return int(n)
			}
		}
		if f, err := val.Float64(); err == nil {
			return finite(f)
		}
		return val.String()
	}

	if n, ok := schema.AsInt(v); ok {
		return n
	}
	if f, ok := schema.AsFloat(v); ok {
		return finite(f)
	}
	if m, ok := schema.AsMap(v); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = primitive(item)
		}
		return out
	}
	if seq, ok := schema.AsSequence(v); ok {
		out := make([]any, len(seq))
		for i, item := range seq {
			out[i] = primitive(item)
		}
		return out
	}
	return fmt.Sprint(v)
}

func finite(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}
