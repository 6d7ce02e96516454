// Package graphconf is the validate-and-merge engine for plot configuration.
//
// A Request carries the number of curves, the subplot layout and one or more
// layers of raw parameters. Engine.Resolve classifies every raw value
// (shape), validates each entity's entry (validate), merges the surviving
// entries over the spec defaults (merge) and returns a GraphConfig holding
// one dense table per parameter plus every diagnostic found. Nothing in the
// pipeline is fatal: a bad entry keeps its lower-precedence value and the
// problem is reported as data.
//
// Basic usage:
//
//	eng := graphconf.New()
//	cfg := eng.Resolve(graphconf.NewRequest(2, graphconf.Layout{}, map[string]any{
//		"color":          []any{"#123456", "#abcdef"},
//		"axes_font_size": []any{[]any{0, []any{16, 16}}},
//	}))
//	if !cfg.OK() {
//		for _, d := range cfg.Diagnostics {
//			fmt.Println(d)
//		}
//	}
//
// The engine keeps no state between calls and is safe for concurrent use.
package graphconf
