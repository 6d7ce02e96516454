package shape

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

func spec(t *testing.T, name string) *schema.ParameterSpec {
	t.Helper()
	s, ok := schema.Builtin().Lookup(name)
	require.True(t, ok, name)
	return s
}

func TestNormalize_Forms(t *testing.T) {
	tests := []struct {
		name    string
		param   string
		raw     any
		count   int
		form    Form
		entries []Entry
	}{
		{
			name:    "scalar uniform",
			param:   schema.Color,
			raw:     "#123456",
			count:   3,
			form:    FormUniform,
			entries: []Entry{{Value: "#123456", Uniform: true}},
		},
		{
			name:    "scalar positional",
			param:   schema.LineStyle,
			raw:     []any{"-", "--"},
			count:   2,
			form:    FormPositional,
			entries: []Entry{{Index: 0, Value: "-"}, {Index: 1, Value: "--"}},
		},
		{
			name:    "typed slice positional",
			param:   schema.SubplotsTitlesFontSize,
			raw:     []int{1, -1},
			count:   2,
			form:    FormPositional,
			entries: []Entry{{Index: 0, Value: 1}, {Index: 1, Value: -1}},
		},
		{
			name:    "scalar sparse",
			param:   schema.Color,
			raw:     []any{[]any{2, "#ffffff"}, []any{0, "#000000"}},
			count:   3,
			form:    FormSparse,
			entries: []Entry{{Index: 2, Value: "#ffffff"}, {Index: 0, Value: "#000000"}},
		},
		{
			name:    "sparse with json index",
			param:   schema.Color,
			raw:     []any{[]any{json.Number("1"), "#ffffff"}},
			count:   3,
			form:    FormSparse,
			entries: []Entry{{Index: 1, Value: "#ffffff"}},
		},
		{
			name:    "sparse out of range kept for validator",
			param:   schema.Color,
			raw:     []any{[]any{7, "#ffffff"}},
			count:   1,
			form:    FormSparse,
			entries: []Entry{{Index: 7, Value: "#ffffff"}},
		},
		{
			name:    "pair uniform",
			param:   schema.AxesFontSize,
			raw:     []any{16, 16},
			count:   4,
			form:    FormUniform,
			entries: []Entry{{Value: []any{16, 16}, Uniform: true}},
		},
		{
			name:    "pair scalar is uniform for arity check",
			param:   schema.AxesFontSize,
			raw:     16,
			count:   4,
			form:    FormUniform,
			entries: []Entry{{Value: 16, Uniform: true}},
		},
		{
			name:    "pair wrong arity stays uniform",
			param:   schema.AxesFontSize,
			raw:     []any{16, 16, 16},
			count:   3,
			form:    FormUniform,
			entries: []Entry{{Value: []any{16, 16, 16}, Uniform: true}},
		},
		{
			name:    "pair sparse nested value",
			param:   schema.AxesFontSize,
			raw:     []any{[]any{0, []any{16, 16}}},
			count:   2,
			form:    FormSparse,
			entries: []Entry{{Index: 0, Value: []any{16, 16}}},
		},
		{
			name:    "pair sparse unpacked value",
			param:   schema.AxesFontSize,
			raw:     []any{[]any{1, 14, 12}},
			count:   3,
			form:    FormSparse,
			entries: []Entry{{Index: 1, Value: []any{14, 12}}},
		},
		{
			name:    "pair positional",
			param:   schema.AxesFontSize,
			raw:     []any{[]any{16, 16}, []any{12, 10}},
			count:   2,
			form:    FormPositional,
			entries: []Entry{{Index: 0, Value: []any{16, 16}}, {Index: 1, Value: []any{12, 10}}},
		},
		{
			name:    "pair ambiguous prefers sparse",
			param:   schema.AxesSmallTicks,
			raw:     []any{[]any{0, 3}, []any{1, 4}},
			count:   2,
			form:    FormSparse,
			entries: []Entry{{Index: 0, Value: 3}, {Index: 1, Value: 4}},
		},
		{
			name:    "pair sparse scalar value",
			param:   schema.AxesFontSize,
			raw:     []any{[]any{1, "aad"}},
			count:   3,
			form:    FormSparse,
			entries: []Entry{{Index: 1, Value: "aad"}},
		},
		{
			name:    "pair invalid leading index falls back to positional",
			param:   schema.AxesFontSize,
			raw:     []any{[]any{1, "aad"}},
			count:   1,
			form:    FormPositional,
			entries: []Entry{{Index: 0, Value: []any{1, "aad"}}},
		},
		{
			name:    "pair nested value out of range stays sparse",
			param:   schema.AxesFontSize,
			raw:     []any{[]any{1, []any{16, 16}}},
			count:   1,
			form:    FormSparse,
			entries: []Entry{{Index: 1, Value: []any{16, 16}}},
		},
		{
			name:    "pair bool positional",
			param:   schema.LogarithmicScaling,
			raw:     []any{[]any{true, false}, []any{false, true}},
			count:   2,
			form:    FormPositional,
			entries: []Entry{{Index: 0, Value: []any{true, false}}, {Index: 1, Value: []any{false, true}}},
		},
		{
			name:    "scaling mode string",
			param:   schema.AxesScaling,
			raw:     "none",
			count:   2,
			form:    FormUniform,
			entries: []Entry{{Value: "none", Uniform: true}},
		},
		{
			name:    "scaling sequence",
			param:   schema.AxesScaling,
			raw:     []any{"divide", []any{0, 10, 5}},
			count:   1,
			form:    FormUniform,
			entries: []Entry{{Value: []any{"divide", []any{0, 10, 5}}, Uniform: true}},
		},
		{
			name:    "scaling positional",
			param:   schema.AxesScaling,
			raw:     []any{"none", []any{"multiply", []any{0, 1, 2}}},
			count:   2,
			form:    FormPositional,
			entries: []Entry{{Index: 0, Value: "none"}, {Index: 1, Value: []any{"multiply", []any{0, 1, 2}}}},
		},
		{
			name:    "scaling sparse",
			param:   schema.AxesScaling,
			raw:     []any{[]any{1, "divide", []any{0, 10, 5}}},
			count:   2,
			form:    FormSparse,
			entries: []Entry{{Index: 1, Value: []any{"divide", []any{0, 10, 5}}}},
		},
		{
			name:  "empty list overrides nothing",
			param: schema.Color,
			raw:   []any{},
			count: 3,
			form:  FormSparse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, d := Normalize(spec(t, tt.param), tt.raw, tt.count)
			require.Nil(t, d)
			assert.Equal(t, tt.form, n.Form)
			assert.Equal(t, tt.entries, n.Entries)
		})
	}
}

func TestNormalize_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		param string
		raw   any
		count int
	}{
		{"nil", schema.Color, nil, 2},
		{"wrong length", schema.SubplotsTitlesFontSize, []any{1, -1}, 3},
		{"mixed sparse", schema.Color, []any{[]any{0, "#000000"}, "#ffffff"}, 3},
		{"float index", schema.Color, []any{[]any{1.0, "#000000"}}, 3},
		{"short entry", schema.Color, []any{[]any{1}}, 3},
		{"pair mixed", schema.AxesFontSize, []any{[]any{16, 16}, 12}, 2},
		{"scaling numbers", schema.AxesScaling, []any{1, 2, 3}, 2},
		{"figure positional", schema.LegendFontSize, []any{12}, 1},
		{"figure sparse", schema.LegendFontSize, []any{[]any{0, 12}}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, d := Normalize(spec(t, tt.param), tt.raw, tt.count)
			require.NotNil(t, d)
			assert.Equal(t, diag.MalformedShape, d.Code)
			assert.Equal(t, tt.param, d.Parameter)
			assert.Nil(t, d.Entity)
		})
	}
}

func TestExpand(t *testing.T) {
	t.Run("uniform covers every entity", func(t *testing.T) {
		slots := Expand([]Entry{{Value: "x", Uniform: true}}, 3)
		require.Len(t, slots, 3)
		for _, s := range slots {
			assert.Equal(t, Slot{Value: "x", Set: true}, s)
		}
	})

	t.Run("sparse leaves defaults and last wins", func(t *testing.T) {
		slots := Expand([]Entry{
			{Index: 1, Value: "a"},
			{Index: 5, Value: "ignored"},
			{Index: -1, Value: "ignored"},
			{Index: 1, Value: "b"},
		}, 3)
		assert.Equal(t, []Slot{{}, {Value: "b", Set: true}, {}}, slots)
	})

	t.Run("zero entities", func(t *testing.T) {
		assert.Empty(t, Expand([]Entry{{Value: "x", Uniform: true}}, 0))
	})
}

func TestForm_String(t *testing.T) {
	assert.Equal(t, "uniform", FormUniform.String())
	assert.Equal(t, "positional", FormPositional.String())
	assert.Equal(t, "sparse", FormSparse.String())
	assert.Equal(t, "unknown", Form(9).String())
}
