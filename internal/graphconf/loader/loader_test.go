package loader

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

// MemFS is an in-memory file system for testing.
type MemFS struct {
	files map[string][]byte
}

func NewMemFS() *MemFS {
	return &MemFS{files: make(map[string][]byte)}
}

func (m *MemFS) AddFile(path string, content string) {
	m.files[path] = []byte(content)
}

func (m *MemFS) Open(name string) (fs.File, error) {
	return nil, fs.ErrNotExist
}

func (m *MemFS) ReadFile(path string) ([]byte, error) {
	data, ok := m.files[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func (m *MemFS) Stat(path string) (fs.FileInfo, error) {
	if _, ok := m.files[path]; ok {
		return &memFileInfo{name: path}, nil
	}
	return nil, fs.ErrNotExist
}

type memFileInfo struct {
	name string
}

func (f *memFileInfo) Name() string       { return f.name }
func (f *memFileInfo) Size() int64        { return 0 }
func (f *memFileInfo) Mode() fs.FileMode  { return 0644 }
func (f *memFileInfo) ModTime() time.Time { return time.Now() }
func (f *memFileInfo) IsDir() bool        { return false }
func (f *memFileInfo) Sys() any           { return nil }

const plotTOML = `
include = ["style.toml"]

[layout]
rows = 1
cols = 2
distribution = [0, 1]

[params]
color = ["#123456", "#abcdef"]
axes_font_size = [[1, [16, 14]]]
axes_scaling = [[0, "divide", [0, 10, 5]]]

[[data]]
x = { values = [0.0, 1.0, 2.0] }
y = { values = [1.0, 2.0, 4.0], errors = [0.1, 0.1, 0.2] }

[[data]]
x = { values = [0.0, 1.0] }
y = { values = [3.0, 2.5] }
`

const styleTOML = `
[params]
ls = "--"
color = "#000000"
marker_size = [[0, 7]]
`

func TestLoader_LoadPlotTOML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/plots/plot.toml", plotTOML)
	memfs.AddFile("/plots/style.toml", styleTOML)

	plot, err := NewWithFS(memfs).LoadPlot("/plots/plot.toml")
	require.NoError(t, err)

	require.Len(t, plot.Curves, 2)
	assert.Equal(t, []float64{0.1, 0.1, 0.2}, plot.Curves[0].Y.Errors)
	assert.Equal(t, graphconf.Layout{Rows: 1, Cols: 2, Distribution: []int{0, 1}}, plot.Layout)

	require.Len(t, plot.Layers, 2)
	assert.Equal(t, "/plots/style.toml", plot.Layers[0].Name)
	assert.Equal(t, "/plots/plot.toml", plot.Layers[1].Name)

	cfg := graphconf.New().Resolve(plot.Request())
	require.True(t, cfg.OK(), cfg.Diagnostics)
	assert.Equal(t, []any{"#123456", "#abcdef"}, cfg.Tables[schema.Color].Values)
	assert.Equal(t, []any{"--", "--"}, cfg.Tables[schema.LineStyle].Values)
	assert.Equal(t, []any{7, 4}, cfg.Tables[schema.MarkerSize].Values)
	assert.Equal(t, []any{16, 14}, cfg.Value(schema.AxesFontSize, 1))
	assert.Equal(t, schema.ScalingDivide, cfg.Axis(0).Scaling.Mode)
}

func TestLoader_LoadRequestYAML(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/plot.yaml", `
curves: 3
params:
  color: [[2, "#ffffff"]]
  subplots_titles_font_size: [1, -1]
layout:
  rows: 2
  cols: 1
`)

	req, err := NewWithFS(memfs).LoadRequest("/plot.yaml")
	require.NoError(t, err)
	assert.Equal(t, 3, req.Curves)

	cfg := graphconf.New().Resolve(req)
	require.Len(t, cfg.Diagnostics, 1)
	assert.Equal(t, 1, cfg.Diagnostics[0].Index())
	assert.Equal(t, "#ffffff", cfg.Value(schema.Color, 2))
}

func TestLoader_LoadRequestJSON(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/plot.json", `{
  "curves": 2,
  "params": {
    "marker_size": [3, 2.5],
    "axes_font_size": [12, 12]
  }
}`)

	req, err := NewWithFS(memfs).LoadRequest("/plot.json")
	require.NoError(t, err)

	params := req.Layers[0].Params
	assert.Equal(t, []any{json.Number("3"), json.Number("2.5")}, params[schema.MarkerSize])

	cfg := graphconf.New().Resolve(req)
	require.Len(t, cfg.Diagnostics, 1)
	assert.Equal(t, 1, cfg.Diagnostics[0].Index())
	assert.Equal(t, []any{3, 4}, cfg.Tables[schema.MarkerSize].Values)
	assert.Equal(t, []any{12, 12}, cfg.Value(schema.AxesFontSize, 0))
}

func TestLoader_CurvesWithoutData(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/plot.toml", "curves = 3\n")

	plot, err := NewWithFS(memfs).LoadPlot("/plot.toml")
	require.NoError(t, err)
	assert.Len(t, plot.Curves, 3)
	assert.Empty(t, plot.Layers)
}

func TestDocument_Request(t *testing.T) {
	doc, err := Decode(FormatYAML, "body", []byte("curves: 2\nlayout: {rows: 1, cols: 2, distribution: [0, 1]}\nparams:\n  label: [a, b]\n"))
	require.NoError(t, err)

	req, err := doc.Request()
	require.NoError(t, err)
	assert.Equal(t, 2, req.Curves)
	assert.Equal(t, 2, req.Layout.Cols)
	require.Len(t, req.Layers, 1)
	assert.Equal(t, graphconf.RequestLayerName, req.Layers[0].Name)
	assert.Equal(t, []any{"a", "b"}, req.Layers[0].Params[schema.Label])

	two := 2
	bad := &Document{Curves: &two, Data: []graphconf.Curve{{}}}
	_, err = bad.Request()
	assert.ErrorIs(t, err, ErrCurveCount)

	huge := graphconf.MaxEntities + 1
	_, err = (&Document{Curves: &huge}).Request()
	assert.ErrorIs(t, err, ErrCurveCount)
}

func TestLoader_Errors(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/bad.toml", "[params\ncolor = 1\n")
	memfs.AddFile("/bad.json", "{\n  \"curves\": ,\n}")
	memfs.AddFile("/typo.yaml", "param:\n  color: \"#000000\"\n")
	memfs.AddFile("/mismatch.toml", "curves = 3\n[[data]]\nx = { values = [1.0] }\ny = { values = [1.0] }\n")
	memfs.AddFile("/a.toml", `include = ["b.toml"]`)
	memfs.AddFile("/b.toml", `include = ["a.toml"]`)
	memfs.AddFile("/missing-include.toml", `include = ["nope.toml"]`)
	l := NewWithFS(memfs)

	t.Run("toml syntax", func(t *testing.T) {
		_, err := l.Load("/bad.toml")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, "/bad.toml", pe.Path)
		assert.Positive(t, pe.Line)
	})

	t.Run("json syntax has position", func(t *testing.T) {
		_, err := l.Load("/bad.json")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, 2, pe.Line)
		assert.Contains(t, pe.Error(), "line 2")
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := l.Load("/typo.yaml")
		var pe *ParseError
		require.ErrorAs(t, err, &pe)
		assert.Contains(t, pe.Message, "param")
	})

	t.Run("curve count mismatch", func(t *testing.T) {
		_, err := l.LoadRequest("/mismatch.toml")
		assert.ErrorIs(t, err, ErrCurveCount)
	})

	t.Run("include cycle", func(t *testing.T) {
		_, err := l.LoadRequest("/a.toml")
		assert.ErrorIs(t, err, ErrIncludeCycle)
	})

	t.Run("missing include", func(t *testing.T) {
		_, err := l.LoadPlot("/missing-include.toml")
		assert.ErrorIs(t, err, fs.ErrNotExist)
		assert.Contains(t, err.Error(), "nope.toml")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := l.Load("/none.toml")
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := l.Load("/plot.ini")
		assert.ErrorIs(t, err, ErrUnsupportedFormat)
	})
}

func TestLoader_IncludeDepth(t *testing.T) {
	memfs := NewMemFS()
	memfs.AddFile("/a.toml", `include = ["b.toml"]`)
	memfs.AddFile("/b.toml", `include = ["c.toml"]`)
	memfs.AddFile("/c.toml", "[params]\nls = \":\"\n")

	l := NewWithFS(memfs)
	l.maxDepth = 2
	_, err := l.LoadRequest("/a.toml")
	assert.ErrorIs(t, err, ErrIncludeDepth)

	l.maxDepth = MaxIncludeDepth
	files, err := l.Files("/a.toml")
	require.NoError(t, err)
	assert.Equal(t, []string{"/c.toml", "/b.toml", "/a.toml"}, files)
}

func TestLoader_OSFS(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plot.yml")
	require.NoError(t, os.WriteFile(path, []byte("curves: 1\nparams:\n  ls: \":\"\n"), 0o644))

	req, err := New().LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, 1, req.Curves)
	assert.Equal(t, ":", req.Layers[0].Params[schema.LineStyle])
}

func TestFormat(t *testing.T) {
	for path, want := range map[string]Format{
		"a.toml": FormatTOML,
		"a.yaml": FormatYAML,
		"a.YML":  FormatYAML,
		"a.json": FormatJSON,
	} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("plot")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	_, err = ParseFormat("ini")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestMarshal(t *testing.T) {
	tree := map[string]any{
		"parameters": map[string]any{
			"axes_font_size": []any{[]any{16, 16}},
			"ls":             []any{"-", "--"},
		},
	}

	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			out, err := Marshal(f, tree)
			require.NoError(t, err)
			assert.Contains(t, string(out), "axes_font_size")
		})
	}

	_, err := Marshal("ini", tree)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestPosition(t *testing.T) {
	line, col := position([]byte("ab\ncd"), 4)
	assert.Equal(t, 2, line)
	assert.Equal(t, 2, col)

	line, _ = position([]byte("a"), 10)
	assert.Equal(t, 1, line)
}
