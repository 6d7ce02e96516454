// Package loader reads plot request documents from TOML, YAML or JSON files.
//
// A document may list base files under "include"; their parameters become
// lower-precedence layers of the request, applied before the including file.
//
//	include = ["style.toml"]
//	curves = 2
//
//	[layout]
//	rows = 1
//	cols = 2
//	distribution = [0, 1]
//
//	[params]
//	color = ["#1f77b4", "#d62728"]
//	axes_font_size = [[1, [16, 16]]]
package loader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
)

// MaxIncludeDepth limits nested includes.
const MaxIncludeDepth = 8

var (
	// ErrIncludeDepth is returned when includes nest deeper than the limit.
	ErrIncludeDepth = errors.New("include depth exceeded")

	// ErrIncludeCycle is returned when a file includes itself.
	ErrIncludeCycle = errors.New("include cycle")

	// ErrCurveCount is returned when "curves" disagrees with the data.
	ErrCurveCount = errors.New("curve count does not match data")
)

// Document is one decoded request file.
type Document struct {
	Include []string          `json:"include,omitempty" yaml:"include,omitempty" toml:"include,omitempty"`
	Curves  *int              `json:"curves,omitempty" yaml:"curves,omitempty" toml:"curves,omitempty"`
	Layout  *graphconf.Layout `json:"layout,omitempty" yaml:"layout,omitempty" toml:"layout,omitempty"`
	Params  map[string]any    `json:"params,omitempty" yaml:"params,omitempty" toml:"params,omitempty"`
	Data    []graphconf.Curve `json:"data,omitempty" yaml:"data,omitempty" toml:"data,omitempty"`
}

// CurveCount returns the number of curves the document describes.
func (d *Document) CurveCount() (int, error) {
	switch {
	case len(d.Data) > 0 && d.Curves != nil && *d.Curves != len(d.Data):
		return 0, fmt.Errorf("%w: curves = %d, data has %d", ErrCurveCount, *d.Curves, len(d.Data))
	case len(d.Data) > 0:
		return len(d.Data), nil
	case d.Curves != nil && *d.Curves > graphconf.MaxEntities:
		return 0, fmt.Errorf("%w: curves = %d exceeds the limit of %d", ErrCurveCount, *d.Curves, graphconf.MaxEntities)
	case d.Curves != nil:
		return *d.Curves, nil
	default:
		return 0, nil
	}
}

// Request builds a single-layer request from the document alone,
// ignoring includes.
func (d *Document) Request() (graphconf.Request, error) {
	curves, err := d.CurveCount()
	if err != nil {
		return graphconf.Request{}, err
	}
	return graphconf.NewRequest(curves, layoutOf(d), d.Params), nil
}

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	fs.FS
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
	// Stat returns file info for path.
	Stat(path string) (fs.FileInfo, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// Open implements fs.FS.
func (OSFS) Open(name string) (fs.File, error) {
	return os.Open(name)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Stat returns file info for path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// Loader loads request documents and their includes.
type Loader struct {
	fs       FileSystem
	maxDepth int
}

// New creates a loader over the OS file system.
func New() *Loader {
	return NewWithFS(OSFS{})
}

// NewWithFS creates a loader with a custom file system.
func NewWithFS(fsys FileSystem) *Loader {
	return &Loader{fs: fsys, maxDepth: MaxIncludeDepth}
}

// Load reads and decodes a single document without following includes.
func (l *Loader) Load(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := l.fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Decode(format, path, data)
}

// LoadRequest loads path and its includes as a validate-and-merge request.
func (l *Loader) LoadRequest(path string) (graphconf.Request, error) {
	doc, layers, _, err := l.loadAll(path)
	if err != nil {
		return graphconf.Request{}, err
	}
	curves, err := doc.CurveCount()
	if err != nil {
		return graphconf.Request{}, fmt.Errorf("%s: %w", path, err)
	}
	return graphconf.Request{
		Curves: curves,
		Layout: layoutOf(doc),
		Layers: layers,
	}, nil
}

// LoadPlot loads path and its includes as a render request. A document
// that gives a curve count without data yields that many empty curves.
func (l *Loader) LoadPlot(path string) (graphconf.Plot, error) {
	doc, layers, _, err := l.loadAll(path)
	if err != nil {
		return graphconf.Plot{}, err
	}
	curves, err := doc.CurveCount()
	if err != nil {
		return graphconf.Plot{}, fmt.Errorf("%s: %w", path, err)
	}

	data := doc.Data
	if len(data) == 0 && curves > 0 {
		data = make([]graphconf.Curve, curves)
	}
	return graphconf.Plot{
		Curves: data,
		Layout: layoutOf(doc),
		Layers: layers,
	}, nil
}

// Files returns path and every file it includes, includes first.
func (l *Loader) Files(path string) ([]string, error) {
	_, _, files, err := l.loadAll(path)
	return files, err
}

func layoutOf(doc *Document) graphconf.Layout {
	if doc.Layout == nil {
		return graphconf.Layout{}
	}
	return *doc.Layout
}

// loadAll returns the top document, the parameter layers of it and its
// includes in precedence order, and every file read.
func (l *Loader) loadAll(path string) (*Document, []graphconf.Layer, []string, error) {
	var layers []graphconf.Layer
	var files []string
	doc, err := l.loadWithIncludes(path, l.maxDepth, map[string]bool{}, &layers, &files)
	if err != nil {
		return nil, nil, nil, err
	}
	return doc, layers, files, nil
}

func (l *Loader) loadWithIncludes(path string, depth int, stack map[string]bool, layers *[]graphconf.Layer, files *[]string) (*Document, error) {
	if depth <= 0 {
		return nil, fmt.Errorf("%w for %s", ErrIncludeDepth, path)
	}
	clean := filepath.Clean(path)
	if stack[clean] {
		return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, clean)
	}
	stack[clean] = true
	defer delete(stack, clean)

	doc, err := l.Load(clean)
	if err != nil {
		return nil, err
	}

	baseDir := filepath.Dir(clean)
	for _, inc := range doc.Include {
		incPath := inc
		if !filepath.IsAbs(inc) {
			incPath = filepath.Join(baseDir, inc)
		}
		if _, err := l.loadWithIncludes(incPath, depth-1, stack, layers, files); err != nil {
			return nil, fmt.Errorf("loading include %s: %w", incPath, err)
		}
	}

	*files = append(*files, clean)
	if len(doc.Params) > 0 {
		*layers = append(*layers, graphconf.Layer{Name: clean, Params: doc.Params})
	}
	return doc, nil
}
