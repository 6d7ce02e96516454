package loader

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
)

// DefaultEnvPrefix is the prefix of parameter environment variables.
const DefaultEnvPrefix = "ZAVLAB_PARAM_"

// EnvLayerName names the layer built from the environment.
const EnvLayerName = "environment"

// EnvLoader reads parameter overrides from environment variables.
// ZAVLAB_PARAM_AXES_FONT_SIZE='[16, 16]' sets "axes_font_size".
type EnvLoader struct {
	prefix  string
	environ func() []string
}

// NewEnvLoader creates a loader for variables starting with prefix.
func NewEnvLoader(prefix string) *EnvLoader {
	return &EnvLoader{prefix: prefix, environ: os.Environ}
}

// Load returns the parameter layer, or false when no variable is set.
func (l *EnvLoader) Load() (graphconf.Layer, bool) {
	params := make(map[string]any)
	for _, env := range l.environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(name, l.prefix) {
			continue
		}
		param := strings.ToLower(strings.TrimPrefix(name, l.prefix))
		if param == "" {
			continue
		}
		params[param] = parseValue(value)
	}
	if len(params) == 0 {
		return graphconf.Layer{}, false
	}
	return graphconf.Layer{Name: EnvLayerName, Params: params}, true
}

// parseValue decodes s as JSON, falling back to the raw string.
func parseValue(s string) any {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil || dec.More() {
		return s
	}
	return v
}
