package server

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

func newTestServer(t *testing.T) (*Server, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	return New(graphconf.New(), logger), &logs
}

func do(t *testing.T, s *Server, method, target, contentType, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func TestHealth(t *testing.T) {
	s, logs := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/health", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), `"path":"/health"`)
	assert.Contains(t, logs.String(), `"status":200`)
}

func TestRequestIDEchoed(t *testing.T) {
	s, logs := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	assert.Contains(t, logs.String(), `"request_id":"req-42"`)
}

func TestParameters(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v1/parameters", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Parameters []ParameterInfo `json:"parameters"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Parameters, schema.Builtin().Len())
	assert.Equal(t, schema.Builtin().Sorted()[0], body.Parameters[0].Name)

	t.Run("single", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/parameters/"+schema.LineStyle, "", "")
		require.Equal(t, http.StatusOK, rec.Code)

		var info ParameterInfo
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
		assert.Equal(t, schema.LineStyle, info.Name)
		assert.Equal(t, "curve", info.Entity)
		assert.True(t, info.PerEntity)
		assert.ElementsMatch(t, schema.LineStyles, info.Enum)
	})

	t.Run("unknown", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/parameters/bogus", "", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
		env := decodeError(t, rec)
		assert.Equal(t, "unknown_parameter", env.Error.Code)
		assert.NotEmpty(t, env.Error.RequestID)
	})
}

func TestCheck(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("explicit counts", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/check", "application/json", `{
			"params": {"color": "#12345", "marker_size": [[3, 4]]},
			"counts": {"curves": 2, "axes": 1, "subplots": 1}
		}`)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp CheckResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.False(t, resp.OK)
		require.Len(t, resp.Diagnostics, 2)

		assert.Equal(t, schema.Color, resp.Diagnostics[0].Parameter)
		assert.Equal(t, diag.FormatViolation, resp.Diagnostics[0].Code)
		assert.Nil(t, resp.Diagnostics[0].Entity)

		assert.Equal(t, schema.MarkerSize, resp.Diagnostics[1].Parameter)
		assert.Equal(t, diag.EntityIndexOutOfRange, resp.Diagnostics[1].Code)
		require.NotNil(t, resp.Diagnostics[1].Entity)
		assert.Equal(t, 3, *resp.Diagnostics[1].Entity)
	})

	t.Run("derived counts", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/check", "", `{"curves": 2, "params": {"label": ["a", "b"]}}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"ok": true, "diagnostics": []}`, rec.Body.String())
	})

	t.Run("bad json", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/check", "", `{"params": `)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "invalid_json", decodeError(t, rec).Error.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/check", "", `{"parms": {}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, s, http.MethodGet, "/v1/check", "", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "method_not_allowed", decodeError(t, rec).Error.Code)
	})
}

func TestResolve(t *testing.T) {
	s, _ := newTestServer(t)

	t.Run("json", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/resolve", "application/json; charset=utf-8", `{
			"curves": 2,
			"layout": {"rows": 1, "cols": 2, "distribution": [0, 1]},
			"params": {"label": ["a", "b"], "line_style": "asdl"}
		}`)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var tree map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tree))

		params := tree["parameters"].(map[string]any)
		assert.Equal(t, []any{"a", "b"}, params[schema.Label])
		assert.Equal(t, []any{"-", "-"}, params[schema.LineStyle])

		counts := tree["counts"].(map[string]any)
		assert.Equal(t, float64(2), counts["subplots"])

		diags := tree["diagnostics"].([]any)
		require.Len(t, diags, 1)
		assert.Equal(t, string(diag.FormatViolation), diags[0].(map[string]any)["code"])
	})

	t.Run("yaml in and out", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/resolve?format=yaml", "application/yaml",
			"curves: 1\nparams:\n  color: \"#000000\"\n")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))

		var tree map[string]any
		require.NoError(t, yaml.Unmarshal(rec.Body.Bytes(), &tree))
		params := tree["parameters"].(map[string]any)
		assert.Equal(t, []any{"#000000"}, params[schema.Color])
	})

	t.Run("toml in", func(t *testing.T) {
		rec := do(t, s, http.MethodPost, "/v1/resolve", "application/toml", "curves = 1\n[params]\nlabel = \"x\"\n")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"x"`)
	})

	errCases := []struct {
		name        string
		target      string
		contentType string
		body        string
		status      int
		code        string
	}{
		{"unsupported media type", "/v1/resolve", "text/plain", "curves = 1", http.StatusUnsupportedMediaType, "unsupported_media_type"},
		{"bad output format", "/v1/resolve?format=xml", "", `{}`, http.StatusBadRequest, "invalid_format"},
		{"syntax error", "/v1/resolve", "", `{"curves": }`, http.StatusBadRequest, "invalid_document"},
		{"include", "/v1/resolve", "", `{"include": ["base.toml"]}`, http.StatusBadRequest, "invalid_document"},
		{"curve mismatch", "/v1/resolve", "", `{"curves": 2, "data": [{"x": {"values": [1]}, "y": {"values": [1]}}]}`, http.StatusBadRequest, "invalid_document"},
	}
	for _, tt := range errCases {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, tt.target, tt.contentType, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
			assert.Equal(t, tt.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestBodyTooLarge(t *testing.T) {
	s, _ := newTestServer(t)
	body := `{"params": {"label": "` + strings.Repeat("a", MaxBodyBytes) + `"}}`

	rec := do(t, s, http.MethodPost, "/v1/check", "", body)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", decodeError(t, rec).Error.Code)
}

func TestNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	rec := do(t, s, http.MethodGet, "/v2/nothing", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
}

func TestRecovery(t *testing.T) {
	s, logs := newTestServer(t)
	h := s.withRequestID(s.withRecovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "internal_error", decodeError(t, rec).Error.Code)
	assert.Contains(t, logs.String(), "boom")
}

func TestListenAndServe_Shutdown(t *testing.T) {
	s, _ := newTestServer(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
