package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/diag"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/loader"
	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf/schema"
)

type errorEnvelope struct {
	Error struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id,omitempty"`
	} `json:"error"`
}

// ParameterInfo describes one registered parameter.
type ParameterInfo struct {
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Entity      string   `json:"entity"`
	PerEntity   bool     `json:"per_entity"`
	Default     any      `json:"default,omitempty"`
	Cycle       []any    `json:"cycle,omitempty"`
	Enum        []string `json:"enum,omitempty"`
	Modes       []string `json:"modes,omitempty"`
	Description string   `json:"description,omitempty"`
}

func newParameterInfo(spec *schema.ParameterSpec) ParameterInfo {
	return ParameterInfo{
		Name:        spec.Name,
		Kind:        spec.TypeName(),
		Entity:      spec.Entity.String(),
		PerEntity:   spec.PerEntity,
		Default:     spec.Default,
		Cycle:       spec.Cycle,
		Enum:        spec.Enum,
		Modes:       spec.Modes,
		Description: spec.Description,
	}
}

// CheckRequest is the body of POST /v1/check. When Counts is absent the
// entity counts are derived from Curves and Layout.
type CheckRequest struct {
	Params map[string]any    `json:"params"`
	Counts *graphconf.Counts `json:"counts,omitempty"`
	Curves int               `json:"curves,omitempty"`
	Layout *graphconf.Layout `json:"layout,omitempty"`
}

// CheckResponse is the body returned by POST /v1/check.
type CheckResponse struct {
	OK          bool              `json:"ok"`
	Diagnostics []diag.Diagnostic `json:"diagnostics"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleParameters(w http.ResponseWriter, r *http.Request) {
	reg := s.engine.Registry()
	out := make([]ParameterInfo, 0, reg.Len())
	for _, name := range reg.Sorted() {
		spec, _ := reg.Lookup(name)
		out = append(out, newParameterInfo(spec))
	}
	writeJSON(w, http.StatusOK, map[string]any{"parameters": out})
}

func (s *Server) handleParameter(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]
	spec, ok := s.engine.Registry().Lookup(name)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown_parameter", "unknown parameter "+name)
		return
	}
	writeJSON(w, http.StatusOK, newParameterInfo(spec))
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}

	var req CheckRequest
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	var diags []diag.Diagnostic
	if req.Counts != nil {
		diags = s.engine.Check(req.Params, *req.Counts)
	} else {
		var layout graphconf.Layout
		if req.Layout != nil {
			layout = *req.Layout
		}
		diags = s.engine.Resolve(graphconf.NewRequest(req.Curves, layout, req.Params)).Diagnostics
	}
	writeJSON(w, http.StatusOK, CheckResponse{OK: len(diags) == 0, Diagnostics: diags})
}

// handleResolve decodes a request document in the format named by the
// Content-Type header and answers with the resolved tree in the format
// named by the "format" query parameter.
func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	inFormat, err := formatFromContentType(r.Header.Get("Content-Type"))
	if err != nil {
		writeError(w, r, http.StatusUnsupportedMediaType, "unsupported_media_type", err.Error())
		return
	}
	outFormat := loader.FormatJSON
	if q := r.URL.Query().Get("format"); q != "" {
		outFormat, err = loader.ParseFormat(q)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid_format", err.Error())
			return
		}
	}

	body, ok := readBody(w, r)
	if !ok {
		return
	}
	doc, err := loader.Decode(inFormat, "request body", body)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_document", err.Error())
		return
	}
	if len(doc.Include) > 0 {
		writeError(w, r, http.StatusBadRequest, "invalid_document", "include is not supported over HTTP")
		return
	}
	req, err := doc.Request()
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid_document", err.Error())
		return
	}

	cfg := s.engine.Resolve(req)
	out, err := loader.Marshal(outFormat, cfg.Tree())
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "encode_failed", err.Error())
		return
	}
	w.Header().Set("Content-Type", contentTypes[outFormat])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

var contentTypes = map[loader.Format]string{
	loader.FormatJSON: "application/json",
	loader.FormatYAML: "application/yaml",
	loader.FormatTOML: "application/toml",
}

func formatFromContentType(ct string) (loader.Format, error) {
	if ct == "" {
		return loader.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return "", err
	}
	switch mt {
	case "application/json", "text/json":
		return loader.FormatJSON, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return loader.FormatYAML, nil
	case "application/toml", "text/toml":
		return loader.FormatTOML, nil
	}
	return "", errors.New("unsupported content type " + mt)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, http.StatusRequestEntityTooLarge, "body_too_large", "request body too large")
			return nil, false
		}
		writeError(w, r, http.StatusBadRequest, "read_failed", err.Error())
		return nil, false
	}
	return body, true
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	var env errorEnvelope
	env.Error.Code = code
	env.Error.Message = message
	env.Error.RequestID = RequestIDFromContext(r.Context())
	writeJSON(w, status, env)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(true)
	_ = enc.Encode(v)
}
