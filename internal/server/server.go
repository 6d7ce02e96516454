// Package server exposes the graph configuration engine over HTTP.
//
//	GET  /health
//	GET  /v1/parameters
//	GET  /v1/parameters/{name}
//	POST /v1/check
//	POST /v1/resolve
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/Pyramorphix/ZAVLAB-sub001/internal/graphconf"
)

// RequestIDHeader carries the request id in and out.
const RequestIDHeader = "X-Request-Id"

// MaxBodyBytes limits request bodies.
const MaxBodyBytes = 1 << 20

// Server serves check and resolve requests.
type Server struct {
	engine *graphconf.Engine
	logger *slog.Logger
	router *mux.Router
}

// New creates a server around engine.
func New(engine *graphconf.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		engine: engine,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(s.withRequestID, s.withAccessLog, s.withRecovery)
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "not_found", "no such route")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "method_not_allowed", "method not allowed")
	})

	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	v1 := s.router.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/parameters", s.handleParameters).Methods(http.MethodGet)
	v1.HandleFunc("/parameters/{name}", s.handleParameter).Methods(http.MethodGet)
	v1.HandleFunc("/check", s.handleCheck).Methods(http.MethodPost)
	v1.HandleFunc("/resolve", s.handleResolve).Methods(http.MethodPost)
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down server")
		return srv.Shutdown(shutdownCtx)
	}
}
