// Package webui serves the dashboard over HTTP: a JSON API for presenters
// and a small server-rendered page for quick inspection.
//
// Routes:
//
//	GET  /                               → HTML page (?country=&from=&to=)
//	GET  /health                         → liveness and index summary
//	GET  /api/v1/countries               → selectable countries
//	GET  /api/v1/years                   → common year range
//	GET  /api/v1/ranking                 → top emitters (ignores filters)
//	GET  /api/v1/view                    → computed view (?country=&from=&to=)
//	GET  /api/v1/charts                  → chart descriptions for a view
//	POST /api/v1/sessions                → new session at the default selection
//	GET  /api/v1/sessions/{id}           → view for the session's selection
//	PUT  /api/v1/sessions/{id}/selection → change selection (422 keeps the prior one)
//	DELETE /api/v1/sessions/{id}         → drop the session
package webui

import (
	"context"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"energydash/internal/chart"
	"energydash/internal/dashboard"
)

// Config controls server startup.
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Sessions bounds the per-user selection registry.
	Sessions dashboard.SessionLimits

	// Chart carries page titles for chart descriptions.
	Chart chart.Options
}

// Server routes requests against one immutable Base.
type Server struct {
	cfg      Config
	log      *zap.Logger
	base     *dashboard.Base
	sessions *dashboard.Sessions
	router   *mux.Router
	tmpl     *template.Template
}

// NewServer builds the router. log may be nil.
func NewServer(cfg Config, base *dashboard.Base, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = 10 * time.Second
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 30 * time.Second
	}
	s := &Server{
		cfg:      cfg,
		log:      log,
		base:     base,
		sessions: dashboard.NewSessionsWithLimits(base, cfg.Sessions),
		router:   mux.NewRouter(),
		tmpl:     template.Must(template.New("index").Funcs(funcs).Parse(indexHTML)),
	}
	s.routes()
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() {
	r := s.router
	r.Use(s.instrument)
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, "not found", http.StatusNotFound)
	})

	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/countries", s.handleCountries).Methods(http.MethodGet)
	api.HandleFunc("/years", s.handleYears).Methods(http.MethodGet)
	api.HandleFunc("/ranking", s.handleRanking).Methods(http.MethodGet)
	api.HandleFunc("/view", s.handleView).Methods(http.MethodGet)
	api.HandleFunc("/charts", s.handleCharts).Methods(http.MethodGet)
	api.HandleFunc("/sessions", s.handleCreateSession).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods(http.MethodDelete)
	api.HandleFunc("/sessions/{id}/selection", s.handleUpdateSelection).Methods(http.MethodPut)
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}
	errc := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Addr))
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// indexHTML is the embedded page template.
//
//go:embed index.tmpl.html
var indexHTML string
