// Package web provides the HTTP status and admin API for the carpark daemon.
package web

import (
	"context"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sweeney/carpark-controller/internal/status"
)

// ResetFunc asks the control loop to perform an admin reset. It returns
// false if the request could not be queued. Handlers never mutate
// controller state directly; the loop goroutine stays the single owner.
type ResetFunc func() bool

// Server serves the status page, JSON snapshot, metrics, and admin reset.
type Server struct {
	httpServer *http.Server
	tracker    *status.Tracker
	reset      ResetFunc
}

// New creates a Server that reads state from the given tracker. metrics
// may be nil to disable the scrape endpoint; reset may be nil to disable
// the admin endpoint.
func New(addr string, tracker *status.Tracker, metrics http.Handler, reset ResetFunc) *Server {
	s := &Server{tracker: tracker, reset: reset}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/status.json", s.handleJSON)
	r.Post("/admin/reset", s.handleReset)
	if metrics != nil {
		r.Handle("/metrics", metrics)
	}

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: r,
	}
	return s
}

// ListenAndServe starts listening. It blocks until the server is shut down.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Serve accepts connections on the given listener. Useful for tests.
func (s *Server) Serve(ln net.Listener) error {
	return s.httpServer.Serve(ln)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the router, for httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	renderHTML(w, snap)
}

func (s *Server) handleJSON(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	w.Write(status.FormatJSON(snap))
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if s.reset == nil {
		http.Error(w, `{"error":"reset not available"}`, http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if !s.reset() {
		http.Error(w, `{"error":"reset already pending"}`, http.StatusConflict)
		return
	}
	w.WriteHeader(http.StatusAccepted)
	w.Write([]byte(`{"reset":"queued"}`))
}
