// Package server exposes the coaching service over a REST API. Chat turns
// stream back as server-sent events; everything else is plain JSON.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/asmayaseen/vitacoach/internal/orchestrator"
	"github.com/asmayaseen/vitacoach/internal/report"
	"github.com/asmayaseen/vitacoach/internal/state"
)

// Server hosts the REST API.
type Server struct {
	orch        *orchestrator.Orchestrator
	db          *state.DB
	reports     *report.Generator
	sessions    *sessionRegistry
	turnTimeout time.Duration
	now         func() time.Time
	router      chi.Router
}

// Options configures a Server.
type Options struct {
	// DB enables persistence when non-nil.
	DB *state.DB
	// TurnTimeout bounds one chat turn, default 2 minutes.
	TurnTimeout time.Duration
}

// New creates a server around an orchestrator.
func New(orch *orchestrator.Orchestrator, opts Options) (*Server, error) {
	gen, err := report.NewGenerator()
	if err != nil {
		return nil, fmt.Errorf("init report generator: %w", err)
	}
	if opts.TurnTimeout <= 0 {
		opts.TurnTimeout = 2 * time.Minute
	}

	s := &Server{
		orch:        orch,
		db:          opts.DB,
		reports:     gen,
		sessions:    newSessionRegistry(opts.DB),
		turnTimeout: opts.TurnTimeout,
		now:         time.Now,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/users", s.handleCreateUser)
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Get("/", s.handleGetUser)
			r.Post("/chat", s.handleChat)
			r.Get("/goals", s.handleListGoals)
			r.Post("/goals", s.handleCreateGoal)
			r.Post("/goals/{goalID}/status", s.handleGoalStatus)
			r.Get("/progress", s.handleListProgress)
			r.Post("/progress", s.handleAddProgress)
			r.Get("/report", s.handleReport)
		})
	})
	s.router = r
	return s, nil
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe runs the server until the context is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string, readTimeout, writeTimeout time.Duration) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
