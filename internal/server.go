package internal

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/cors"

	"github.com/TerminallyLazy/kanban-zero/internal/activity"
	"github.com/TerminallyLazy/kanban-zero/internal/config"
	"github.com/TerminallyLazy/kanban-zero/internal/tag"
	"github.com/TerminallyLazy/kanban-zero/internal/task"
	"github.com/TerminallyLazy/kanban-zero/pkg/cerr"
	"github.com/TerminallyLazy/kanban-zero/pkg/clog"
)

type Server struct {
	server         *http.Server
	env            *config.Env
	taskServer     *task.Server
	tagServer      *tag.Server
	activityServer *activity.Server
}

func NewServer(env *config.Env, taskServer *task.Server, tagServer *tag.Server, activityServer *activity.Server) *Server {
	return &Server{
		env:            env,
		taskServer:     taskServer,
		tagServer:      tagServer,
		activityServer: activityServer,
	}
}

// ListenAndServe starts the HTTP server. The provided context becomes the
// base context of every request, so cancelling it (shutdown signal) also
// cancels in-flight request contexts.
func (s *Server) ListenAndServe(ctx context.Context) error {
	r := chi.NewRouter()

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Use(
			clog.SlogChiMiddleware(),
			cerr.JSONResponseChiMiddleware(),
		)
		r.NotFound(func(w http.ResponseWriter, r *http.Request) {
			cerr.SetNewJSONError(r.Context(), cerr.NotFound, "not found", nil)
		})
		r.Route("/tasks", s.taskServer.Register)
		r.Route("/tags", s.tagServer.Register)
		r.Route("/activity", s.activityServer.Register)
	})

	handler := cors.New(cors.Options{
		AllowedOrigins:   []string{s.env.CORSOrigin},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler(r)

	addr := net.JoinHostPort(s.env.HTTPHost, s.env.HTTPPort)
	slog.Info("starting server", "addr", addr)

	s.server = &http.Server{
		Addr:        addr,
		Handler:     handler,
		BaseContext: func(_ net.Listener) context.Context { return ctx },
	}

	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "healthy",
		"env":    s.env.Env,
	})
}
