package tag

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/TerminallyLazy/kanban-zero/pkg/cerr"
)

type Server struct {
	repo Repository
}

func NewServer(repo Repository) *Server {
	return &Server{repo: repo}
}

func (s *Server) Register(r chi.Router) {
	r.Get("/", s.ListTags)
}

func (s *Server) ListTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tags, err := s.repo.List(ctx)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, http.StatusOK, tags)
}
