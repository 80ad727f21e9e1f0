package task

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/TerminallyLazy/kanban-zero/internal/eventbus"
	"github.com/TerminallyLazy/kanban-zero/internal/tag"
	"github.com/TerminallyLazy/kanban-zero/pkg/cerr"
)

const (
	rawInputMaxLen = 5000

	// Confidence recorded on tag assignments made by the classifier.
	aiTagConfidence = 0.9
)

type Server struct {
	repo     Repository
	tagRepo  tag.Repository
	parser   Parser
	eventBus *eventbus.Bus
}

func NewServer(repo Repository, tagRepo tag.Repository, parser Parser, eventBus *eventbus.Bus) *Server {
	return &Server{
		repo:     repo,
		tagRepo:  tagRepo,
		parser:   parser,
		eventBus: eventBus,
	}
}

// Register mounts the task routes on r. The surrounding middleware turns
// SetJSONResponse / SetJSONError calls into the actual HTTP response.
func (s *Server) Register(r chi.Router) {
	r.Post("/", s.CreateTask)
	r.Get("/", s.ListTasks)
	r.Get("/{id}", s.GetTask)
	r.Get("/{id}/tags", s.ListTaskTags)
	r.Patch("/{id}", s.UpdateTask)
	r.Delete("/{id}", s.DeleteTask)
	r.Post("/{id}/ship", s.ShipTask)
}

type createTaskRequest struct {
	RawInput     string        `json:"raw_input"`
	EnergyColumn *EnergyColumn `json:"energy_column"`
	CreatedVia   *CreatedVia   `json:"created_via"`
}

func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if req.RawInput == "" || utf8.RuneCountInString(req.RawInput) > rawInputMaxLen {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument,
			fmt.Sprintf("raw_input must be between 1 and %d characters", rawInputMaxLen), nil)
		return
	}
	if req.EnergyColumn != nil {
		if !req.EnergyColumn.Valid() {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument,
				fmt.Sprintf("invalid energy_column %q", *req.EnergyColumn), nil)
			return
		}
		// Shipped is a derived state: a task can only get there through
		// the ship operation or a later update, never at creation.
		if *req.EnergyColumn == ColumnShipped {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument,
				"tasks cannot be created in the shipped column", nil)
			return
		}
	}
	createdVia := ViaCLI
	if req.CreatedVia != nil {
		if !req.CreatedVia.Valid() {
			cerr.SetNewJSONError(ctx, cerr.InvalidArgument,
				fmt.Sprintf("invalid created_via %q", *req.CreatedVia), nil)
			return
		}
		createdVia = *req.CreatedVia
	}

	// Classification is best-effort: Parse always yields a usable result,
	// falling back to the raw input when the completion call fails.
	parsed := s.parser.Parse(ctx, req.RawInput, req.EnergyColumn)

	now := time.Now().UTC()
	t := &Task{
		ID:           uuid.NewString(),
		Title:        parsed.Title,
		RawInput:     req.RawInput,
		EnergyColumn: parsed.Energy,
		Position:     0,
		CreatedAt:    now,
		UpdatedAt:    now,
		CreatedVia:   createdVia,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	if !parsed.Fallback {
		s.attachTags(ctx, t.ID, parsed.Tags)
	}

	classified := "ai"
	if parsed.Fallback {
		classified = "fallback"
	}
	s.eventBus.PublishNew(eventbus.TypeTaskCreated, t.ID, map[string]string{
		"title":         t.Title,
		"energy_column": string(t.EnergyColumn),
		"classified":    classified,
	})

	cerr.SetJSONResponse(ctx, http.StatusCreated, t)
}

// attachTags persists classifier tags. Tag failures never fail creation.
func (s *Server) attachTags(ctx context.Context, taskID string, names []string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		tg, err := s.tagRepo.EnsureByName(ctx, name, true)
		if err != nil {
			slog.WarnContext(ctx, "failed to ensure tag", "tag", name, "error", err)
			continue
		}
		confidence := aiTagConfidence
		if err := s.tagRepo.Attach(ctx, taskID, tg.ID, &confidence); err != nil {
			slog.WarnContext(ctx, "failed to attach tag", "tag", name, "error", err)
		}
	}
}

func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	column := r.URL.Query().Get("column")
	if column == "" {
		tasks, err := s.repo.ListActive(ctx)
		if err != nil {
			cerr.SetJSONError(ctx, err)
			return
		}
		cerr.SetJSONResponse(ctx, http.StatusOK, tasks)
		return
	}

	col := EnergyColumn(column)
	if !col.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument,
			fmt.Sprintf("invalid column %q", column), nil)
		return
	}
	tasks, err := s.repo.ListByColumn(ctx, col)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, http.StatusOK, tasks)
}

func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := s.repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, http.StatusOK, t)
}

func (s *Server) ListTaskTags(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	if _, err := s.repo.Get(ctx, id); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	tags, err := s.tagRepo.ListByTask(ctx, id)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	cerr.SetJSONResponse(ctx, http.StatusOK, tags)
}

type updateTaskRequest struct {
	Title        *string       `json:"title"`
	Body         *string       `json:"body"`
	EnergyColumn *EnergyColumn `json:"energy_column"`
	Position     *int          `json:"position"`
}

func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument, "invalid request body", err)
		return
	}
	if req.EnergyColumn != nil && !req.EnergyColumn.Valid() {
		cerr.SetNewJSONError(ctx, cerr.InvalidArgument,
			fmt.Sprintf("invalid energy_column %q", *req.EnergyColumn), nil)
		return
	}

	t, err := s.repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Body != nil {
		t.Body = req.Body
	}
	if req.EnergyColumn != nil {
		// Free transition, including into and out of shipped. shipped_at is
		// deliberately left alone here; only the ship operation stamps it.
		t.EnergyColumn = *req.EnergyColumn
	}
	if req.Position != nil {
		t.Position = *req.Position
	}
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.TypeTaskUpdated, t.ID, map[string]string{
		"title":         t.Title,
		"energy_column": string(t.EnergyColumn),
	})

	cerr.SetJSONResponse(ctx, http.StatusOK, t)
}

func (s *Server) ShipTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	t, err := s.repo.Get(ctx, chi.URLParam(r, "id"))
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	// Re-shipping an already-shipped task just re-stamps the timestamp.
	now := time.Now().UTC()
	t.EnergyColumn = ColumnShipped
	t.ShippedAt = &now
	t.UpdatedAt = now

	if err := s.repo.Update(ctx, t); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.TypeTaskShipped, t.ID, map[string]string{
		"title": t.Title,
	})

	cerr.SetJSONResponse(ctx, http.StatusOK, t)
}

func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id := chi.URLParam(r, "id")
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		cerr.SetJSONError(ctx, err)
		return
	}

	s.eventBus.PublishNew(eventbus.TypeTaskDeleted, id, map[string]string{
		"title": t.Title,
	})

	cerr.SetNoContent(ctx)
}
