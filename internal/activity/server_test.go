package activity_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TerminallyLazy/kanban-zero/internal/activity"
	"github.com/TerminallyLazy/kanban-zero/internal/activity/repositoryimpl"
	"github.com/TerminallyLazy/kanban-zero/internal/db"
	"github.com/TerminallyLazy/kanban-zero/pkg/cerr"
)

func newServerHarness(t *testing.T) (chi.Router, activity.Repository) {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	repo := repositoryimpl.NewSQLiteRepository(conn)
	srv := activity.NewServer(repo)

	r := chi.NewRouter()
	r.Route("/api/activity", func(r chi.Router) {
		r.Use(cerr.JSONResponseChiMiddleware())
		srv.Register(r)
	})
	return r, repo
}

func seedEntries(t *testing.T, repo activity.Repository, count int) {
	t.Helper()
	base := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < count; i++ {
		taskID := fmt.Sprintf("task-%d", i)
		require.NoError(t, repo.Create(context.Background(), &activity.Entry{
			ID:        ulid.Make().String(),
			TaskID:    &taskID,
			Actor:     activity.ActorUser,
			Action:    "task_created",
			Details:   map[string]string{"title": fmt.Sprintf("task %d", i)},
			CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}
}

func TestListActivityNewestFirst(t *testing.T) {
	r, repo := newServerHarness(t)
	seedEntries(t, repo, 3)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activity", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []*activity.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "task 2", entries[0].Details["title"])
	assert.Equal(t, "task 0", entries[2].Details["title"])
}

func TestListActivityLimit(t *testing.T) {
	r, repo := newServerHarness(t)
	seedEntries(t, repo, 5)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activity?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var entries []*activity.Entry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	assert.Len(t, entries, 2)
}

func TestListActivityInvalidLimit(t *testing.T) {
	r, _ := newServerHarness(t)

	for _, limit := range []string{"0", "-1", "abc"} {
		t.Run(limit, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activity?limit="+limit, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestListActivityEmpty(t *testing.T) {
	r, _ := newServerHarness(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/activity", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}
