package activity_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TerminallyLazy/kanban-zero/internal/activity"
	"github.com/TerminallyLazy/kanban-zero/internal/activity/repositoryimpl"
	"github.com/TerminallyLazy/kanban-zero/internal/db"
	"github.com/TerminallyLazy/kanban-zero/internal/eventbus"
)

func newRecorderHarness(t *testing.T) (*eventbus.Bus, activity.Repository) {
	t.Helper()

	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	bus := eventbus.New()
	repo := repositoryimpl.NewSQLiteRepository(conn)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = activity.NewRecorder(bus, repo).Start(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	// Give the recorder a moment to subscribe before events start flowing.
	time.Sleep(10 * time.Millisecond)
	return bus, repo
}

func waitForEntries(t *testing.T, repo activity.Repository, count int) []*activity.Entry {
	t.Helper()
	var entries []*activity.Entry
	require.Eventually(t, func() bool {
		var err error
		entries, err = repo.ListRecent(context.Background(), 100)
		return err == nil && len(entries) >= count
	}, 2*time.Second, 10*time.Millisecond)
	return entries
}

func TestRecorderWritesAuditEntries(t *testing.T) {
	bus, repo := newRecorderHarness(t)

	bus.PublishNew(eventbus.TypeTaskCreated, "task-1", map[string]string{
		"title":         "Fix auth bug",
		"energy_column": "hyperfocus",
	})

	entries := waitForEntries(t, repo, 1)
	entry := entries[0]
	assert.Equal(t, "task_created", entry.Action)
	assert.Equal(t, activity.ActorUser, entry.Actor)
	require.NotNil(t, entry.TaskID)
	assert.Equal(t, "task-1", *entry.TaskID)
	assert.Equal(t, "Fix auth bug", entry.Details["title"])
	assert.Equal(t, "hyperfocus", entry.Details["energy_column"])
}

func TestRecorderNullsTaskIDForDeletes(t *testing.T) {
	bus, repo := newRecorderHarness(t)

	bus.PublishNew(eventbus.TypeTaskDeleted, "task-1", map[string]string{"title": "gone"})

	entries := waitForEntries(t, repo, 1)
	entry := entries[0]
	assert.Equal(t, "task_deleted", entry.Action)
	assert.Nil(t, entry.TaskID)
	// The id moves into details so the audit trail still names the task.
	assert.Equal(t, "task-1", entry.Details["task_id"])
	assert.Equal(t, "gone", entry.Details["title"])
}

func TestRecorderIgnoresUnknownEventTypes(t *testing.T) {
	bus, repo := newRecorderHarness(t)

	bus.PublishNew(eventbus.Type("task.unknown"), "task-1", nil)
	bus.PublishNew(eventbus.TypeTaskShipped, "task-2", nil)

	entries := waitForEntries(t, repo, 1)
	require.Len(t, entries, 1)
	assert.Equal(t, "task_shipped", entries[0].Action)
}
