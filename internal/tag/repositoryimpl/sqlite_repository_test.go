package repositoryimpl

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TerminallyLazy/kanban-zero/internal/db"
	"github.com/TerminallyLazy/kanban-zero/internal/task"
)

func newTestRepo(t *testing.T) (*SQLiteRepository, func(ctx context.Context) string) {
	t.Helper()
	conn, err := db.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	insertTask := func(ctx context.Context) string {
		id := uuid.NewString()
		now := time.Now().UTC()
		_, err := conn.ExecContext(ctx,
			`INSERT INTO task (id, title, raw_input, energy_column, position, created_at, updated_at, created_via)
			 VALUES (?, 'title', 'raw', ?, 0, ?, ?, 'cli')`,
			id, task.ColumnQuickWin, now, now)
		require.NoError(t, err)
		return id
	}
	return NewSQLiteRepository(conn), insertTask
}

func TestEnsureByNameCreatesOnce(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.EnsureByName(ctx, "auth", true)
	require.NoError(t, err)
	assert.Equal(t, "auth", first.Name)
	assert.True(t, first.AutoGenerated)

	// Same name resolves to the existing row; auto_generated is not flipped.
	second, err := repo.EnsureByName(ctx, "auth", false)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.AutoGenerated)
}

func TestAttachAndListByTask(t *testing.T) {
	repo, insertTask := newTestRepo(t)
	ctx := context.Background()

	taskID := insertTask(ctx)
	auth, err := repo.EnsureByName(ctx, "auth", true)
	require.NoError(t, err)
	backend, err := repo.EnsureByName(ctx, "backend", true)
	require.NoError(t, err)

	confidence := 0.9
	require.NoError(t, repo.Attach(ctx, taskID, backend.ID, &confidence))
	require.NoError(t, repo.Attach(ctx, taskID, auth.ID, nil))

	// Attaching the same pair again is a no-op.
	require.NoError(t, repo.Attach(ctx, taskID, auth.ID, &confidence))

	tags, err := repo.ListByTask(ctx, taskID)
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "auth", tags[0].Name)
	assert.Equal(t, "backend", tags[1].Name)
}

func TestListOrdersByName(t *testing.T) {
	repo, _ := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"zeta", "auth", "mid"} {
		_, err := repo.EnsureByName(ctx, name, true)
		require.NoError(t, err)
	}

	tags, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "auth", tags[0].Name)
	assert.Equal(t, "mid", tags[1].Name)
	assert.Equal(t, "zeta", tags[2].Name)
}

func TestListByTaskEmpty(t *testing.T) {
	repo, insertTask := newTestRepo(t)
	ctx := context.Background()

	taskID := insertTask(ctx)
	tags, err := repo.ListByTask(ctx, taskID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}
