package repositoryimpl

import (
	"context"
	"database/sql"

	"github.com/TerminallyLazy/kanban-zero/internal/task"
	"github.com/TerminallyLazy/kanban-zero/pkg/cerr"
)

const taskColumns = `id, title, body, raw_input, energy_column, position, created_at, updated_at, shipped_at, created_via`

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, t *task.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO task (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Body, t.RawInput, string(t.EnergyColumn), t.Position,
		t.CreatedAt, t.UpdatedAt, t.ShippedAt, string(t.CreatedVia),
	)
	if err != nil {
		return cerr.WrapExecError("task", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM task WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return nil, cerr.WrapQueryError("task", err)
	}
	return t, nil
}

func (r *SQLiteRepository) ListActive(ctx context.Context) ([]*task.Task, error) {
	// energy_column sorts lexicographically on the raw string value; the
	// grouping order (hyperfocus, low_energy, quick_win) is an artifact of
	// that, not a deliberate ranking.
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM task
		 WHERE energy_column != ?
		 ORDER BY energy_column, position, created_at DESC`,
		string(task.ColumnShipped),
	)
	if err != nil {
		return nil, cerr.WrapQueryError("tasks", err)
	}
	return scanTasks(rows)
}

func (r *SQLiteRepository) ListByColumn(ctx context.Context, column task.EnergyColumn) ([]*task.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM task
		 WHERE energy_column = ?
		 ORDER BY position, created_at DESC`,
		string(column),
	)
	if err != nil {
		return nil, cerr.WrapQueryError("tasks", err)
	}
	return scanTasks(rows)
}

func (r *SQLiteRepository) Update(ctx context.Context, t *task.Task) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE task
		 SET title = ?, body = ?, energy_column = ?, position = ?, updated_at = ?, shipped_at = ?
		 WHERE id = ?`,
		t.Title, t.Body, string(t.EnergyColumn), t.Position, t.UpdatedAt, t.ShippedAt, t.ID,
	)
	if err != nil {
		return cerr.WrapExecError("task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return cerr.WrapExecError("task", err)
	}
	if affected == 0 {
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM task WHERE id = ?`, id)
	if err != nil {
		return cerr.WrapExecError("task", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return cerr.WrapExecError("task", err)
	}
	if affected == 0 {
		return cerr.NewError(cerr.NotFound, "task not found", nil)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		t         task.Task
		body      sql.NullString
		shippedAt sql.NullTime
		column    string
		via       string
	)
	err := row.Scan(&t.ID, &t.Title, &body, &t.RawInput, &column, &t.Position,
		&t.CreatedAt, &t.UpdatedAt, &shippedAt, &via)
	if err != nil {
		return nil, err
	}
	if body.Valid {
		t.Body = &body.String
	}
	if shippedAt.Valid {
		ts := shippedAt.Time
		t.ShippedAt = &ts
	}
	t.EnergyColumn = task.EnergyColumn(column)
	t.CreatedVia = task.CreatedVia(via)
	return &t, nil
}

func scanTasks(rows *sql.Rows) ([]*task.Task, error) {
	defer rows.Close()
	tasks := []*task.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, cerr.WrapQueryError("tasks", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.WrapQueryError("tasks", err)
	}
	return tasks, nil
}

var _ task.Repository = (*SQLiteRepository)(nil)
