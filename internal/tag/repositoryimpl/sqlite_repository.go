package repositoryimpl

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/TerminallyLazy/kanban-zero/internal/tag"
	"github.com/TerminallyLazy/kanban-zero/pkg/cerr"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) EnsureByName(ctx context.Context, name string, autoGenerated bool) (*tag.Tag, error) {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tag (id, name, auto_generated) VALUES (?, ?, ?)
		 ON CONFLICT (name) DO NOTHING`,
		uuid.NewString(), name, autoGenerated,
	)
	if err != nil {
		return nil, cerr.WrapExecError("tag", err)
	}
	return r.getByName(ctx, name)
}

func (r *SQLiteRepository) getByName(ctx context.Context, name string) (*tag.Tag, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, icon, auto_generated FROM tag WHERE name = ?`, name)
	t, err := scanTag(row)
	if err != nil {
		return nil, cerr.WrapQueryError("tag", err)
	}
	return t, nil
}

func (r *SQLiteRepository) Attach(ctx context.Context, taskID, tagID string, confidence *float64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO task_tag (task_id, tag_id, confidence, created_at)
		 VALUES (?, ?, ?, ?)`,
		taskID, tagID, confidence, time.Now().UTC(),
	)
	if err != nil {
		return cerr.WrapExecError("task_tag", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*tag.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, color, icon, auto_generated FROM tag ORDER BY name`)
	if err != nil {
		return nil, cerr.WrapQueryError("tags", err)
	}
	return scanTags(rows)
}

func (r *SQLiteRepository) ListByTask(ctx context.Context, taskID string) ([]*tag.Tag, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT t.id, t.name, t.color, t.icon, t.auto_generated
		 FROM tag t
		 JOIN task_tag tt ON tt.tag_id = t.id
		 WHERE tt.task_id = ?
		 ORDER BY t.name`,
		taskID,
	)
	if err != nil {
		return nil, cerr.WrapQueryError("tags", err)
	}
	return scanTags(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTag(row rowScanner) (*tag.Tag, error) {
	var (
		t     tag.Tag
		color sql.NullString
		icon  sql.NullString
	)
	if err := row.Scan(&t.ID, &t.Name, &color, &icon, &t.AutoGenerated); err != nil {
		return nil, err
	}
	if color.Valid {
		t.Color = &color.String
	}
	if icon.Valid {
		t.Icon = &icon.String
	}
	return &t, nil
}

func scanTags(rows *sql.Rows) ([]*tag.Tag, error) {
	defer rows.Close()
	tags := []*tag.Tag{}
	for rows.Next() {
		t, err := scanTag(rows)
		if err != nil {
			return nil, cerr.WrapQueryError("tags", err)
		}
		tags = append(tags, t)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.WrapQueryError("tags", err)
	}
	return tags, nil
}

var _ tag.Repository = (*SQLiteRepository)(nil)
