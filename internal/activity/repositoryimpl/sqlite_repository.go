package repositoryimpl

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/TerminallyLazy/kanban-zero/internal/activity"
	"github.com/TerminallyLazy/kanban-zero/pkg/cerr"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Create(ctx context.Context, e *activity.Entry) error {
	var details *string
	if e.Details != nil {
		data, err := json.Marshal(e.Details)
		if err != nil {
			return cerr.NewError(cerr.Internal, "server error",
				fmt.Errorf("failed to marshal activity details: %w", err))
		}
		s := string(data)
		details = &s
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO activity_log (id, task_id, actor, action, details, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.TaskID, string(e.Actor), e.Action, details, e.CreatedAt,
	)
	if err != nil {
		return cerr.WrapExecError("activity_log", err)
	}
	return nil
}

func (r *SQLiteRepository) ListRecent(ctx context.Context, limit int) ([]*activity.Entry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, task_id, actor, action, details, created_at
		 FROM activity_log
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, cerr.WrapQueryError("activity_log", err)
	}
	defer rows.Close()

	entries := []*activity.Entry{}
	for rows.Next() {
		var (
			e       activity.Entry
			taskID  sql.NullString
			actor   string
			details sql.NullString
		)
		if err := rows.Scan(&e.ID, &taskID, &actor, &e.Action, &details, &e.CreatedAt); err != nil {
			return nil, cerr.WrapQueryError("activity_log", err)
		}
		if taskID.Valid {
			e.TaskID = &taskID.String
		}
		e.Actor = activity.Actor(actor)
		if details.Valid {
			if err := json.Unmarshal([]byte(details.String), &e.Details); err != nil {
				return nil, cerr.NewError(cerr.Internal, "server error",
					fmt.Errorf("failed to unmarshal activity details: %w", err))
			}
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, cerr.WrapQueryError("activity_log", err)
	}
	return entries, nil
}

var _ activity.Repository = (*SQLiteRepository)(nil)
