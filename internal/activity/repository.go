package activity

import "context"

type Repository interface {
	Create(ctx context.Context, e *Entry) error
	// ListRecent returns up to limit entries, newest first.
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)
}
