package tag

import "context"

type Repository interface {
	// EnsureByName returns the tag with the given name, creating it with
	// the autoGenerated flag when it does not exist yet.
	EnsureByName(ctx context.Context, name string, autoGenerated bool) (*Tag, error)
	// Attach links a tag to a task. Attaching an already-linked tag is a
	// no-op.
	Attach(ctx context.Context, taskID, tagID string, confidence *float64) error
	List(ctx context.Context) ([]*Tag, error)
	ListByTask(ctx context.Context, taskID string) ([]*Tag, error)
}
