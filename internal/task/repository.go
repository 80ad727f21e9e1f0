package task

import "context"

type Repository interface {
	Create(ctx context.Context, t *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	// ListActive returns all non-shipped tasks ordered by energy_column
	// (lexicographic), then position ascending, then created_at descending.
	ListActive(ctx context.Context) ([]*Task, error)
	// ListByColumn returns tasks in one column ordered by position
	// ascending, then created_at descending.
	ListByColumn(ctx context.Context, column EnergyColumn) ([]*Task, error)
	Update(ctx context.Context, t *Task) error
	Delete(ctx context.Context, id string) error
}

// ParseResult is the outcome of classifying free-text input. Fallback marks
// the deterministic default used when classification failed.
type ParseResult struct {
	Title    string
	Energy   EnergyColumn
	Tags     []string
	Fallback bool
}

// Parser converts free-text input into a structured classification. It never
// fails: any classification error collapses into the fallback result.
type Parser interface {
	Parse(ctx context.Context, rawInput string, override *EnergyColumn) ParseResult
}
