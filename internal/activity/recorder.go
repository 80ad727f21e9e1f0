package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/TerminallyLazy/kanban-zero/internal/eventbus"
)

var eventActions = map[eventbus.Type]string{
	eventbus.TypeTaskCreated: "task_created",
	eventbus.TypeTaskUpdated: "task_updated",
	eventbus.TypeTaskShipped: "task_shipped",
	eventbus.TypeTaskDeleted: "task_deleted",
}

// Recorder subscribes to task events and appends audit entries. It is
// best-effort: a failed write is logged and the event is gone.
type Recorder struct {
	eventBus *eventbus.Bus
	repo     Repository
}

func NewRecorder(eventBus *eventbus.Bus, repo Repository) *Recorder {
	return &Recorder{
		eventBus: eventBus,
		repo:     repo,
	}
}

func (r *Recorder) Start(ctx context.Context) error {
	subID, ch := r.eventBus.Subscribe(256)
	defer r.eventBus.Unsubscribe(subID)

	slog.Info("activity recorder started")
	for {
		select {
		case <-ctx.Done():
			slog.Info("activity recorder stopped")
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			r.record(ctx, event)
		}
	}
}

func (r *Recorder) record(ctx context.Context, event *eventbus.Event) {
	action, ok := eventActions[event.Type]
	if !ok {
		return
	}

	taskID := event.TaskID
	entry := &Entry{
		ID:        ulid.Make().String(),
		TaskID:    &taskID,
		Actor:     ActorUser,
		Action:    action,
		Details:   event.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	// Deleted tasks no longer exist; keep the audit row unreferenced so the
	// task_id foreign key does not reject it.
	if event.Type == eventbus.TypeTaskDeleted {
		entry.TaskID = nil
		if entry.Details == nil {
			entry.Details = map[string]string{}
		}
		entry.Details["task_id"] = event.TaskID
	}

	if err := r.repo.Create(ctx, entry); err != nil {
		slog.ErrorContext(ctx, "failed to record activity", "action", action, "task_id", event.TaskID, "error", err)
	}
}
