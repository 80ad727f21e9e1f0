package activity

import "time"

// Actor identifies who performed a logged action.
type Actor string

const (
	ActorUser   Actor = "user"
	ActorAgent  Actor = "agent"
	ActorSystem Actor = "system"
)

// Entry is an append-only audit record. TaskID is nulled, not cascaded,
// when the referenced task is deleted.
type Entry struct {
	ID        string            `json:"id"`
	TaskID    *string           `json:"task_id"`
	Actor     Actor             `json:"actor"`
	Action    string            `json:"action"`
	Details   map[string]string `json:"details"`
	CreatedAt time.Time         `json:"created_at"`
}
