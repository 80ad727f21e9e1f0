package tag

import "time"

type Tag struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Color         *string `json:"color"`
	Icon          *string `json:"icon"`
	AutoGenerated bool    `json:"auto_generated"`
}

// TaskTag links a tag to a task. Confidence is only set for AI-assigned
// tags, in the 0-1 range.
type TaskTag struct {
	TaskID     string    `json:"task_id"`
	TagID      string    `json:"tag_id"`
	Confidence *float64  `json:"confidence"`
	CreatedAt  time.Time `json:"created_at"`
}
