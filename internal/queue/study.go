package queue

import "context"

var StudyIndexQueue = "study:index:queue"

// Event kinds pushed onto the index queue.
const (
	EventUpsert = "upsert"
	EventDelete = "delete"
)

// StudyEvent is a study change waiting to be applied to the search index.
type StudyEvent struct {
	Kind    string `json:"kind"`
	StudyID string `json:"study_id"`
	UserID  string `json:"user_id"`
	Version int64  `json:"version"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// StudyQueue decouples study writes from search index maintenance.
type StudyQueue interface {
	// PublishChange appends a study change to the index queue.
	PublishChange(ctx context.Context, event *StudyEvent) error
	// Drain pops up to max pending changes, oldest first.
	Drain(ctx context.Context, max int) ([]*StudyEvent, error)
}
