// Package queue defines the task event payload and the consumer that writes
// it to the audit log.
package queue

import "time"

// TaskEventsQueue is the durable queue carrying TaskEvent messages.
const TaskEventsQueue = "task.events"

// Task event types.
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
)

// TaskEvent is published after a task mutation commits.  It carries enough
// for an audit trail without reading the database.
type TaskEvent struct {
	Type       string `json:"type"`
	TaskID     uint64 `json:"task_id"`
	OwnerID    uint64 `json:"owner_id"`
	Title      string `json:"title,omitempty"`
	Completed  bool   `json:"completed"`
	OccurredAt string `json:"occurred_at"`
}

// NewTaskEvent stamps the event with the given time in RFC 3339.
func NewTaskEvent(typ string, taskID, ownerID uint64, title string, completed bool, at time.Time) TaskEvent {
	return TaskEvent{
		Type:       typ,
		TaskID:     taskID,
		OwnerID:    ownerID,
		Title:      title,
		Completed:  completed,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
