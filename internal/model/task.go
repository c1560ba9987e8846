package model

import "time"

// Task is a to-do item owned by exactly one user.  OwnerID is set from the
// authenticated principal when the task is created and is never changed.
type Task struct {
	ID          uint64    // tasks.id
	OwnerID     uint64    // tasks.owner_id (references users.id)
	Title       string    // tasks.title
	Description *string   // tasks.description (nullable)
	Completed   bool      // tasks.completed
	CreatedAt   time.Time // tasks.created_at
	UpdatedAt   time.Time // tasks.updated_at
}

// OwnerUserID reports the owning user of the task.
func (t *Task) OwnerUserID() uint64 {
	if t == nil {
		return 0
	}
	return t.OwnerID
}

// TaskPatch carries the fields of a partial update; nil means unchanged.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil
}
