package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/task-tracker-api/internal/metrics"
	"github.com/iliyamo/task-tracker-api/internal/model"
	"github.com/iliyamo/task-tracker-api/internal/queue"
	"github.com/iliyamo/task-tracker-api/internal/repository"
)

// TaskStore is the persistence surface the task service needs.
type TaskStore interface {
	Create(ctx context.Context, t *model.Task) error
	GetByID(ctx context.Context, id uint64) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID uint64, skip, limit int) ([]*model.Task, error)
	Update(ctx context.Context, t *model.Task) error
	Delete(ctx context.Context, id, ownerID uint64) error
}

// EventPublisher delivers task events.  Failures are logged by the caller
// and never fail the request that produced the event.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.TaskEvent) error
}

// TaskService applies ownership rules around the task store.
type TaskService struct {
	store  TaskStore
	events EventPublisher
	log    logrus.FieldLogger
	now    func() time.Time
}

// NewTaskService wires the store and publisher.  A nil publisher disables
// events.
func NewTaskService(store TaskStore, events EventPublisher, log logrus.FieldLogger) *TaskService {
	if events == nil {
		events = NoopPublisher{}
	}
	return &TaskService{store: store, events: events, log: log, now: time.Now}
}

// List returns one page of the principal's own tasks.
func (s *TaskService) List(ctx context.Context, principal *model.User, skip, limit int) ([]*model.Task, error) {
	tasks, err := s.store.ListByOwner(ctx, principal.ID, skip, limit)
	s.count("list", err)
	return tasks, err
}

// Get returns the task when it exists and the principal owns it.
func (s *TaskService) Get(ctx context.Context, principal *model.User, id uint64) (*model.Task, error) {
	t, err := s.loadOwned(ctx, principal, id)
	s.count("get", err)
	return t, err
}

// Create stores a new task owned by the principal.
func (s *TaskService) Create(ctx context.Context, principal *model.User, title string, description *string, completed bool) (*model.Task, error) {
	now := s.now().UTC().Truncate(time.Second)
	t := &model.Task{
		OwnerID:     principal.ID,
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	err := s.store.Create(ctx, t)
	s.count("create", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.TaskCreated, t)
	return t, nil
}

// Update applies the non-nil fields of patch.  An empty patch returns the
// task unchanged without writing.
func (s *TaskService) Update(ctx context.Context, principal *model.User, id uint64, patch model.TaskPatch) (*model.Task, error) {
	t, err := s.loadOwned(ctx, principal, id)
	if err != nil {
		s.count("update", err)
		return nil, err
	}
	if patch.Empty() {
		s.count("update", nil)
		return t, nil
	}
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = patch.Description
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	t.UpdatedAt = s.now().UTC().Truncate(time.Second)

	err = s.store.Update(ctx, t)
	s.count("update", err)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, queue.TaskUpdated, t)
	return t, nil
}

// Delete removes the task when it exists and the principal owns it.
func (s *TaskService) Delete(ctx context.Context, principal *model.User, id uint64) error {
	t, err := s.loadOwned(ctx, principal, id)
	if err == nil {
		err = s.store.Delete(ctx, t.ID, t.OwnerID)
	}
	s.count("delete", err)
	if err != nil {
		return err
	}
	s.publish(ctx, queue.TaskDeleted, t)
	return nil
}

// loadOwned fetches the task and then checks ownership, so a missing id is
// ErrNotFound and someone else's task is ErrForbidden.
func (s *TaskService) loadOwned(ctx context.Context, principal *model.User, id uint64) (*model.Task, error) {
	t, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := RequireOwner(principal, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *TaskService) publish(ctx context.Context, typ string, t *model.Task) {
	ev := queue.NewTaskEvent(typ, t.ID, t.OwnerID, t.Title, t.Completed, s.now())
	if err := s.events.Publish(context.WithoutCancel(ctx), ev); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"event":   typ,
			"task_id": t.ID,
		}).Warn("task event not published")
	}
}

func (s *TaskService) count(op string, err error) {
	outcome := "success"
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		outcome = "not_found"
	case errors.Is(err, repository.ErrForbidden):
		outcome = "forbidden"
	default:
		outcome = "error"
	}
	metrics.TaskOperations.WithLabelValues(op, outcome).Inc()
}
