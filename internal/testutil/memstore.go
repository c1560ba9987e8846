// Package testutil provides in-memory stores and a recording publisher for
// tests that exercise services and handlers without a database or broker.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/iliyamo/task-tracker-api/internal/model"
	"github.com/iliyamo/task-tracker-api/internal/queue"
	"github.com/iliyamo/task-tracker-api/internal/repository"
)

// Users is a concurrency-safe in-memory credential store.
type Users struct {
	mu     sync.Mutex
	nextID uint64
	rows   []model.User
}

func NewUsers() *Users { return &Users{} }

func (s *Users) Create(_ context.Context, u *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.Email = repository.NormalizeEmail(u.Email)
	for _, r := range s.rows {
		if r.Username == u.Username || r.Email == u.Email {
			return repository.ErrConflict
		}
	}
	s.nextID++
	u.ID = s.nextID
	s.rows = append(s.rows, *u)
	return nil
}

func (s *Users) FindByUsernameOrEmail(_ context.Context, key string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.find(func(u model.User) bool { return u.Username == key }); u != nil {
		return u, nil
	}
	email := repository.NormalizeEmail(key)
	if u := s.find(func(u model.User) bool { return u.Email == email }); u != nil {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Users) GetByUsername(_ context.Context, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u := s.find(func(u model.User) bool { return u.Username == username }); u != nil {
		return u, nil
	}
	return nil, repository.ErrNotFound
}

func (s *Users) ExistsUsername(ctx context.Context, username string) (bool, error) {
	_, err := s.GetByUsername(ctx, username)
	return err == nil, nil
}

func (s *Users) ExistsEmail(_ context.Context, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	email = repository.NormalizeEmail(email)
	return s.find(func(u model.User) bool { return u.Email == email }) != nil, nil
}

// Delete removes a user by username; it simulates an account that vanished
// after a token was issued.
func (s *Users) Delete(username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.rows {
		if r.Username == username {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return
		}
	}
}

func (s *Users) find(match func(model.User) bool) *model.User {
	for _, r := range s.rows {
		if match(r) {
			u := r
			return &u
		}
	}
	return nil
}

// Tasks is a concurrency-safe in-memory task store.
type Tasks struct {
	mu     sync.Mutex
	nextID uint64
	rows   map[uint64]model.Task
}

func NewTasks() *Tasks { return &Tasks{rows: map[uint64]model.Task{}} }

func (s *Tasks) Create(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	t.ID = s.nextID
	s.rows[t.ID] = *t
	return nil
}

func (s *Tasks) GetByID(_ context.Context, id uint64) (*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *Tasks) ListByOwner(_ context.Context, ownerID uint64, skip, limit int) ([]*model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Task, 0)
	for _, t := range s.rows {
		if t.OwnerID == ownerID {
			t := t
			out = append(out, &t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if skip >= len(out) {
		return []*model.Task{}, nil
	}
	out = out[skip:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (s *Tasks) Update(_ context.Context, t *model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[t.ID]
	if !ok || cur.OwnerID != t.OwnerID {
		return repository.ErrNotFound
	}
	s.rows[t.ID] = *t
	return nil
}

func (s *Tasks) Delete(_ context.Context, id, ownerID uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.rows[id]
	if !ok || cur.OwnerID != ownerID {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// Publisher records published events and can be told to fail.
type Publisher struct {
	mu     sync.Mutex
	Err    error
	events []queue.TaskEvent
}

func (p *Publisher) Publish(_ context.Context, ev queue.TaskEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, ev)
	return nil
}

// Events returns a copy of what was published so far.
func (p *Publisher) Events() []queue.TaskEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.TaskEvent(nil), p.events...)
}
