package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/task-tracker-api/internal/model"
)

var taskCols = []string{"id", "owner_id", "title", "description", "completed", "created_at", "updated_at"}

func TestTaskRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()
	desc := "milk, eggs"

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO tasks")).
		WithArgs(uint64(1), "shopping", sql.NullString{String: desc, Valid: true}, false, now, now).
		WillReturnResult(sqlmock.NewResult(7, 1))

	task := &model.Task{OwnerID: 1, Title: "shopping", Description: &desc, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, NewTaskRepo(db).Create(context.Background(), task))
	assert.Equal(t, uint64(7), task.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepo_GetByID(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE id = ?")).
		WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows(taskCols).AddRow(7, 2, "t", nil, true, now, now))

	task, err := NewTaskRepo(db).GetByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), task.OwnerID)
	assert.Nil(t, task.Description)
	assert.True(t, task.Completed)
}

func TestTaskRepo_GetByID_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM tasks WHERE id = ?").WillReturnRows(sqlmock.NewRows(taskCols))

	_, err := NewTaskRepo(db).GetByID(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskRepo_ListByOwner(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM tasks WHERE owner_id = ? ORDER BY id LIMIT ? OFFSET ?")).
		WithArgs(uint64(3), 2, 1).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow(4, 3, "a", "x", false, now, now).
			AddRow(5, 3, "b", nil, true, now, now))

	tasks, err := NewTaskRepo(db).ListByOwner(context.Background(), 3, 1, 2)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "x", *tasks[0].Description)
	assert.Equal(t, uint64(5), tasks[1].ID)
}

func TestTaskRepo_ListByOwner_EmptyIsNotNil(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM tasks WHERE owner_id").WillReturnRows(sqlmock.NewRows(taskCols))

	tasks, err := NewTaskRepo(db).ListByOwner(context.Background(), 3, 0, 100)
	require.NoError(t, err)
	assert.NotNil(t, tasks)
	assert.Empty(t, tasks)
}

func TestTaskRepo_UpdateAndDelete(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTaskRepo(db)
	now := time.Now().UTC()

	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WithArgs("new", sql.NullString{}, true, now, uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks WHERE id = ? AND owner_id = ?")).
		WithArgs(uint64(7), uint64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM tasks")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), &model.Task{ID: 7, OwnerID: 1, Title: "new", Completed: true, UpdatedAt: now}))
	assert.ErrorIs(t, repo.Update(context.Background(), &model.Task{ID: 8, OwnerID: 1}), ErrNotFound)
	require.NoError(t, repo.Delete(context.Background(), 7, 1))
	assert.ErrorIs(t, repo.Delete(context.Background(), 8, 1), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
