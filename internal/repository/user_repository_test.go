package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/task-tracker-api/internal/model"
)

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

var userCols = []string{"id", "username", "email", "password_hash", "created_at"}

func TestUserRepo_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (username, email, password_hash, created_at) VALUES (?,?,?,?)")).
		WithArgs("alice", "alice@x.com", "$2a$hash", now).
		WillReturnResult(sqlmock.NewResult(42, 1))

	u := &model.User{Username: "alice", Email: "  Alice@X.com ", PasswordHash: "$2a$hash", CreatedAt: now}
	require.NoError(t, repo.Create(context.Background(), u))
	assert.Equal(t, uint64(42), u.ID)
	assert.Equal(t, "alice@x.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Create_DuplicateIsConflict(t *testing.T) {
	dupErrs := map[string]error{
		"mysql":  &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'alice' for key 'uq_users_username'"},
		"sqlite": sqlite3.Error{Code: sqlite3.ErrConstraint, ExtendedCode: sqlite3.ErrConstraintUnique},
	}
	for name, dupErr := range dupErrs {
		t.Run(name, func(t *testing.T) {
			db, mock := newMock(t)
			mock.ExpectExec("INSERT INTO users").WillReturnError(dupErr)

			err := NewUserRepo(db).Create(context.Background(), &model.User{Username: "alice", Email: "a@x.com"})
			assert.ErrorIs(t, err, ErrConflict)
		})
	}
}

func TestUserRepo_Create_OtherErrorWrapped(t *testing.T) {
	db, mock := newMock(t)
	boom := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO users").WillReturnError(boom)

	err := NewUserRepo(db).Create(context.Background(), &model.User{Username: "alice"})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestUserRepo_FindByUsernameOrEmail(t *testing.T) {
	db, mock := newMock(t)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE username = ? OR email = ?")).
		WithArgs("Alice@X.com", "alice@x.com", "Alice@X.com").
		WillReturnRows(sqlmock.NewRows(userCols).AddRow(1, "alice", "alice@x.com", "h", now))

	u, err := NewUserRepo(db).FindByUsernameOrEmail(context.Background(), " Alice@X.com ")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, uint64(1), u.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_GetByUsername_NotFound(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery("FROM users WHERE username = ?").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows(userCols))

	u, err := NewUserRepo(db).GetByUsername(context.Background(), "ghost")
	assert.Nil(t, u)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserRepo_Exists(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE username = ?")).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE email = ?")).
		WithArgs("new@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	taken, err := repo.ExistsUsername(context.Background(), "alice")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.ExistsEmail(context.Background(), "NEW@x.com")
	require.NoError(t, err)
	assert.False(t, taken)
	assert.NoError(t, mock.ExpectationsWereMet())
}
