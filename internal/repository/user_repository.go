package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/iliyamo/task-tracker-api/internal/model"
)

const userColumns = "id, username, email, password_hash, created_at"

// UserRepo is the credential store backed by the `users` table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts the user and fills in its ID.  A duplicate username or
// email yields ErrConflict.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	u.Email = NormalizeEmail(u.Email)
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, email, password_hash, created_at) VALUES (?,?,?,?)",
		u.Username, u.Email, u.PasswordHash, u.CreatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrConflict
		}
		return fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = uint64(id)
	return nil
}

// FindByUsernameOrEmail resolves a login identifier.  An exact username match
// is preferred over an email match.
func (r *UserRepo) FindByUsernameOrEmail(ctx context.Context, key string) (*model.User, error) {
	key = strings.TrimSpace(key)
	return r.scanOne(ctx,
		"SELECT "+userColumns+" FROM users WHERE username = ? OR email = ? "+
			"ORDER BY CASE WHEN username = ? THEN 0 ELSE 1 END LIMIT 1",
		key, NormalizeEmail(key), key)
}

// GetByUsername fetches a user by exact username.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.scanOne(ctx, "SELECT "+userColumns+" FROM users WHERE username = ? LIMIT 1", username)
}

// ExistsUsername reports whether the username is taken.
func (r *UserRepo) ExistsUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM users WHERE username = ? LIMIT 1", username)
}

// ExistsEmail reports whether the email is taken.
func (r *UserRepo) ExistsEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "SELECT 1 FROM users WHERE email = ? LIMIT 1", NormalizeEmail(email))
}

func (r *UserRepo) scanOne(ctx context.Context, q string, args ...any) (*model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx, q, args...).
		Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) exists(ctx context.Context, q string, arg any) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx, q, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query user: %w", err)
	}
	return true, nil
}

// NormalizeEmail lower-cases and trims an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
