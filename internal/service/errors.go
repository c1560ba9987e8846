// Package service contains the authentication, authorization and task
// business logic.  It depends on narrow store interfaces rather than on the
// SQL repositories directly.
package service

import (
	"errors"

	"github.com/iliyamo/task-tracker-api/internal/repository"
)

var (
	// ErrInvalidCredentials is returned by Login for an unknown identifier or
	// a wrong password; the two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated is returned by Authenticate for every failure that is
	// the client's fault.  The underlying reason stays wrapped for logging.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ConflictError reports which unique field a registration collided with.
type ConflictError struct {
	Field string // "username", "email" or "" when the store could not tell
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return "username or email already registered"
	}
	return e.Field + " already registered"
}

func (e *ConflictError) Unwrap() error { return repository.ErrConflict }
