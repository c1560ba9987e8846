package service

import (
	"github.com/iliyamo/task-tracker-api/internal/model"
	"github.com/iliyamo/task-tracker-api/internal/repository"
)

// Decision is the outcome of an ownership check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Owned is implemented by every resource that belongs to a single user.
type Owned interface {
	OwnerUserID() uint64
}

// Authorize allows iff the principal's id equals the resource's owner id.
// A missing principal or an unowned resource is denied.
func Authorize(principal *model.User, resource Owned) Decision {
	if principal == nil || resource == nil {
		return Deny
	}
	owner := resource.OwnerUserID()
	if owner == 0 || principal.ID != owner {
		return Deny
	}
	return Allow
}

// RequireOwner turns a Deny into repository.ErrForbidden.  Callers must have
// already established that the resource exists: a lookup miss is reported as
// repository.ErrNotFound before ownership is considered.
func RequireOwner(principal *model.User, resource Owned) error {
	if Authorize(principal, resource) != Allow {
		return repository.ErrForbidden
	}
	return nil
}
