package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/task-tracker-api/internal/metrics"
	"github.com/iliyamo/task-tracker-api/internal/model"
	"github.com/iliyamo/task-tracker-api/internal/repository"
	"github.com/iliyamo/task-tracker-api/internal/utils"
)

// UserStore is the subset of the credential store the auth flow needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	FindByUsernameOrEmail(ctx context.Context, key string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	ExistsUsername(ctx context.Context, username string) (bool, error)
	ExistsEmail(ctx context.Context, email string) (bool, error)
}

// AuthService implements registration, login and request authentication.
type AuthService struct {
	users     UserStore
	tokens    *utils.TokenService
	cost      int
	dummyHash string
	now       func() time.Time
}

// NewAuthService hashes a throwaway password once so that logins for unknown
// identifiers spend the same bcrypt time as real ones.
func NewAuthService(users UserStore, tokens *utils.TokenService, cost int) (*AuthService, error) {
	dummy, err := utils.HashPassword("not-a-real-password", cost)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}
	return &AuthService{users: users, tokens: tokens, cost: cost, dummyHash: dummy, now: time.Now}, nil
}

// Tokens exposes the token service, mainly for response metadata.
func (s *AuthService) Tokens() *utils.TokenService { return s.tokens }

// Register creates a user.  The username is stored exactly as given, so
// callers validate it first.  A taken username or email yields *ConflictError.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	email = repository.NormalizeEmail(email)

	taken, err := s.users.ExistsUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		metrics.AuthEvents.WithLabelValues("register", "conflict").Inc()
		return nil, &ConflictError{Field: "username"}
	}
	if taken, err = s.users.ExistsEmail(ctx, email); err != nil {
		return nil, err
	}
	if taken {
		metrics.AuthEvents.WithLabelValues("register", "conflict").Inc()
		return nil, &ConflictError{Field: "email"}
	}

	hash, err := utils.HashPassword(password, s.cost)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC().Truncate(time.Second),
	}
	if err := s.users.Create(ctx, u); err != nil {
		// lost a race with a concurrent registration
		if errors.Is(err, repository.ErrConflict) {
			metrics.AuthEvents.WithLabelValues("register", "conflict").Inc()
			return nil, &ConflictError{}
		}
		return nil, err
	}
	metrics.AuthEvents.WithLabelValues("register", "success").Inc()
	return u, nil
}

// Login checks the credential and issues an access token.  Unknown
// identifiers and wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (utils.AccessToken, *model.User, error) {
	u, err := s.users.FindByUsernameOrEmail(ctx, identifier)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return utils.AccessToken{}, nil, err
	}
	if u == nil {
		utils.VerifyPassword(s.dummyHash, password)
		metrics.AuthEvents.WithLabelValues("login", "failure").Inc()
		return utils.AccessToken{}, nil, ErrInvalidCredentials
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		metrics.AuthEvents.WithLabelValues("login", "failure").Inc()
		return utils.AccessToken{}, nil, ErrInvalidCredentials
	}
	at, err := s.tokens.Issue(u.Username)
	if err != nil {
		return utils.AccessToken{}, nil, err
	}
	metrics.AuthEvents.WithLabelValues("login", "success").Inc()
	return at, u, nil
}

// Authenticate resolves the principal from an Authorization header value.
// Every client-side failure wraps ErrUnauthenticated; store faults are
// returned as-is.
func (s *AuthService) Authenticate(ctx context.Context, header string) (*model.User, error) {
	raw, ok := ParseBearer(header)
	if !ok {
		metrics.AuthEvents.WithLabelValues("authenticate", "failure").Inc()
		return nil, fmt.Errorf("%w: missing bearer token", ErrUnauthenticated)
	}
	claims, err := s.tokens.Verify(raw)
	if err != nil {
		metrics.AuthEvents.WithLabelValues("authenticate", "failure").Inc()
		return nil, fmt.Errorf("%w: %w", ErrUnauthenticated, err)
	}
	u, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthEvents.WithLabelValues("authenticate", "failure").Inc()
			return nil, fmt.Errorf("%w: unknown subject", ErrUnauthenticated)
		}
		return nil, err
	}
	metrics.AuthEvents.WithLabelValues("authenticate", "success").Inc()
	return u, nil
}

// ParseBearer extracts the token from "Bearer <token>".  The scheme is
// matched case-insensitively.
func ParseBearer(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
