package utils // package utils provides password hashing and access token helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers a bad signature, a wrong algorithm, bad encoding
	// and missing claims.
	ErrInvalidToken = errors.New("invalid token")
	// ErrTokenExpired is returned for a well-formed, correctly signed token
	// whose expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token    string    // the serialized JWT string
	IssuedAt time.Time // UTC issue time
	Exp      time.Time // UTC expiration time
}

// Claims is the decoded payload of a verified token.
type Claims struct {
	Subject   string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies HS256 access tokens.  The secret and TTL
// are fixed at construction; the service holds no other state, so it is safe
// for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService builds a service signing with secret.  Rotating the secret
// invalidates every token issued with the previous one.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// WithClock returns a copy of the service that reads time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

// TTL reports how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration { return s.ttl }

// Issue builds and signs a token whose subject is the username.  The token
// also carries iat, exp and a random jti.
func (s *TokenService) Issue(username string) (AccessToken, error) {
	if username == "" {
		return AccessToken{}, errors.New("issue token: empty subject")
	}
	iat := s.now().UTC().Truncate(time.Second)
	exp := iat.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(iat),
		ExpiresAt: jwt.NewNumericDate(exp),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, IssuedAt: iat, Exp: exp}, nil
}

// Verify checks the signature first and the expiry second.  A token stays
// valid while now <= exp, compared in whole seconds.  Segments must be
// canonical base64url, so a changed padding bit is also rejected.  Anything
// other than an expired but authentic token is ErrInvalidToken.
func (s *TokenService) Verify(raw string) (Claims, error) {
	var rc jwt.RegisteredClaims
	tok, err := jwt.ParseWithClaims(raw, &rc,
		func(t *jwt.Token) (interface{}, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		// exp is whole seconds; one second of leeway accepts the token
		// through the exp second itself
		jwt.WithLeeway(time.Second),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		// the parser only validates claims after the signature checked out,
		// so an expiry error here implies an authentic token
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, ErrInvalidToken
	}
	if !tok.Valid || rc.Subject == "" || rc.IssuedAt == nil {
		return Claims{}, ErrInvalidToken
	}
	return Claims{
		Subject:   rc.Subject,
		TokenID:   rc.ID,
		IssuedAt:  rc.IssuedAt.Time,
		ExpiresAt: rc.ExpiresAt.Time,
	}, nil
}
