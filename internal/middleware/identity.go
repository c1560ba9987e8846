package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/task-tracker-api/internal/model"
)

// principalKey is the echo.Context key holding the authenticated *model.User.
const principalKey = "principal"

// SetPrincipal stores the authenticated user on the request context.
func SetPrincipal(c echo.Context, u *model.User) { c.Set(principalKey, u) }

// Principal returns the user set by JWTAuth.  The second result is false on
// routes that are not behind the gate.
func Principal(c echo.Context) (*model.User, bool) {
	u, ok := c.Get(principalKey).(*model.User)
	return u, ok && u != nil
}

// principalName is used for rate limit keys; anonymous callers share "anon".
func principalName(c echo.Context) string {
	if u, ok := Principal(c); ok {
		return u.Username
	}
	return "anon"
}
