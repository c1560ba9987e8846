package middleware

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/task-tracker-api/internal/service"
)

// JWTAuth returns the authentication gate for protected routes.  It resolves
// the bearer token to a user and stores it as the request principal.  Any
// token or lookup problem is a 401 with the same body, so callers cannot tell
// a forged token from a deleted account.
func JWTAuth(auth *service.AuthService, log logrus.FieldLogger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			u, err := auth.Authenticate(ctx, c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					log.WithError(err).WithField("path", c.Path()).Debug("request rejected")
					c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
					return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthenticated"})
				}
				return err
			}
			SetPrincipal(c, u)
			return next(c)
		}
	}
}
