// Package router builds the echo instance and registers every route.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/task-tracker-api/internal/config"
	"github.com/iliyamo/task-tracker-api/internal/handler"
	"github.com/iliyamo/task-tracker-api/internal/metrics"
	"github.com/iliyamo/task-tracker-api/internal/middleware"
	"github.com/iliyamo/task-tracker-api/internal/service"
)

// Deps are the collaborators the HTTP layer needs.  Redis may be nil, in
// which case /auth is not rate limited.
type Deps struct {
	Auth           *service.AuthService
	Tasks          *service.TaskService
	Redis          *redis.Client
	RateLimit      config.RateLimitConfig
	MetricsEnabled bool
	Log            logrus.FieldLogger
}

// New returns a configured echo instance with all routes registered.
func New(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(d.Log)

	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(d.Log))
	e.Use(echomw.Recover())

	RegisterRoutes(e, d.MetricsEnabled)
	RegisterAuth(e, handler.NewAuthHandler(d.Auth),
		middleware.JWTAuth(d.Auth, d.Log),
		middleware.RateLimit(d.RateLimit, d.Redis, d.Log))
	RegisterTasks(e, handler.NewTaskHandler(d.Tasks), middleware.JWTAuth(d.Auth, d.Log))
	return e
}

// RegisterRoutes registers the unauthenticated service endpoints.
func RegisterRoutes(e *echo.Echo, withMetrics bool) {
	e.GET("/", handler.Root)
	e.GET("/health", handler.Health)
	if withMetrics {
		e.GET("/metrics", echo.WrapHandler(metrics.Handler()))
	}
}

// RegisterAuth mounts /auth.  Register and login sit behind the rate
// limiter; /auth/me needs a valid token instead.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, gate, limiter echo.MiddlewareFunc) {
	g := e.Group("/auth")
	g.POST("/register", a.Register, limiter)
	g.POST("/login", a.Login, limiter)
	g.GET("/me", a.Me, gate)
}

// RegisterTasks mounts /tasks.  Every route requires a principal.
func RegisterTasks(e *echo.Echo, t *handler.TaskHandler, gate echo.MiddlewareFunc) {
	g := e.Group("/tasks", gate)
	g.GET("", t.List)
	g.POST("", t.Create)
	g.GET("/:id", t.Get)
	g.PUT("/:id", t.Update)
	g.PATCH("/:id", t.Update)
	g.DELETE("/:id", t.Delete)
}
