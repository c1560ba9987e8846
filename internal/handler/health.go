package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Root describes the service.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"name":    "task-tracker-api",
		"version": "1.0.0",
		"message": "authenticate at /auth/login, then use /tasks",
	})
}

// Health is the liveness probe used by load balancers.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "healthy"})
}
