package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/task-tracker-api/internal/repository"
	"github.com/iliyamo/task-tracker-api/internal/service"
	"github.com/iliyamo/task-tracker-api/internal/utils"
)

func TestErrorResponse_Status(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", &ValidationError{Errors: []FieldError{{Field: "title"}}}, http.StatusUnprocessableEntity},
		{"password too long", fmt.Errorf("hash: %w", utils.ErrPasswordTooLong), http.StatusUnprocessableEntity},
		{"conflict", &service.ConflictError{Field: "username"}, http.StatusConflict},
		{"repo conflict", repository.ErrConflict, http.StatusConflict},
		{"bad credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"unauthenticated", fmt.Errorf("%w: %w", service.ErrUnauthenticated, utils.ErrTokenExpired), http.StatusUnauthorized},
		{"invalid token", utils.ErrInvalidToken, http.StatusUnauthorized},
		{"forbidden", repository.ErrForbidden, http.StatusForbidden},
		{"not found", fmt.Errorf("get: %w", repository.ErrNotFound), http.StatusNotFound},
		{"bad request", echo.NewHTTPError(http.StatusBadRequest, "invalid task id"), http.StatusBadRequest},
		{"unknown", errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := errorResponse(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestErrorHandler_GenericBodyAndLog(t *testing.T) {
	log, hook := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.GET("/boom", func(c echo.Context) error { return errors.New("secret db detail") })
	e.GET("/http500", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusInternalServerError, "stack trace here")
	})

	for _, path := range []string{"/boom", "/http500"} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.JSONEq(t, `{"error":"internal server error"}`, rec.Body.String())
	}

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
}

func TestErrorHandler_ValidationBody(t *testing.T) {
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)
	e.GET("/v", func(c echo.Context) error {
		verr := &ValidationError{}
		verr.Add("title", "field required", "required")
		return verr
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v", nil))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.JSONEq(t, `{"error":"validation error","errors":[{"field":"title","message":"field required","type":"required"}]}`, rec.Body.String())
}

func TestErrorHandler_RouteNotFound(t *testing.T) {
	log, _ := test.NewNullLogger()
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler(log)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not Found"}`, rec.Body.String())
}
