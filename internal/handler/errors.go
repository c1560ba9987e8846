package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/task-tracker-api/internal/repository"
	"github.com/iliyamo/task-tracker-api/internal/service"
	"github.com/iliyamo/task-tracker-api/internal/utils"
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// ValidationError is returned for well-formed requests whose values break
// the input rules.  It renders as 422.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "validation error"
	}
	return "validation error: " + e.Errors[0].Field + " " + e.Errors[0].Message
}

// Add appends a field error.
func (e *ValidationError) Add(field, message, typ string) {
	e.Errors = append(e.Errors, FieldError{Field: field, Message: message, Type: typ})
}

// ErrorHandler is installed as echo's HTTPErrorHandler.  It is the single
// place where errors become status codes.  Anything unrecognised is a
// generic 500; the detail only goes to the log.
func ErrorHandler(log logrus.FieldLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, body := errorResponse(err)
		if status >= http.StatusInternalServerError {
			log.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"uri":    c.Request().RequestURI,
			}).Error("request failed")
		}
		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(status)
		} else {
			werr = c.JSON(status, body)
		}
		if werr != nil {
			log.WithError(werr).Warn("write error response")
		}
	}
}

func errorResponse(err error) (int, any) {
	var (
		verr *ValidationError
		cerr *service.ConflictError
		herr *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, echo.Map{"error": "validation error", "errors": verr.Errors}
	case errors.Is(err, utils.ErrPasswordTooLong):
		return http.StatusUnprocessableEntity, echo.Map{
			"error":  "validation error",
			"errors": []FieldError{{Field: "password", Message: "must be at most 72 bytes", Type: "bcryptlen"}},
		}
	case errors.As(err, &cerr):
		return http.StatusConflict, echo.Map{"error": cerr.Error()}
	case errors.Is(err, repository.ErrConflict):
		return http.StatusConflict, echo.Map{"error": "conflict"}
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, echo.Map{"error": "invalid credentials"}
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, utils.ErrInvalidToken),
		errors.Is(err, utils.ErrTokenExpired):
		return http.StatusUnauthorized, echo.Map{"error": "unauthenticated"}
	case errors.Is(err, repository.ErrForbidden):
		return http.StatusForbidden, echo.Map{"error": "forbidden"}
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, echo.Map{"error": "not found"}
	case errors.As(err, &herr):
		if herr.Code >= http.StatusInternalServerError {
			return herr.Code, echo.Map{"error": "internal server error"}
		}
		msg, ok := herr.Message.(string)
		if !ok {
			msg = http.StatusText(herr.Code)
		}
		return herr.Code, echo.Map{"error": msg}
	}
	return http.StatusInternalServerError, echo.Map{"error": "internal server error"}
}
