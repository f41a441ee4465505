package http

import (
	"errors"
	"fmt"
	"net/http"

	"station/entity"

	"github.com/labstack/echo/v4"
)

// handleError renders field errors as the bare field-to-messages map and any
// other HTTP error as {"detail": message}. The request logger middleware
// invokes this before echo's top-level handling does, so a committed
// response must be left alone or the body gets written twice.
func handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	he := &echo.HTTPError{
		Code:    http.StatusInternalServerError,
		Message: http.StatusText(http.StatusInternalServerError),
	}
	errors.As(err, &he)

	var body any
	switch message := he.Message.(type) {
	case entity.FieldErrors:
		body = message
	case string:
		body = map[string]string{"detail": message}
	default:
		body = message
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(he.Code)
	} else {
		writeErr = c.JSON(he.Code, body)
	}
	if writeErr != nil {
		c.Logger().Error(writeErr)
	}
}

// domainError maps repository and validation errors onto the HTTP contract:
// field errors become a 400 with per-field messages, missing (or
// out-of-scope) rows become a 404, anything else surfaces as a 500 with the
// cause kept internal.
func domainError(err error) error {
	if fe, ok := entity.AsFieldErrors(err); ok {
		return echo.NewHTTPError(http.StatusBadRequest, fe)
	}
	if errors.Is(err, entity.ErrNotFound) {
		return &echo.HTTPError{
			Code:    http.StatusNotFound,
			Message: "Not found.",
		}
	}
	return &echo.HTTPError{
		Code:     http.StatusInternalServerError,
		Message:  http.StatusText(http.StatusInternalServerError),
		Internal: err,
	}
}

func badRequest(format string, args ...any) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf(format, args...))
}

// invalidRef reports a referenced id that does not exist as a field error on
// the referencing field rather than a 404 on the whole request.
func invalidRef(field string, id int64, err error) error {
	if errors.Is(err, entity.ErrNotFound) {
		fe := entity.FieldErrors{}
		fe.Add(field, fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id))
		return fe
	}
	return err
}

func bindError(err error) *echo.HTTPError {
	return &echo.HTTPError{
		Code:     http.StatusBadRequest,
		Message:  "failed to parse request",
		Internal: fmt.Errorf("failed to bind request: %w", err),
	}
}
