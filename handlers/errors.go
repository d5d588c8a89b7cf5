// Copyright (c) 2025 The election-backend authors.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/razeemarc/election-backend/election"
	"github.com/razeemarc/election-backend/middleware"
)

// statusFor maps an engine error onto an HTTP status code
func statusFor(err error) int {
	switch {
	case errors.Is(err, election.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, election.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, election.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, election.ErrTimeWindow):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// engineError writes the JSON error for err. Store failures are logged and
// reported without driver detail.
func engineError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "op", op, "error", err)
		middleware.ErrorResponse(w, status, "Database error")
		return
	}
	middleware.ErrorResponse(w, status, err.Error())
}
