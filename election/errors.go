// Copyright (c) 2025 The election-backend authors.

package election

import (
	"errors"
	"fmt"
)

// Every error returned by the Engine wraps exactly one of these.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation failed")
	ErrConflict   = errors.New("conflict")
	ErrTimeWindow = errors.New("outside the election window")
	ErrStore      = errors.New("store failure")
)

// Kind returns a stable label for the error's category.
func Kind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrTimeWindow):
		return "time_window"
	case errors.Is(err, ErrStore):
		return "store"
	default:
		return "unknown"
	}
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q %w", entity, id, ErrNotFound)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// storeErr logs and wraps a driver error; both ErrStore and the cause stay
// reachable through errors.Is / errors.As.
func (e *Engine) storeErr(op string, err error) error {
	e.logger.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w: %w", op, ErrStore, err)
}
