package taskctl

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the controller. Handlers map each kind to a
// distinct response category; everything else is reported as internal.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrInternal     = errors.New("internal error")
)

func notFound(entity string) error {
	return fmt.Errorf("%s: %w", entity, ErrNotFound)
}

func forbidden(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrForbidden)
}

func invalidInput(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

func conflict(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrConflict)
}

func internal(err error) error {
	return fmt.Errorf("%v: %w", err, ErrInternal)
}
