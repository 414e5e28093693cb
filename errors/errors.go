package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrConflict           = fmt.Errorf("participant already exists")
	ErrNotFound           = fmt.Errorf("not found")
	ErrUnauthorized       = fmt.Errorf("caller is not the author")
	ErrValidation         = fmt.Errorf("validation failed")
	ErrUnknownParticipant = fmt.Errorf("caller is not an active participant")
	ErrUnavailable        = fmt.Errorf("storage unavailable")
	ErrRefreshed          = fmt.Errorf("participant was seen again")
)

// ValidationError carries every violation found in a request payload.
// It matches ErrValidation with errors.Is.
type ValidationError struct {
	Violations []string
}

func NewValidationError(violations ...string) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(e.Violations, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Violations extracts the violation list from err, or nil when err is not a validation failure.
func Violations(err error) []string {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Violations
	}
	return nil
}
