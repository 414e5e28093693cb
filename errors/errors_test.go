package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, http.StatusOK},
		{"validation", NewValidationError(`"to" is required`), http.StatusUnprocessableEntity},
		{"unknown participant", ErrUnknownParticipant, http.StatusUnprocessableEntity},
		{"conflict", fmt.Errorf("register Ana: %w", ErrConflict), http.StatusConflict},
		{"not found", fmt.Errorf("message 42: %w", ErrNotFound), http.StatusNotFound},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"unavailable", ErrUnavailable, http.StatusInternalServerError},
		{"anything else", fmt.Errorf("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, MapToHTTPStatus(tt.err))
		})
	}
}

func TestValidationError_Keeps_All_Violations(t *testing.T) {
	req := require.New(t)
	err := fmt.Errorf("send: %w", NewValidationError(`"to" is required`, `"text" is required`))

	req.ErrorIs(err, ErrValidation)
	req.Equal([]string{`"to" is required`, `"text" is required`}, Violations(err))
	req.Nil(Violations(ErrNotFound))
}
