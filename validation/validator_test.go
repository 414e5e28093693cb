package validation

import (
	"testing"

	"presence-chat/errors"

	"github.com/stretchr/testify/require"
)

func TestValidateMessage(t *testing.T) {
	tests := []struct {
		name       string
		req        MessageRequest
		violations []string
	}{
		{"Valid broadcast", MessageRequest{"Todos", "oi", "message"}, nil},
		{"Valid private message", MessageRequest{"Bia", "oi", "private_message"}, nil},
		{"Missing recipient", MessageRequest{"", "oi", "message"}, []string{`"to" is required`}},
		{"Unknown type", MessageRequest{"Bia", "oi", "status"}, []string{`"type" must be one of [message, private_message]`}},
		{
			"Every violation is reported",
			MessageRequest{},
			[]string{`"to" is required`, `"text" is required`, `"type" is required`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			err := ValidateMessage(tt.req)
			if tt.violations == nil {
				req.NoError(err)
				return
			}
			req.ErrorIs(err, errors.ErrValidation)
			req.Equal(tt.violations, errors.Violations(err))
		})
	}
}

func TestValidateJoin(t *testing.T) {
	req := require.New(t)
	req.NoError(ValidateJoin(JoinRequest{Name: "Ana"}))

	err := ValidateJoin(JoinRequest{})
	req.ErrorIs(err, errors.ErrValidation)
	req.Equal([]string{`"name" is required`}, errors.Violations(err))
}
