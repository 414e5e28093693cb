package validation

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"strings"

	"presence-chat/errors"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
)

var validate = newValidator()

// JoinRequest is the payload of a join.
type JoinRequest struct {
	Name string `json:"name" validate:"required"`
}

// MessageRequest is the payload of a send or an edit.
type MessageRequest struct {
	To   string `json:"to" validate:"required"`
	Text string `json:"text" validate:"required"`
	Type string `json:"type" validate:"required,oneof=message private_message"`
}

// ValidateJoin checks the join payload and returns every violation at once.
func ValidateJoin(req JoinRequest) error {
	return check(req)
}

// ValidateMessage checks a send or edit payload and returns every violation at once.
func ValidateMessage(req MessageRequest) error {
	return check(req)
}

func check(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrors validator.ValidationErrors
	if !stderrors.As(err, &fieldErrors) {
		return err
	}
	return errors.NewValidationError(lo.Map(fieldErrors, func(fe validator.FieldError, _ int) string {
		return describe(fe)
	})...)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%q must be one of [%s]", fe.Field(), strings.Join(strings.Fields(fe.Param()), ", "))
	default:
		return fmt.Sprintf("%q failed on %s", fe.Field(), fe.Tag())
	}
}

// newValidator reports fields by their json name, the one clients send.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
