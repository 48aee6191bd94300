package serverutils

import (
	"errors"
	"fmt"
	"strings"

	"vidnotes-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateRequest runs the `validate` struct tags and reports the first failures in one message.
func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apperror.Validation(err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fmt.Sprintf("%s is %s", fe.Field(), describeTag(fe)))
	}
	return apperror.Validation(strings.Join(messages, "; "))
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "min":
		return "shorter than " + fe.Param()
	case "max":
		return "longer than " + fe.Param()
	}
	return "invalid"
}
