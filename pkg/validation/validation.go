// Package validation checks request payloads at the transport boundary and
// reports failures as a structured list of field errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/JaimeStill/keepsake/pkg/apperror"
)

var validate = newValidator()

// FieldError describes a single failed rule on a named field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// FieldErrors is the result of a failed validation.
type FieldErrors []FieldError

func (fe FieldErrors) Error() string {
	parts := make([]string, len(fe))
	for i, f := range fe {
		parts[i] = f.Message
	}
	return strings.Join(parts, "; ")
}

// Validator is implemented by payloads with rules that struct tags cannot express.
type Validator interface {
	Validate() FieldErrors
}

// Struct validates v using its `validate` struct tags, then its Validate method
// when v implements Validator. Returns nil or a Validation-kind error carrying FieldErrors.
func Struct(v any) error {
	var fields FieldErrors

	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return apperror.Wrap(apperror.Validation, "invalid request", err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fe.Field(),
				Rule:    fe.Tag(),
				Message: message(fe.Field(), fe),
			})
		}
	}

	if custom, ok := v.(Validator); ok {
		fields = append(fields, custom.Validate()...)
	}

	if len(fields) == 0 {
		return nil
	}

	return apperror.Wrap(apperror.Validation, "validation failed", fields)
}

// Var validates a single value against a tag expression, reporting failures under field.
func Var(field string, value any, tag string) error {
	if err := validate.Var(value, tag); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) || len(verrs) == 0 {
			return apperror.Wrap(apperror.Validation, "invalid request", err)
		}
		fe := verrs[0]
		fields := FieldErrors{{
			Field:   field,
			Rule:    fe.Tag(),
			Message: message(field, fe),
		}}
		return apperror.Wrap(apperror.Validation, "validation failed", fields)
	}
	return nil
}

// Fields extracts the field errors from a validation failure, or nil.
func Fields(err error) FieldErrors {
	var fields FieldErrors
	if errors.As(err, &fields) {
		return fields
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func message(field string, fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", field)
	case "numeric":
		return fmt.Sprintf("%s must contain only digits", field)
	case "url":
		return fmt.Sprintf("%s must be a valid URL", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
