package dto

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/spec-kit/session-auth-service/pkg/util"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// bcrypt reads at most 72 bytes, so password limits are byte counts.
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})
	return v
}

// Validate checks struct tags and returns a VALIDATION_FAILED error whose
// details map each offending field to the rule it broke.
func Validate(payload any) error {
	err := validate.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	details := make(map[string]any, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[fe.Field()] = fe.Tag()
	}
	return apperrors.NewValidationError("invalid request", details)
}
