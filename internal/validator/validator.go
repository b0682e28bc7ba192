package validator

import (
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	ierr "github.com/storepulse/storepulse/internal/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// GetValidator returns the shared validator instance.
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
	})
	return validate
}

// ValidateRequest runs struct tag validation and converts failures into a
// validation error listing every offending field.
func ValidateRequest(req interface{}) error {
	if err := GetValidator().Struct(req); err != nil {
		details := make(map[string]interface{})
		var fields []string

		if validationErrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range validationErrs {
				field := strings.ToLower(fe.Field())
				fields = append(fields, field)
				details[field] = fmt.Sprintf("failed on %s", describeTag(fe))
			}
		}

		hint := "Request validation failed"
		if len(fields) > 0 {
			hint = fmt.Sprintf("Invalid value for %s", strings.Join(fields, ", "))
		}
		return ierr.WithError(err).
			WithHint(hint).
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
