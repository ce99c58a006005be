package validator

import (
	"errors"
	"strings"
	"sync"

	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// GetValidator returns the shared validator instance
func GetValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRequest validates a struct against its `validate` tags. Field
// failures are returned as an ErrValidation marked error listing each field.
func ValidateRequest(req interface{}) error {
	err := GetValidator().Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return ierr.WithError(err).
			WithHint("Request could not be validated").
			Mark(ierr.ErrValidation)
	}

	details := make(map[string]any, len(validationErrors))
	fields := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		details[fe.Namespace()] = fe.Tag()
		fields = append(fields, fe.Field())
	}

	return ierr.WithError(err).
		WithHintf("Invalid fields: %s", strings.Join(fields, ", ")).
		WithReportableDetails(details).
		Mark(ierr.ErrValidation)
}
