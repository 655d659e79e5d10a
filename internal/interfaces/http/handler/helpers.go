package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/GranDen-Corp/ls-erp-sub002/internal/interfaces/http/dto"
	"github.com/go-playground/validator/v10"
)

// formatValidationErrors turns validator errors into field-level details.
// Returns nil for non-validator errors (e.g. JSON syntax errors).
func formatValidationErrors(err error) []dto.ValidationDetail {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	details := make([]dto.ValidationDetail, 0, len(validationErrs))
	for _, fe := range validationErrs {
		details = append(details, dto.ValidationDetail{
			Field:   strings.ToLower(fe.Field()),
			Message: validationMessage(fe),
		})
	}
	return details
}

// validationMessage produces a readable message for a failed validation tag
func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	default:
		return fmt.Sprintf("Failed validation on %q", fe.Tag())
	}
}
