package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// presenceTags are the rules that mean "the field was not supplied"
var presenceTags = map[string]bool{
	"required":  true,
	"not_blank": true,
}

// SplitFieldErrors separates fields that are missing from fields that were
// supplied but malformed. Field names are the json names when the validator
// comes from New.
func SplitFieldErrors(err error) (missing, invalid []string) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil, nil
	}
	for _, e := range validationErrors {
		if presenceTags[e.Tag()] {
			missing = append(missing, e.Field())
		} else {
			invalid = append(invalid, e.Field())
		}
	}
	return missing, invalid
}

// FormatValidationErrors converts validator.ValidationErrors to readable messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required", "not_blank":
		return fmt.Sprintf("%s: is required", field)
	case "email", "mailbox":
		return fmt.Sprintf("%s: is not a valid email address", field)
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", field, e.Param())
	default:
		return fmt.Sprintf("%s: failed validation (%s)", field, e.Tag())
	}
}
