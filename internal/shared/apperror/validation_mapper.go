package apperror

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// recipient_phone -> Recipient Phone
func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// MapValidationError turns the first binding failure into a field-identified
// INVALID_INPUT error. Field names come from json tags (see Init).
func MapValidationError(err error) *AppError {
	var errs validator.ValidationErrors
	if errors.As(err, &errs) && len(errs) > 0 {
		e := errs[0]
		field := e.Field()

		var appErr *AppError
		switch e.Tag() {
		case "required":
			appErr = RequiredField(formatFieldName(field))
		default:
			appErr = InvalidField(formatFieldName(field))
		}
		return appErr.WithDetails(FieldError{Field: field, Reason: e.Tag()})
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
