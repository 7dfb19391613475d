package apperror

import (
	"errors"
	"net/http"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FieldErrors is the details payload of a validation failure.
// Fields maps field name to message; Errors is the same set as a flat list.
type FieldErrors struct {
	Fields map[string]string `json:"fields,omitempty"`
	Errors []string          `json:"errors"`
}

func formatFieldName(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	caser := cases.Title(language.English)
	return caser.String(s)
}

// ValidationFailed builds a VALIDATION_ERROR carrying every field error.
func ValidationFailed(fields map[string]string) *AppError {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]string, 0, len(names))
	for _, name := range names {
		list = append(list, fields[name])
	}

	return New(CodeValidation, "One or more fields are invalid", http.StatusBadRequest).
		WithDetails(FieldErrors{Fields: fields, Errors: list})
}

// ValidationList builds a VALIDATION_ERROR from messages not tied to a single field.
func ValidationList(message string, errs []string) *AppError {
	return New(CodeValidation, message, http.StatusBadRequest).
		WithDetails(FieldErrors{Errors: errs})
}

func MapValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return Wrap(err, CodeInvalidInput, "Invalid input", http.StatusBadRequest)
	}

	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		human := formatFieldName(e.Field())
		switch e.Tag() {
		case "required":
			fields[e.Field()] = RequiredField(human).Message
		case "gt", "gte", "min":
			fields[e.Field()] = human + " must be at least " + minimumOf(e)
		case "oneof":
			fields[e.Field()] = human + " must be one of: " + e.Param()
		default:
			fields[e.Field()] = InvalidField(human).Message
		}
	}

	return ValidationFailed(fields)
}

func minimumOf(e validator.FieldError) string {
	if e.Tag() == "gt" {
		return "greater than " + e.Param()
	}
	return e.Param()
}
