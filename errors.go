package tagcompiler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldError represents a validation error for a specific configuration field
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiError is a collection of field errors
type MultiError []FieldError

func (m MultiError) Error() string {
	if len(m) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range m {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// ValidationToMultiError converts go-playground/validator errors on a
// compiler or CLI config into one FieldError per failed field
func ValidationToMultiError(err error) MultiError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return nil
	}

	fieldErrors := make(MultiError, 0, len(validationErrs))
	for _, e := range validationErrs {
		var message string
		switch e.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", e.Field())
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", e.Field(), e.Param())
		case "alpha":
			message = fmt.Sprintf("%s must contain letters only", e.Field())
		case "startswith":
			message = fmt.Sprintf("%s must start with %q", e.Field(), e.Param())
		default:
			message = fmt.Sprintf("%s is invalid (%s)", e.Field(), e.Tag())
		}

		fieldErrors = append(fieldErrors, FieldError{
			Field:   strings.ToLower(e.Field()),
			Message: message,
		})
	}

	return fieldErrors
}

// CompileError reports a failed compile of one component file
type CompileError struct {
	File  string
	Stage string
	Err   error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s (%s): %v", e.File, e.Stage, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}

const (
	stageParse       = "parse"
	stageTemplate    = "template"
	stageCSS         = "css"
	stageEmit        = "emit"
	stagePostprocess = "postprocess"
)
