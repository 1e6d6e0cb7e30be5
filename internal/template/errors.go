package template

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTemplate marks templates that parse as JSON but fail
	// structural validation.
	ErrInvalidTemplate = errors.New("invalid template structure")

	// ErrNoColumns marks templates that omit the column list entirely.
	ErrNoColumns = errors.New("template defines no columns")
)

// TemplateError wraps a template loading failure with its source.
// A TemplateError is fatal to the run; no partial validation is attempted.
type TemplateError struct {
	Source  string // "embedded" or the external file path
	Message string
	Err     error
}

func (e *TemplateError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("template %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("template: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}
