package document

import (
	"errors"
	"fmt"
)

var (
	// ErrBinaryContent marks input that is not decodable as delimited text.
	ErrBinaryContent = errors.New("binary content")

	// ErrEmptyDocument marks input with no header row.
	ErrEmptyDocument = errors.New("empty document")
)

// ParseError wraps a CSV parse failure. It is fatal to that file's run only;
// data-level anomalies never surface here.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("csv parse: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
