package service

import (
	"errors"
	"fmt"
	"strings"
)

// Every failure the service surfaces is one of these kinds. Controllers map
// them to status codes; nothing here retries.
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrDuplicateUser  = errors.New("username already exists")
	ErrNotFound       = errors.New("not found")
	ErrStorageFailure = errors.New("storage unavailable")
)

// SchemaError reports the required columns absent from an uploaded file.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return "missing required columns: " + strings.Join(e.Missing, ", ")
}

// ProcessingError wraps the cause of a parse or aggregation failure.
type ProcessingError struct {
	Cause error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("failed to process file: %v", e.Cause)
}

func (e *ProcessingError) Unwrap() error {
	return e.Cause
}

func storageFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageFailure, err)
}
