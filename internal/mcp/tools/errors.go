package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/usestring/harcheck/internal/loader"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeCanceled     = "CANCELED"
	ErrCodeInternal     = "INTERNAL"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapRunError converts a failed validation run into a coded error.
func WrapRunError(err error) error {
	if err == nil {
		return nil
	}

	var coded *CodedError
	var startupErr *loader.StartupError
	switch {
	case errors.As(err, &startupErr) && errors.Is(err, fs.ErrNotExist):
		coded = &CodedError{
			Code:    ErrCodeNotFound,
			Message: "file not found: " + startupErr.Path,
			Cause:   err,
		}
	case errors.As(err, &startupErr):
		coded = &CodedError{
			Code:    ErrCodeInvalidInput,
			Message: "cannot " + startupErr.Op + " " + startupErr.Path,
			Cause:   startupErr.Err,
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		coded = &CodedError{
			Code:    ErrCodeCanceled,
			Message: "validation canceled",
			Cause:   err,
		}
	default:
		coded = &CodedError{
			Code:    ErrCodeInternal,
			Message: err.Error(),
			Cause:   err,
		}
	}

	slog.Warn("validation run failed",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
