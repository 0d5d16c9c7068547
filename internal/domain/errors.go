package domain

import "errors"

// Domain errors
var (
	ErrReportNotFound = errors.New("report not found")
	ErrInvalidFile    = errors.New("invalid file")
	ErrFileTooLarge   = errors.New("file too large")
	ErrNoTextLayer    = errors.New("pdf has no text layer")
)

// ValidationError represents a validation error with field and message information.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}
