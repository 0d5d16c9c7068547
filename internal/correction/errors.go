package correction

import (
	"errors"
	"fmt"
)

// ErrMalformedConfig is matched by every error NewEngine and LoadTables
// return for an inconsistent rule table or document-ID grammar.
var ErrMalformedConfig = errors.New("malformed correction config")

// ConfigError pins a configuration problem to the field that caused it.
type ConfigError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ConfigError) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Is reports ErrMalformedConfig as a match so callers can use errors.Is.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMalformedConfig
}

func (e *ConfigError) Unwrap() error {
	return e.Cause
}

func configErrorf(field, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Field: field, Message: fmt.Sprintf(format, args...)}
}

func joinProblems(problems []error) error {
	if len(problems) == 1 {
		return problems[0]
	}
	return errors.Join(problems...)
}
