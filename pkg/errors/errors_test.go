package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{"without details", NewNotFoundError("report not found"), "not_found: report not found"},
		{"with details", NewValidationError("invalid request", "pages: at least one page is required"), "validation: invalid request (pages: at least one page is required)"},
		{"config carries cause", NewConfigError("bad rules", errors.New("rules[0].pattern: empty")), "config: bad rules (rules[0].pattern: empty)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsTypeAndStatusThroughWrapping(t *testing.T) {
	cause := errors.New("disk")
	wrapped := fmt.Errorf("saving: %w", NewInternalError("save failed", cause))

	if !IsType(wrapped, ErrorTypeInternal) {
		t.Fatal("expected wrapped error to be internal")
	}
	if IsType(wrapped, ErrorTypeValidation) {
		t.Fatal("did not expect validation type")
	}
	if !errors.Is(wrapped, cause) {
		t.Fatal("expected cause to be reachable")
	}
	if got := GetStatusCode(NewTooLargeError("too big")); got != http.StatusRequestEntityTooLarge {
		t.Fatalf("GetStatusCode = %d", got)
	}
	if got := GetStatusCode(errors.New("plain")); got != http.StatusInternalServerError {
		t.Fatalf("GetStatusCode(plain) = %d", got)
	}
}
