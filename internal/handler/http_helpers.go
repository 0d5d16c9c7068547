package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"docid-ocr-corrector/internal/correction"
	"docid-ocr-corrector/internal/domain"
	apperrors "docid-ocr-corrector/pkg/errors"
)

type errorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response (helper function)
func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, errorResponse{Error: message})
}

// writeAppError writes err with the status its AppError carries, or 500
func writeAppError(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	writeJSON(w, apperrors.GetStatusCode(err), errorResponse{
		Error:   appErr.Message,
		Type:    string(appErr.Type),
		Details: appErr.Details,
	})
}

// toAppError maps service and engine errors onto HTTP-facing errors
func toAppError(err error) *apperrors.AppError {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var validationErr *domain.ValidationError
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &validationErr):
		return apperrors.NewValidationError("invalid request", validationErr.Error())
	case errors.As(err, &maxBytesErr), errors.Is(err, domain.ErrFileTooLarge):
		return apperrors.NewTooLargeError("request body too large")
	case errors.Is(err, domain.ErrReportNotFound):
		return apperrors.NewNotFoundError("report not found")
	case errors.Is(err, domain.ErrInvalidFile):
		return apperrors.NewValidationError("invalid file", err.Error())
	case errors.Is(err, domain.ErrNoTextLayer):
		return apperrors.NewProcessingError("pdf has no text layer to correct", err)
	case errors.Is(err, correction.ErrMalformedConfig):
		return apperrors.NewConfigError("correction tables are malformed", err)
	default:
		return apperrors.NewInternalError("internal error", err)
	}
}
