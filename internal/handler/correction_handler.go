package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gorilla/mux"

	"docid-ocr-corrector/internal/domain"
	apperrors "docid-ocr-corrector/pkg/errors"
)

// maxJSONBody caps JSON request bodies; uploads use the configured file limit
const maxJSONBody = 10 << 20

// CorrectionHandler serves the correction API
type CorrectionHandler struct {
	corrections domain.CorrectionService
	pdfs        domain.PDFService
	maxFileSize int64
	logger      domain.Logger
}

// NewCorrectionHandler creates a new correction handler
func NewCorrectionHandler(
	corrections domain.CorrectionService,
	pdfs domain.PDFService,
	maxFileSize int64,
	logger domain.Logger,
) *CorrectionHandler {
	return &CorrectionHandler{
		corrections: corrections,
		pdfs:        pdfs,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

type pageRequest struct {
	Text string `json:"text"`
	Page int    `json:"page"`
}

// CorrectPage handles POST /api/v1/corrections
func (h *CorrectionHandler) CorrectPage(w http.ResponseWriter, r *http.Request) {
	var req pageRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}
	if req.Page == 0 {
		req.Page = 1
	}

	pc, err := h.corrections.CorrectPage(r.Context(), req.Page, req.Text)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pc)
}

// CorrectDocument handles POST /api/v1/documents/corrections
func (h *CorrectionHandler) CorrectDocument(w http.ResponseWriter, r *http.Request) {
	var req domain.DocumentRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.fail(w, err)
		return
	}

	doc, err := h.corrections.CorrectDocument(r.Context(), req)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// CorrectPDF handles POST /api/v1/documents/corrections/pdf with a
// multipart "file" field
func (h *CorrectionHandler) CorrectPDF(w http.ResponseWriter, r *http.Request) {
	if h.maxFileSize > 0 {
		// Leave room for the multipart envelope around the file itself.
		r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+1<<20)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.fail(w, err)
			return
		}
		writeAppError(w, apperrors.NewValidationError("file is required"))
		return
	}
	defer file.Close()

	// Sanitize filename (strip any path components)
	name := strings.TrimSpace(filepath.Base(header.Filename))
	if name == "" || name == "." || name == string(filepath.Separator) {
		name = "document.pdf"
	}
	if strings.ToLower(filepath.Ext(name)) != ".pdf" {
		writeAppError(w, apperrors.NewValidationError("unsupported file type", "only .pdf uploads are accepted"))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.fail(w, err)
		return
	}

	doc, err := h.pdfs.CorrectPDF(r.Context(), name, data)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// GetReport handles GET /api/v1/reports/{id}
func (h *CorrectionHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID := mux.Vars(r)["id"]
	if reportID == "" {
		writeAppError(w, apperrors.NewValidationError("report id is required"))
		return
	}

	report, err := h.corrections.GetReport(reportID)
	if err != nil {
		h.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetRules handles GET /api/v1/rules
func (h *CorrectionHandler) GetRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{"rules": h.corrections.Rules()})
}

// GetGrammar handles GET /api/v1/grammar
func (h *CorrectionHandler) GetGrammar(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.corrections.Grammar())
}

func (h *CorrectionHandler) decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return err
		}
		return apperrors.NewValidationError("invalid JSON body", err.Error())
	}
	return nil
}

func (h *CorrectionHandler) fail(w http.ResponseWriter, err error) {
	appErr := toAppError(err)
	if apperrors.GetStatusCode(appErr) >= http.StatusInternalServerError {
		h.logger.Error("Request failed", err, "type", appErr.Type)
	} else {
		h.logger.Debug("Request rejected", "type", appErr.Type, "error", err)
	}
	writeAppError(w, appErr)
}
