package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"

	"docid-ocr-corrector/internal/domain"
)

var pdfMagic = []byte("%PDF-")

// FitzTextExtractor reads the existing text layer of a searchable PDF
type FitzTextExtractor struct {
	maxFileSize int64
	logger      domain.Logger
}

// NewFitzTextExtractor creates an extractor; maxFileSize <= 0 means no limit
func NewFitzTextExtractor(maxFileSize int64, logger domain.Logger) *FitzTextExtractor {
	return &FitzTextExtractor{
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// ValidateFile checks size and the PDF header
func (e *FitzTextExtractor) ValidateFile(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty file", domain.ErrInvalidFile)
	}
	if e.maxFileSize > 0 && int64(len(data)) > e.maxFileSize {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrFileTooLarge, len(data), e.maxFileSize)
	}
	if !bytes.HasPrefix(data, pdfMagic) {
		return fmt.Errorf("%w: missing %%PDF- header", domain.ErrInvalidFile)
	}
	return nil
}

// ExtractPages returns the text of every page, in page order. Page text is
// left untouched so fix offsets stay meaningful against it.
func (e *FitzTextExtractor) ExtractPages(ctx context.Context, data []byte) ([]string, error) {
	if err := e.ValidateFile(data); err != nil {
		return nil, err
	}

	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open PDF: %v", domain.ErrInvalidFile, err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	pages := make([]string, 0, numPages)
	hasText := false
	for i := 0; i < numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		text, err := doc.Text(i)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", i+1, err)
		}
		if strings.TrimSpace(text) != "" {
			hasText = true
		}
		e.logger.Debug("PDF page extracted", "page", i+1, "total", numPages, "chars", len(text))
		pages = append(pages, text)
	}

	if !hasText {
		return nil, domain.ErrNoTextLayer
	}
	return pages, nil
}

// PDFService corrects the text layer of uploaded PDFs
type PDFService struct {
	extractor   domain.TextLayerExtractor
	corrections domain.CorrectionService
	logger      domain.Logger
}

// NewPDFService creates a new PDF service instance
func NewPDFService(
	extractor domain.TextLayerExtractor,
	corrections domain.CorrectionService,
	logger domain.Logger,
) *PDFService {
	return &PDFService{
		extractor:   extractor,
		corrections: corrections,
		logger:      logger,
	}
}

// CorrectPDF extracts the text layer and corrects it as one document
func (s *PDFService) CorrectPDF(ctx context.Context, name string, data []byte) (*domain.DocumentCorrection, error) {
	pages, err := s.extractor.ExtractPages(ctx, data)
	if err != nil {
		s.logger.Warn("PDF text extraction failed", "name", name, "error", err)
		return nil, err
	}
	return s.corrections.CorrectDocument(ctx, domain.DocumentRequest{Name: name, Pages: pages})
}
