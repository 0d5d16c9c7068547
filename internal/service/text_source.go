package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"docid-ocr-corrector/internal/domain"
)

// SplitPages splits extracted text into pages. Form feeds win over the
// markdown separator; a trailing form feed does not make an extra page.
func SplitPages(text string) []string {
	if strings.Contains(text, "\f") {
		pages := strings.Split(text, "\f")
		if len(pages) > 1 && strings.TrimSpace(pages[len(pages)-1]) == "" {
			pages = pages[:len(pages)-1]
		}
		return pages
	}
	return strings.Split(text, domain.PageSeparator)
}

// FileTextSource reads the pages of a plain text or markdown file
type FileTextSource struct {
	path string
}

// NewFileTextSource creates a text source over path
func NewFileTextSource(path string) *FileTextSource {
	return &FileTextSource{path: path}
}

// Name returns the base name of the file
func (s *FileTextSource) Name() string { return filepath.Base(s.path) }

// Pages reads the file and splits it into pages
func (s *FileTextSource) Pages(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	return SplitPages(strings.ToValidUTF8(string(data), "")), nil
}

// PDFTextSource reads the text layer of a PDF file
type PDFTextSource struct {
	path      string
	extractor domain.TextLayerExtractor
}

// NewPDFTextSource creates a text source over the PDF at path
func NewPDFTextSource(path string, extractor domain.TextLayerExtractor) *PDFTextSource {
	return &PDFTextSource{path: path, extractor: extractor}
}

// Name returns the base name of the file
func (s *PDFTextSource) Name() string { return filepath.Base(s.path) }

// Pages extracts one entry per PDF page
func (s *PDFTextSource) Pages(ctx context.Context) ([]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.path, err)
	}
	pages, err := s.extractor.ExtractPages(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.path, err)
	}
	return pages, nil
}

// NewTextSource picks a source by file extension
func NewTextSource(path string, extractor domain.TextLayerExtractor) (domain.TextSource, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".txt", ".md":
		return NewFileTextSource(path), nil
	case ".pdf":
		return NewPDFTextSource(path, extractor), nil
	default:
		return nil, fmt.Errorf("%w: unsupported file type %q", domain.ErrInvalidFile, filepath.Ext(path))
	}
}
