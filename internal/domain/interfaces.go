package domain

import (
	"context"

	"docid-ocr-corrector/internal/correction"
)

// CorrectionService defines the use-case operations around the correction engine
type CorrectionService interface {
	CorrectPage(ctx context.Context, page int, text string) (*PageCorrection, error)
	CorrectDocument(ctx context.Context, req DocumentRequest) (*DocumentCorrection, error)
	GetReport(reportID string) (*DocumentCorrection, error)
	Rules() []correction.Rule
	Grammar() correction.Grammar
}

// PDFService corrects the text layer of an existing searchable PDF
type PDFService interface {
	CorrectPDF(ctx context.Context, name string, data []byte) (*DocumentCorrection, error)
}

// TextLayerExtractor reads the per-page text layer of a PDF
type TextLayerExtractor interface {
	ValidateFile(data []byte) error
	ExtractPages(ctx context.Context, data []byte) ([]string, error)
}

// TextSource yields the OCR text of a document, one entry per page
type TextSource interface {
	Name() string
	Pages(ctx context.Context) ([]string, error)
}

// ReportRepository defines the interface for correction report storage
type ReportRepository interface {
	Save(report *DocumentCorrection) error
	Get(reportID string) (*DocumentCorrection, error)
}

// Logger defines the interface for logging operations
type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, err error, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
}

// Config defines the interface for configuration management
type Config interface {
	GetServerPort() string
	GetLogLevel() string
	GetMaxFileSize() int64
	GetRulesFile() string
	GetGrammarFile() string
	GetPageConcurrency() int
	GetInputDir() string
	GetOutputDir() string
	GetSupabaseURL() string
	GetSupabaseKey() string
	GetReportsTable() string
}
