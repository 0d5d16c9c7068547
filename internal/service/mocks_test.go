package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"docid-ocr-corrector/internal/domain"
)

// Mock implementations for testing
type MockReportRepository struct {
	mu      sync.Mutex
	reports map[string]*domain.DocumentCorrection
	saveErr error
}

func NewMockReportRepository() *MockReportRepository {
	return &MockReportRepository{reports: make(map[string]*domain.DocumentCorrection)}
}

func (m *MockReportRepository) Save(report *domain.DocumentCorrection) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[report.ReportID] = report
	return nil
}

func (m *MockReportRepository) Get(reportID string) (*domain.DocumentCorrection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.reports[reportID]; ok {
		return r, nil
	}
	return nil, domain.ErrReportNotFound
}

type MockLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *MockLogger) Info(msg string, fields ...interface{})  {}
func (l *MockLogger) Debug(msg string, fields ...interface{}) {}
func (l *MockLogger) Warn(msg string, fields ...interface{})  {}
func (l *MockLogger) Error(msg string, err error, fields ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

type MockExtractor struct {
	pages []string
	err   error
}

func (m *MockExtractor) ValidateFile(data []byte) error { return m.err }

func (m *MockExtractor) ExtractPages(_ context.Context, data []byte) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.pages, nil
}

var errSave = errors.New("database unavailable")

// buildPDF writes a minimal single-font PDF with one text line per page.
// An empty string gives a page with no text.
func buildPDF(pages ...string) []byte {
	var buf bytes.Buffer
	var offsets []int
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n")

	kids := make([]string, len(pages))
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>")

	for i, text := range pages {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
			"/Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		content := ""
		if text != "" {
			content = fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s) Tj ET", text)
		}
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}
