package repository

import (
	"encoding/json"
	"fmt"
	"sync"

	"docid-ocr-corrector/internal/domain"
)

// MemoryReportRepository keeps reports in process memory. It is used when no
// Supabase project is configured and by the CLI.
type MemoryReportRepository struct {
	mu      sync.RWMutex
	reports map[string][]byte
}

// NewMemoryReportRepository creates an empty in-memory repository
func NewMemoryReportRepository() *MemoryReportRepository {
	return &MemoryReportRepository{reports: make(map[string][]byte)}
}

// Save stores a snapshot of the report; later changes to it are not seen
func (r *MemoryReportRepository) Save(report *domain.DocumentCorrection) error {
	if report == nil || report.ReportID == "" {
		return fmt.Errorf("report id is required")
	}

	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	r.mu.Lock()
	r.reports[report.ReportID] = data
	r.mu.Unlock()
	return nil
}

// Get returns a copy of the stored report
func (r *MemoryReportRepository) Get(reportID string) (*domain.DocumentCorrection, error) {
	r.mu.RLock()
	data, ok := r.reports[reportID]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrReportNotFound
	}

	var report domain.DocumentCorrection
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}
