package repository

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"docid-ocr-corrector/internal/domain"
)

// DefaultReportsTable is used when no table name is configured
const DefaultReportsTable = "correction_reports"

// SupabaseReportRepository implements domain.ReportRepository on a Supabase table
type SupabaseReportRepository struct {
	supabaseClient *SupabaseClient
	table          string
	logger         domain.Logger
}

type reportRow struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	TotalFixes int             `json:"total_fixes"`
	PageCount  int             `json:"page_count"`
	Report     json.RawMessage `json:"report"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewSupabaseReportRepository creates a new Supabase report repository
func NewSupabaseReportRepository(supabaseClient *SupabaseClient, table string, logger domain.Logger) *SupabaseReportRepository {
	if table == "" {
		table = DefaultReportsTable
	}
	return &SupabaseReportRepository{
		supabaseClient: supabaseClient,
		table:          table,
		logger:         logger,
	}
}

// Save inserts one row per report
func (r *SupabaseReportRepository) Save(report *domain.DocumentCorrection) error {
	client := r.supabaseClient.DB()
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	row, err := newReportRow(report)
	if err != nil {
		return err
	}

	_, _, err = client.From(r.table).Insert(row, false, "", "", "").Execute()
	if err != nil {
		r.logger.Error("Failed to insert report in Supabase", err,
			"report_id", report.ReportID,
			"report_length", len(row.Report),
		)
		return fmt.Errorf("failed to save report: %w", err)
	}

	r.logger.Debug("Report saved", "report_id", report.ReportID, "table", r.table)
	return nil
}

// Get retrieves a report by ID
func (r *SupabaseReportRepository) Get(reportID string) (*domain.DocumentCorrection, error) {
	client := r.supabaseClient.DB()
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From(r.table).
		Select("*", "", false).
		Eq("id", reportID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get report: %w", err)
	}

	return decodeReportRows(data)
}

func newReportRow(report *domain.DocumentCorrection) (*reportRow, error) {
	if report == nil || report.ReportID == "" {
		return nil, fmt.Errorf("report id is required")
	}

	data, err := encodeReport(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	return &reportRow{
		ID:         report.ReportID,
		Name:       stripNUL(report.Name),
		TotalFixes: report.Totals.Fixes,
		PageCount:  report.Totals.Pages,
		Report:     json.RawMessage(data),
		CreatedAt:  report.CreatedAt,
	}, nil
}

func decodeReportRows(data []byte) (*domain.DocumentCorrection, error) {
	var rows []reportRow
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse report: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrReportNotFound
	}

	var report domain.DocumentCorrection
	if err := json.Unmarshal(rows[0].Report, &report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}
	return &report, nil
}

// stripNUL drops NUL characters, which PostgreSQL rejects in text and
// jsonb columns (22P05). OCR output occasionally has them.
func stripNUL(s string) string {
	return strings.ReplaceAll(s, "\x00", "")
}

// encodeReport marshals report with every NUL removed from its string
// values and keys. Escaped backslashes in the text survive untouched.
func encodeReport(report *domain.DocumentCorrection) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, err
	}
	if !bytes.Contains(data, []byte(`u0000`)) {
		return data, nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return json.Marshal(stripNULValue(doc))
}

func stripNULValue(v interface{}) interface{} {
	switch t := v.(type) {
	case string:
		return stripNUL(t)
	case []interface{}:
		for i := range t {
			t[i] = stripNULValue(t[i])
		}
		return t
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, val := range t {
			out[stripNUL(k)] = stripNULValue(val)
		}
		return out
	default:
		return v
	}
}
