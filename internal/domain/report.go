package domain

import (
	"strings"
	"time"

	"docid-ocr-corrector/internal/correction"
)

// PageSeparator joins corrected pages in text output. Text sources split on
// it, so corrected output can be fed back in.
const PageSeparator = "\n\n---\n\n"

// PageCorrection is the engine result for one page (1-indexed).
type PageCorrection struct {
	Page   int                          `json:"page"`
	Result *correction.CorrectionResult `json:"result"`
}

// DocumentRequest carries the OCR text of every page of one document.
type DocumentRequest struct {
	Name  string   `json:"name"`
	Pages []string `json:"pages"`
}

// Validate checks the request before any page is corrected.
func (r *DocumentRequest) Validate() error {
	if len(r.Pages) == 0 {
		return &ValidationError{Field: "pages", Message: "at least one page is required"}
	}
	if len(r.Name) > 255 {
		return &ValidationError{Field: "name", Message: "name must be at most 255 characters"}
	}
	return nil
}

// Totals aggregates the summaries of every page of a document.
type Totals struct {
	Pages         int            `json:"pages"`
	PagesChanged  int            `json:"pages_changed"`
	Fixes         int            `json:"fixes"`
	ByMechanism   map[string]int `json:"by_mechanism"`
	IDsRecognized int            `json:"ids_recognized"`
	IDsModified   int            `json:"ids_modified"`
}

// DocumentCorrection is the stored report of one corrected document.
type DocumentCorrection struct {
	ReportID  string           `json:"report_id"`
	Name      string           `json:"name"`
	Pages     []PageCorrection `json:"pages"`
	Totals    Totals           `json:"totals"`
	CreatedAt time.Time        `json:"created_at"`
}

// Summarize recomputes Totals from Pages.
func (d *DocumentCorrection) Summarize() {
	t := Totals{Pages: len(d.Pages), ByMechanism: make(map[string]int)}
	for _, p := range d.Pages {
		if p.Result == nil {
			continue
		}
		s := p.Result.Summary
		t.Fixes += s.TotalFixes
		t.IDsRecognized += s.IDsRecognized
		t.IDsModified += s.IDsModified
		for m, n := range s.ByMechanism {
			t.ByMechanism[m] += n
		}
		if p.Result.Changed() {
			t.PagesChanged++
		}
	}
	d.Totals = t
}

// CorrectedText joins the corrected pages with PageSeparator.
func (d *DocumentCorrection) CorrectedText() string {
	out := make([]string, 0, len(d.Pages))
	for _, p := range d.Pages {
		if p.Result == nil {
			out = append(out, "")
			continue
		}
		out = append(out, p.Result.Output)
	}
	return strings.Join(out, PageSeparator)
}
