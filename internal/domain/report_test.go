package domain

import (
	"testing"

	"docid-ocr-corrector/internal/correction"
)

// TestDocumentRequest_Validate tests that DocumentRequest.Validate() works correctly.
func TestDocumentRequest_Validate(t *testing.T) {
	long := make([]byte, 256)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name    string
		req     DocumentRequest
		wantErr bool
		errMsg  string
	}{
		{
			name: "Valid request",
			req:  DocumentRequest{Name: "drawing.pdf", Pages: []string{"page one"}},
		},
		{
			// An empty page is still a page
			name: "Empty page text",
			req:  DocumentRequest{Pages: []string{""}},
		},
		{
			name:    "No pages",
			req:     DocumentRequest{Name: "drawing.pdf"},
			wantErr: true,
			errMsg:  "pages: at least one page is required",
		},
		{
			name:    "Name too long",
			req:     DocumentRequest{Name: string(long), Pages: []string{"x"}},
			wantErr: true,
			errMsg:  "name: name must be at most 255 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("DocumentRequest.Validate() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr && err.Error() != tt.errMsg {
				t.Errorf("DocumentRequest.Validate() error = %v, want %v", err.Error(), tt.errMsg)
			}
		})
	}
}

// TestDocumentCorrection_Summarize tests that totals add up across pages.
func TestDocumentCorrection_Summarize(t *testing.T) {
	engine := correction.Default()
	doc := &DocumentCorrection{
		Pages: []PageCorrection{
			{Page: 1, Result: engine.Correct("26437-RIA-0OI-DR-CLG-PC-0OOO1")},
			{Page: 2, Result: engine.Correct("nothing to fix")},
			{Page: 3, Result: engine.Correct("OOI and 26437-RIA-001-DR-CLG-PC-00001")},
		},
	}

	doc.Summarize()

	if doc.Totals.Pages != 3 {
		t.Fatalf("expected 3 pages, got %d", doc.Totals.Pages)
	}
	if doc.Totals.PagesChanged != 2 {
		t.Fatalf("expected 2 changed pages, got %d", doc.Totals.PagesChanged)
	}
	if doc.Totals.Fixes != 3 {
		t.Fatalf("expected 3 fixes, got %d", doc.Totals.Fixes)
	}
	if doc.Totals.IDsRecognized != 2 || doc.Totals.IDsModified != 1 {
		t.Fatalf("unexpected id counts: %+v", doc.Totals)
	}
	if doc.Totals.ByMechanism["document-id:sequence"] != 1 {
		t.Fatalf("unexpected mechanism counts: %+v", doc.Totals.ByMechanism)
	}
}

// TestDocumentCorrection_CorrectedText tests page joining.
func TestDocumentCorrection_CorrectedText(t *testing.T) {
	engine := correction.Default()
	doc := &DocumentCorrection{
		Pages: []PageCorrection{
			{Page: 1, Result: engine.Correct("OOI")},
			{Page: 2, Result: nil},
			{Page: 3, Result: engine.Correct("end")},
		},
	}

	want := "001" + PageSeparator + "" + PageSeparator + "end"
	if got := doc.CorrectedText(); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
