package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docid-ocr-corrector/internal/correction"
	"docid-ocr-corrector/internal/domain"
)

func TestRender_DocumentIDCorrections(t *testing.T) {
	res := correction.Default().Correct("26437-RIA-0OI-DR-CLG-PC-0OOO1")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, 1, res, Options{}))

	want := "\n  Page 1\n" +
		"    Document-ID corrections:\n" +
		"          26437-RIA-0OI-DR-CLG-PC-0OOO1\n" +
		"          26437-RIA-001-DR-CLG-PC-00001\n" +
		"            0OI → 001\n" +
		"            0OOO1 → 00001\n" +
		"    Length: 29 → 29  (+0)\n"
	assert.Equal(t, want, buf.String())
}

func TestRender_RuleCorrectionsGroupedInFirstSeenOrder(t *testing.T) {
	res := correction.Default().Correct("PRI OOI PRII OOI 0TH")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, 2, res, Options{}))
	out := buf.String()

	assert.Contains(t, out, "Rule corrections:")
	assert.NotContains(t, out, "Document-ID corrections:")

	lines := strings.Split(out, "\n")
	var rules []string
	for _, l := range lines {
		if strings.Contains(l, "→") && strings.Contains(l, "×") {
			rules = append(rules, strings.TrimSpace(l))
		}
	}
	require.Len(t, rules, 3)
	assert.Equal(t, "→ OOI → 001  [O=0, I=1]  ×2", rules[0])
	assert.Equal(t, "→ PR{I|II|1} → PR1  ×2", rules[1])
	assert.Equal(t, "→ 0TH → OTH  [O over-zeroed]  ×1", rules[2])
}

func TestRender_NoCorrections(t *testing.T) {
	res := correction.Default().Correct("clean text")

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, 3, res, Options{}))

	assert.Equal(t, "\n  Page 3\n    ✓ no corrections needed\n", buf.String())
}

func TestRender_LengthUsesGrouping(t *testing.T) {
	res := &correction.CorrectionResult{
		Input:  strings.Repeat("a", 1500) + "PRII",
		Output: strings.Repeat("a", 1500) + "PR1",
		Fixes: []correction.Fix{{
			Pass: correction.PassLiteral, Mechanism: "PR{I|II|1} → PR1", Before: "PRII", After: "PR1",
		}},
	}

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, 1, res, Options{}))

	assert.Contains(t, buf.String(), "Length: 1,504 → 1,503  (-1)")
}

func TestRender_Color(t *testing.T) {
	res := correction.Default().Correct("clean")

	var plain, colored bytes.Buffer
	require.NoError(t, Render(&plain, 1, res, Options{}))
	require.NoError(t, Render(&colored, 1, res, Options{Color: true}))

	assert.NotContains(t, plain.String(), "\033[")
	assert.Contains(t, colored.String(), "\033[32m✓\033[0m")
}

func TestRenderTotals(t *testing.T) {
	tests := []struct {
		name   string
		totals domain.Totals
		want   string
	}{
		{"with fixes", domain.Totals{Pages: 4, Fixes: 1234}, "1,234 correction(s) applied across 4 page(s)."},
		{"clean", domain.Totals{Pages: 1}, "No corrections needed, OCR output looked clean."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, RenderTotals(&buf, tt.totals, Options{}))
			assert.Contains(t, buf.String(), tt.want)
		})
	}
}

func TestRenderDocument(t *testing.T) {
	engine := correction.Default()
	doc := &domain.DocumentCorrection{
		Name: "plan.pdf",
		Pages: []domain.PageCorrection{
			{Page: 1, Result: engine.Correct("OOI")},
			{Page: 2, Result: engine.Correct("ok")},
		},
	}
	doc.Summarize()

	var buf bytes.Buffer
	require.NoError(t, RenderDocument(&buf, doc, Options{}))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "  plan.pdf\n"))
	assert.Contains(t, out, "Page 1")
	assert.Contains(t, out, "Page 2")
	assert.Contains(t, out, "1 correction(s) applied across 2 page(s).")
}
