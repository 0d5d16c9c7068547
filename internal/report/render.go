// Package report renders correction results as the console report printed by
// the CLI.
package report

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"docid-ocr-corrector/internal/correction"
	"docid-ocr-corrector/internal/domain"
)

const indent = "      "

// Options controls rendering.
type Options struct {
	// Color enables ANSI escape sequences.
	Color bool
}

type palette struct {
	on bool
}

func (p palette) wrap(code, s string) string {
	if !p.on {
		return s
	}
	return code + s + "\033[0m"
}

func (p palette) hdr(s string) string  { return p.wrap("\033[1m\033[36m", s) }
func (p palette) ok(s string) string   { return p.wrap("\033[32m", s) }
func (p palette) warn(s string) string { return p.wrap("\033[33m", s) }
func (p palette) hi(s string) string   { return p.wrap("\033[35m", s) }
func (p palette) dim(s string) string  { return p.wrap("\033[2m", s) }
func (p palette) bold(s string) string { return p.wrap("\033[1m", s) }

var printer = message.NewPrinter(language.English)

type mechanismCount struct {
	name string
	n    int
}

// literalCounts groups literal fixes by mechanism in first-seen order.
func literalCounts(fixes []correction.Fix) []mechanismCount {
	var out []mechanismCount
	seen := make(map[string]int)
	for _, f := range fixes {
		if f.Pass != correction.PassLiteral {
			continue
		}
		i, ok := seen[f.Mechanism]
		if !ok {
			i = len(out)
			seen[f.Mechanism] = i
			out = append(out, mechanismCount{name: f.Mechanism})
		}
		out[i].n++
	}
	return out
}

// Render writes the report of one corrected page.
func Render(w io.Writer, page int, res *correction.CorrectionResult, opts Options) error {
	p := palette{on: opts.Color}
	bw := bufio.NewWriter(w)

	printer.Fprintf(bw, "\n  %s\n", p.bold(printer.Sprintf("Page %d", page)))

	if res == nil || len(res.Fixes) == 0 {
		printer.Fprintf(bw, "    %s no corrections needed\n", p.ok("✓"))
		return bw.Flush()
	}

	if counts := literalCounts(res.Fixes); len(counts) > 0 {
		printer.Fprintf(bw, "    %s\n", p.hdr("Rule corrections:"))
		for _, c := range counts {
			printer.Fprintf(bw, "    %s%s %s  %s\n", indent, p.ok("→"), c.name, p.dim(printer.Sprintf("×%d", c.n)))
		}
	}

	var changed []correction.DocumentID
	for _, id := range res.DocumentIDs {
		if id.Changed() {
			changed = append(changed, id)
		}
	}
	if len(changed) > 0 {
		printer.Fprintf(bw, "    %s\n", p.hdr("Document-ID corrections:"))
		for _, id := range changed {
			printer.Fprintf(bw, "    %s%s\n", indent, p.warn(id.Raw))
			printer.Fprintf(bw, "    %s%s\n", indent, p.ok(id.Corrected))
			for _, seg := range id.Segments {
				if seg.Changed() {
					printer.Fprintf(bw, "    %s  %s → %s\n", indent, p.dim(seg.Text), p.hi(seg.Corrected))
				}
			}
		}
	}

	if res.Changed() {
		before := utf8.RuneCountInString(res.Input)
		after := utf8.RuneCountInString(res.Output)
		sign := "+"
		if after < before {
			sign = ""
		}
		printer.Fprintf(bw, "    %s\n", p.dim(printer.Sprintf("Length: %d → %d  (%s%d)", before, after, sign, after-before)))
	}

	return bw.Flush()
}

// RenderDocument writes the name header, every page and the document footer.
func RenderDocument(w io.Writer, doc *domain.DocumentCorrection, opts Options) error {
	p := palette{on: opts.Color}
	if _, err := printer.Fprintf(w, "  %s\n", p.bold(doc.Name)); err != nil {
		return err
	}
	for _, pc := range doc.Pages {
		if err := Render(w, pc.Page, pc.Result, opts); err != nil {
			return err
		}
	}
	return RenderTotals(w, doc.Totals, opts)
}

// RenderTotals writes the footer for one document or a whole run.
func RenderTotals(w io.Writer, t domain.Totals, opts Options) error {
	p := palette{on: opts.Color}
	rule := p.dim(strings.Repeat("═", 60))

	var line string
	if t.Fixes > 0 {
		line = printer.Sprintf("  %s  %s applied across %d page(s).",
			p.ok("✓ Done."), p.warn(printer.Sprintf("%d correction(s)", t.Fixes)), t.Pages)
	} else {
		line = printer.Sprintf("  %s  No corrections needed, OCR output looked clean.", p.ok("✓ Done."))
	}

	_, err := printer.Fprintf(w, "%s\n%s\n%s\n", rule, line, rule)
	return err
}
