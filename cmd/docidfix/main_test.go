package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docid-ocr-corrector/internal/domain"
)

func setEnv(t *testing.T, in, out string) {
	t.Helper()
	for _, k := range []string{"RULES_FILE", "GRAMMAR_FILE", "PAGE_CONCURRENCY", "MAX_FILE_SIZE"} {
		t.Setenv(k, "")
	}
	t.Setenv("INPUT_DIR", in)
	t.Setenv("OUTPUT_DIR", out)
}

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunStdin(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "in"), filepath.Join(dir, "out"))

	code, stdout, stderr := runCLI(t, "ref 26437-RIA-0OI-DR-CLG-PC-0OOO1"+domain.PageSeparator+"PRII", "-")
	if code != exitOK {
		t.Fatalf("run returned %d: %s", code, stderr)
	}
	want := "ref 26437-RIA-001-DR-CLG-PC-00001" + domain.PageSeparator + "PR1"
	if stdout != want {
		t.Fatalf("stdout = %q, want %q", stdout, want)
	}
	if !strings.Contains(stderr, "Document-ID corrections:") || !strings.Contains(stderr, "Page 2") {
		t.Fatalf("expected report on stderr, got %q", stderr)
	}
	if strings.Contains(stderr, "\033[") {
		t.Fatal("report for stdin must not be coloured")
	}
}

func TestRunFileWithOutput(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "in"), filepath.Join(dir, "out"))
	src := filepath.Join(dir, "scan.txt")
	if err := os.WriteFile(src, []byte("OOI\fclean\f"), 0o644); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "fixed.md")

	code, stdout, stderr := runCLI(t, "", "-o", out, src)
	if code != exitOK {
		t.Fatalf("run returned %d: %s", code, stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("output not written: %v", err)
	}
	if string(data) != "001"+domain.PageSeparator+"clean" {
		t.Fatalf("unexpected corrected text %q", data)
	}
	if !strings.Contains(stdout, "scan.txt") || !strings.Contains(stdout, "1 correction(s) applied across 2 page(s).") {
		t.Fatalf("unexpected report %q", stdout)
	}
}

func TestRunMarkdownSidecar(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "in"), filepath.Join(dir, "out"))
	a := filepath.Join(dir, "a.md")
	b := filepath.Join(dir, "b.txt")
	os.WriteFile(a, []byte("0TH"), 0o644)
	os.WriteFile(b, []byte("nothing"), 0o644)

	code, stdout, stderr := runCLI(t, "", "-md", a, b)
	if code != exitOK {
		t.Fatalf("run returned %d: %s", code, stderr)
	}
	got, err := os.ReadFile(filepath.Join(dir, "a.corrected.md"))
	if err != nil || string(got) != "OTH" {
		t.Fatalf("unexpected sidecar %q (%v)", got, err)
	}
	if _, err := os.Stat(filepath.Join(dir, "b.corrected.md")); err != nil {
		t.Fatalf("expected sidecar for b.txt: %v", err)
	}
	if !strings.Contains(stdout, "2 file(s)") {
		t.Fatalf("expected run totals, got %q", stdout)
	}
}

func TestRunFolderMode(t *testing.T) {
	dir := t.TempDir()
	in, out := filepath.Join(dir, "in"), filepath.Join(dir, "out")
	setEnv(t, in, out)
	os.MkdirAll(in, 0o755)
	os.WriteFile(filepath.Join(in, "one.txt"), []byte("IN2 OOI"), 0o644)
	os.WriteFile(filepath.Join(in, "skip.docx"), []byte("OOI"), 0o644)

	code, _, stderr := runCLI(t, "", "-json")
	if code != exitOK {
		t.Fatalf("run returned %d: %s", code, stderr)
	}
	got, err := os.ReadFile(filepath.Join(out, "one.md"))
	if err != nil || string(got) != "IN2 001" {
		t.Fatalf("unexpected folder output %q (%v)", got, err)
	}
	if _, err := os.Stat(filepath.Join(out, "skip.md")); !os.IsNotExist(err) {
		t.Fatal("unsupported files must be skipped")
	}
}

func TestRunFolderModeCreatesInput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in")
	setEnv(t, in, filepath.Join(dir, "out"))

	code, _, stderr := runCLI(t, "")
	if code != exitOK {
		t.Fatalf("run returned %d", code)
	}
	if !strings.Contains(stderr, "No .pdf, .txt or .md files found") {
		t.Fatalf("unexpected stderr %q", stderr)
	}
	if fi, err := os.Stat(in); err != nil || !fi.IsDir() {
		t.Fatalf("expected input folder to be created: %v", err)
	}
}

func TestRunJSON(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "in"), filepath.Join(dir, "out"))
	src := filepath.Join(dir, "id.txt")
	os.WriteFile(src, []byte("26437-RIA-0OI-DR-CLG-PC-0OOO1"), 0o644)

	code, stdout, stderr := runCLI(t, "", "-json", src)
	if code != exitOK {
		t.Fatalf("run returned %d: %s", code, stderr)
	}
	var doc domain.DocumentCorrection
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("stdout is not a JSON report: %v", err)
	}
	if doc.Totals.Fixes != 2 || doc.Name != "id.txt" {
		t.Fatalf("unexpected report %+v", doc.Totals)
	}
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	setEnv(t, filepath.Join(dir, "in"), filepath.Join(dir, "out"))
	badRules := filepath.Join(dir, "rules.json")
	os.WriteFile(badRules, []byte(`[{"pattern":"(","replacement":"x","reason":"broken"}]`), 0o644)
	txt := filepath.Join(dir, "a.txt")
	os.WriteFile(txt, []byte("x"), 0o644)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"-nope"}, exitUsage},
		{"output needs one file", []string{"-o", "x.md", txt, txt}, exitUsage},
		{"stdin twice", []string{"-", "-"}, exitUsage},
		{"stdin twice among files", []string{"-", txt, "-"}, exitUsage},
		{"unsupported extension", []string{filepath.Join(dir, "a.docx")}, exitUsage},
		{"malformed rules", []string{"-rules", badRules, txt}, exitConfig},
		{"missing rules file", []string{"-rules", filepath.Join(dir, "none.json"), txt}, exitConfig},
		{"missing input", []string{filepath.Join(dir, "missing.txt")}, exitFailed},
		{"help", []string{"-h"}, exitOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, "", tt.args...); code != tt.want {
				t.Fatalf("run(%v) = %d, want %d", tt.args, code, tt.want)
			}
		})
	}
}
