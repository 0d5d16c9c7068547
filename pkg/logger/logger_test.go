package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level string) (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := New(level, &buf)
	l.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }
	return l, &buf
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{" warn ", WARN},
		{"warning", WARN},
		{"error", ERROR},
		{"", INFO},
		{"verbose", INFO},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseLevel(tt.in); got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestAppLogger_Format(t *testing.T) {
	l, buf := newTestLogger("debug")

	l.Info("page corrected", "page", 3, "fixes", 2)

	want := "[2026-03-04 05:06:07] INFO: page corrected page=3 fixes=2\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestAppLogger_ErrorIncludesCause(t *testing.T) {
	l, buf := newTestLogger("info")

	l.Error("save failed", errors.New("boom"), "report_id", "abc", "dangling")

	got := buf.String()
	if !strings.Contains(got, "ERROR: save failed error=boom report_id=abc") {
		t.Fatalf("unexpected line %q", got)
	}
	if strings.Contains(got, "dangling") {
		t.Fatalf("dangling key should be dropped: %q", got)
	}
}

func TestAppLogger_LevelFiltering(t *testing.T) {
	l, buf := newTestLogger("warn")

	l.Debug("hidden")
	l.Info("hidden")
	l.Warn("shown")
	l.Error("shown too", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
}
