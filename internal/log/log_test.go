package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"focus-tools/internal/mutate"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Fatalf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLogger_LevelFilter(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Format: FormatText, Output: &buf})
	l.Info("hidden")
	l.Warn("shown", "task", "task-1")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("info should be filtered:\n%s", out)
	}
	if !strings.Contains(out, "shown") || !strings.Contains(out, "task=task-1") {
		t.Fatalf("expected warn line:\n%s", out)
	}
	if l.Enabled(slog.LevelDebug) {
		t.Fatalf("debug should be disabled")
	}
}

func TestLogger_WithErrorCarriesNotFoundFields(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Format: FormatJSON, Output: &buf})
	err := fmt.Errorf("load: %w", mutate.NotFoundError{Kind: "task", ID: "task-9"})
	l.WithError(err).Error("lookup failed")

	var rec map[string]any
	if e := json.Unmarshal(buf.Bytes(), &rec); e != nil {
		t.Fatalf("expected one json record: %v\n%s", e, buf.String())
	}
	if rec["kind"] != "task" || rec["id"] != "task-9" {
		t.Fatalf("expected kind/id fields; got %+v", rec)
	}

	buf.Reset()
	l.WithError(errors.New("boom")).Error("other")
	if strings.Contains(buf.String(), `"kind"`) {
		t.Fatalf("plain errors should not carry kind:\n%s", buf.String())
	}
	if l.WithError(nil) != l {
		t.Fatalf("nil error should return the same logger")
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	if l.Enabled(slog.LevelError) {
		t.Fatalf("discard logger should drop errors")
	}
}
