package format

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID     string  `json:"id"`
	Title  string  `json:"title"`
	Score  float64 `json:"score"`
	Hidden []int   `json:"hidden,omitempty"`
}

func TestWrite_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{}, "edn", false); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWrite_YAMLUsesJSONFieldNames(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, map[string]any{"data": row{ID: "task-1", Title: "A", Score: 0.5}}, "yaml", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "id: task-1") || !strings.Contains(out, "score: 0.5") {
		t.Fatalf("unexpected yaml:\n%s", out)
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("omitempty fields should not appear:\n%s", out)
	}
}

func TestWriteText_ListRendersTableAndHints(t *testing.T) {
	var buf bytes.Buffer
	env := map[string]any{
		"data": []row{
			{ID: "task-1", Title: "Write report", Score: 0.575, Hidden: []int{1}},
			{ID: "task-2", Title: "Call Sam", Score: 0.25},
		},
		"_hints": []string{"focus tasks show <id>"},
	}
	if err := Write(&buf, env, "text", false); err != nil {
		t.Fatalf("Write error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"id", "title", "score", "task-1", "Write report", "0.575", "Call Sam", "hint: focus tasks show <id>"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "hidden") {
		t.Fatalf("non-scalar columns should be dropped:\n%s", out)
	}
	if strings.Index(out, "id") > strings.Index(out, "title") {
		t.Fatalf("expected id column before title:\n%s", out)
	}
}

func TestWriteText_ObjectAndEmptyList(t *testing.T) {
	var buf bytes.Buffer
	obj := map[string]any{"data": map[string]any{
		"task":     map[string]any{"id": "task-1", "title": "A"},
		"priority": map[string]any{"tier": "high"},
	}}
	if err := WriteText(&buf, obj); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "task.id") || !strings.Contains(out, "priority.tier") || !strings.Contains(out, "high") {
		t.Fatalf("unexpected object output:\n%s", out)
	}

	buf.Reset()
	if err := WriteText(&buf, map[string]any{"data": []any{}}); err != nil {
		t.Fatalf("WriteText error: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "(none)" {
		t.Fatalf("expected (none); got %q", buf.String())
	}
}

func TestCell_TruncatesAndFormats(t *testing.T) {
	long := strings.Repeat("x", 100)
	if got := cell(long); len([]rune(got)) > maxCellWidth {
		t.Fatalf("expected truncation; got %d runes", len([]rune(got)))
	}
	if got := cell(float64(3)); got != "3" {
		t.Fatalf("expected 3; got %q", got)
	}
	if got := cell("0001-01-01T00:00:00Z"); got != "" {
		t.Fatalf("zero time should render empty; got %q", got)
	}
}
