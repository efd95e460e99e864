package format

import (
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/x/ansi"
	"github.com/dustin/go-humanize"
)

const (
	maxColumns   = 8
	maxCellWidth = 48
)

// preferredKeys orders columns and fields; anything else follows alphabetically.
var preferredKeys = []string{
	"id", "task.id", "taskId", "title", "task.title", "name",
	"status", "task.status", "health", "reason", "detail",
	"tier", "score", "priority.tier", "priority.score",
	"section", "date", "nextDue", "streak", "describe",
	"deadlineDate", "task.deadlineDate", "energyType", "importance",
	"updatedAt", "task.updatedAt",
}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	keyStyle    = lipgloss.NewStyle().Bold(true)
	hintStyle   = lipgloss.NewStyle().Faint(true)
)

// WriteText renders the {"data": ..., "_hints": [...]} envelope for people:
// lists become tables and objects become key/value lines.
func WriteText(w io.Writer, v any) error {
	x, err := generic(v)
	if err != nil {
		return err
	}
	body := x
	var hints []string
	if env, ok := x.(map[string]any); ok {
		if d, ok := env["data"]; ok {
			body = d
		}
		if hs, ok := env["_hints"].([]any); ok {
			for _, h := range hs {
				hints = append(hints, fmt.Sprint(h))
			}
		}
	}

	var out string
	switch b := body.(type) {
	case []any:
		out = renderList(b)
	case map[string]any:
		out = renderObject(b)
	default:
		out = cell(b)
	}
	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}
	for _, h := range hints {
		if _, err := fmt.Fprintln(w, hintStyle.Render("hint: "+h)); err != nil {
			return err
		}
	}
	return nil
}

func renderList(items []any) string {
	if len(items) == 0 {
		return "(none)"
	}
	rows := make([]map[string]any, 0, len(items))
	seen := map[string]bool{}
	var keys []string
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			m = map[string]any{"value": it}
		}
		flat := flatten(m)
		rows = append(rows, flat)
		for k, v := range flat {
			if !seen[k] && isScalar(v) {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sortKeys(keys)
	if len(keys) > maxColumns {
		keys = keys[:maxColumns]
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(keys...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, r := range rows {
		cells := make([]string, len(keys))
		for i, k := range keys {
			cells[i] = cell(r[k])
		}
		t.Row(cells...)
	}
	return t.String()
}

func renderObject(m map[string]any) string {
	flat := flatten(m)
	keys := make([]string, 0, len(flat))
	for k := range flat {
		keys = append(keys, k)
	}
	sortKeys(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, "%s: %s\n", keyStyle.Render(k), cell(flat[k]))
	}
	return strings.TrimRight(b.String(), "\n")
}

// flatten lifts one level of nested objects into dotted keys.
func flatten(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if inner, ok := v.(map[string]any); ok {
			for ik, iv := range inner {
				out[k+"."+ik] = iv
			}
			continue
		}
		out[k] = v
	}
	return out
}

func isScalar(v any) bool {
	switch v.(type) {
	case []any, map[string]any:
		return false
	}
	return true
}

func sortKeys(keys []string) {
	rank := func(k string) int {
		if i := slices.Index(preferredKeys, k); i >= 0 {
			return i
		}
		return len(preferredKeys)
	}
	slices.SortStableFunc(keys, func(a, b string) int {
		if ra, rb := rank(a), rank(b); ra != rb {
			return ra - rb
		}
		return strings.Compare(a, b)
	})
}

func cell(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if ts, err := time.Parse(time.RFC3339Nano, x); err == nil {
			if ts.IsZero() {
				return ""
			}
			return humanize.Time(ts)
		}
		return ansi.Truncate(strings.ReplaceAll(x, "\n", " "), maxCellWidth, "…")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		return fmt.Sprintf("[%d]", len(x))
	case map[string]any:
		return fmt.Sprintf("{%d}", len(x))
	default:
		return fmt.Sprint(x)
	}
}
