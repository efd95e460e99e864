package tui

import (
	"strings"
	"testing"
)

func TestThemePreference(t *testing.T) {
	cases := []struct {
		theme, fgbg string
		dark, ok    bool
	}{
		{theme: "dark", dark: true, ok: true},
		{theme: "LIGHT", fgbg: "15;0", dark: false, ok: true},
		{fgbg: "15;0", dark: true, ok: true},
		{fgbg: "0;15", dark: false, ok: true},
		{fgbg: "garbage", ok: false},
		{ok: false},
	}
	for _, c := range cases {
		t.Setenv("FOCUS_TUI_THEME", c.theme)
		t.Setenv("COLORFGBG", c.fgbg)
		dark, ok := themePreference()
		if dark != c.dark || ok != c.ok {
			t.Fatalf("theme=%q fgbg=%q: got (%v,%v); want (%v,%v)", c.theme, c.fgbg, dark, ok, c.dark, c.ok)
		}
	}
}

func TestRenderMarkdown(t *testing.T) {
	t.Setenv("FOCUS_TUI_THEME", "dark")
	if got := renderMarkdown("   ", 40); got != "" {
		t.Fatalf("expected empty render; got %q", got)
	}
	out := renderMarkdown("# Title\n\nSome **bold** text.", 40)
	if !strings.Contains(out, "Title") || !strings.Contains(out, "bold") {
		t.Fatalf("unexpected render:\n%s", out)
	}
	if strings.HasSuffix(out, "\n") {
		t.Fatalf("expected trailing newlines trimmed")
	}
}
