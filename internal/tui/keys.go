package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
)

type keyMap struct {
	Start     key.Binding
	Pause     key.Binding
	Step      key.Binding
	Done      key.Binding
	Exit      key.Binding
	Open      key.Binding
	Back      key.Binding
	Reload    key.Binding
	Quit      key.Binding
	ForceQuit key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Start:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "focus")),
		Pause:     key.NewBinding(key.WithKeys(" ", "p"), key.WithHelp("space", "pause/resume")),
		Step:      key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter", "step done")),
		Done:      key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "task done")),
		Exit:      key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "exit focus")),
		Open:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "details")),
		Back:      key.NewBinding(key.WithKeys("esc", "backspace", "q"), key.WithHelp("esc", "back")),
		Reload:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		ForceQuit: key.NewBinding(key.WithKeys("ctrl+c")),
	}
}

// bindings adapts a per-screen binding set to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

var _ help.KeyMap = bindings(nil)

func (m appModel) helpKeys() bindings {
	switch m.view {
	case viewFocus:
		return bindings{m.keys.Pause, m.keys.Step, m.keys.Done, m.keys.Exit}
	case viewDetail:
		return bindings{m.keys.Back}
	default:
		return bindings{m.keys.Start, m.keys.Open, m.keys.Reload, m.keys.Quit}
	}
}
