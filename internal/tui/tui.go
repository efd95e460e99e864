package tui

import (
	"focus-tools/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

// Run opens the interactive queue and focus view until the user quits.
func Run(s Persister, db *store.DB, opts Options) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(s, db, opts)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
