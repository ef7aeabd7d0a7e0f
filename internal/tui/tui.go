package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"plazo/internal/store"
)

// Run starts the interactive TUI against an open store.
func Run(ctx context.Context, s *store.Store, opts ...Option) error {
	applyColorProfilePreference()
	applyThemePreference()
	m := newAppModel(ctx, s, opts...)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
