package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tutorctl/tutorctl/internal/session"
)

// Run starts the full-screen chat UI and blocks until the user quits.
func Run(mgr *session.Manager) error {
	p := tea.NewProgram(NewModel(mgr), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
