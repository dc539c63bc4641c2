// Package ui is the full-screen terminal front end: a scrollback REPL over a
// shell session, with command history and an opt-in update check.
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/appengine-ltd/craft-it/internal/shell"
)

type AppConfig struct {
	Version   string
	Commit    string
	BuildDate string
	NoUpdate  bool

	// Greeting, when set, is shown above the prompt on startup.
	Greeting string
}

type App struct {
	cfg     AppConfig
	session *shell.Session
}

func NewApp(cfg AppConfig, session *shell.Session) *App {
	return &App{cfg: cfg, session: session}
}

func (a *App) Run() error {
	m := newReplModel(a.cfg, a.session)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// --- Styles (retro green) ---
var (
	green       = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	brightGreen = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	dimGreen    = lipgloss.NewStyle().Foreground(lipgloss.Color("22"))
	border      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
)
