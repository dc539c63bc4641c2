package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/appengine-ltd/craft-it/internal/shell"
	"github.com/appengine-ltd/craft-it/internal/update"
)

const scrollbackLimit = 500

type replModel struct {
	cfg     AppConfig
	session *shell.Session

	input   textinput.Model
	lines   []string
	history []string
	histIdx int

	width  int
	height int
	busy   bool
}

func newReplModel(cfg AppConfig, session *shell.Session) replModel {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "help"
	ti.Focus()
	ti.CharLimit = 200

	lines := []string{"Type 'help' for commands, 'quit' to leave."}
	if cfg.Greeting != "" {
		lines = append(lines, cfg.Greeting)
	}
	return replModel{
		cfg:     cfg,
		session: session,
		input:   ti,
		lines:   lines,
		histIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return textinput.Blink
}

type updateResultMsg struct {
	status string
	err    error
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case updateResultMsg:
		m.busy = false
		if msg.err != nil {
			m.lines = m.push(fmt.Sprintf("Update check failed: %v", msg.err))
		} else {
			m.lines = m.push(msg.status)
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			// Ignore input while the update check runs.
			return m, nil
		}
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyUp:
			m.recall(-1)
			return m, nil
		case tea.KeyDown:
			m.recall(1)
			return m, nil
		case tea.KeyEnter:
			return m.submit()
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m replModel) submit() (tea.Model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	m.input.Reset()
	if line == "" {
		return m, nil
	}
	m.history = append(m.history, line)
	m.histIdx = -1
	m.lines = m.push("> " + line)

	if line == "update" {
		if m.cfg.NoUpdate {
			m.lines = m.push("Update checks disabled (--no-update).")
			return m, nil
		}
		m.busy = true
		m.lines = m.push("Checking for updates…")
		return m, checkUpdateCmd(m.cfg.Version)
	}

	res := m.session.Execute(line)
	if res.Message != "" {
		for _, l := range strings.Split(res.Message, "\n") {
			m.lines = m.push(l)
		}
	}
	if res.Quit {
		return m, tea.Quit
	}
	return m, nil
}

// recall moves through command history; dir is -1 for older, 1 for newer.
func (m *replModel) recall(dir int) {
	if len(m.history) == 0 {
		return
	}
	switch {
	case m.histIdx == -1 && dir < 0:
		m.histIdx = len(m.history) - 1
	case m.histIdx >= 0:
		m.histIdx += dir
	}
	if m.histIdx < 0 {
		m.histIdx = 0
	}
	if m.histIdx >= len(m.history) {
		m.histIdx = -1
		m.input.Reset()
		return
	}
	m.input.SetValue(m.history[m.histIdx])
	m.input.CursorEnd()
}

func (m replModel) push(line string) []string {
	lines := append(m.lines, line)
	if len(lines) > scrollbackLimit {
		lines = lines[len(lines)-scrollbackLimit:]
	}
	return lines
}

func (m replModel) View() string {
	title := brightGreen.Render("CRAFT IT") +
		dimGreen.Render(fmt.Sprintf("  v%s (%s) %s", m.cfg.Version, m.cfg.Commit, m.cfg.BuildDate))
	rule := border.Render(strings.Repeat("-", max(20, m.width-2)))

	visible := m.lines
	if m.height > 6 && len(visible) > m.height-5 {
		visible = visible[len(visible)-(m.height-5):]
	}
	body := make([]string, 0, len(visible))
	for _, l := range visible {
		if strings.HasPrefix(l, "> ") {
			body = append(body, brightGreen.Render(l))
		} else {
			body = append(body, green.Render(l))
		}
	}

	footer := dimGreen.Render("↑/↓ history, 'update' to check for updates, ctrl+c to quit")
	return title + "\n" + rule + "\n" +
		strings.Join(body, "\n") + "\n" + rule + "\n" +
		m.input.View() + "\n" + footer + "\n"
}

func checkUpdateCmd(currentVersion string) tea.Cmd {
	return func() tea.Msg {
		// Tiny delay so the UI visibly switches to busy state.
		time.Sleep(150 * time.Millisecond)

		status, err := update.Check(currentVersion)
		if err != nil {
			return updateResultMsg{err: err}
		}
		return updateResultMsg{status: status.String()}
	}
}
