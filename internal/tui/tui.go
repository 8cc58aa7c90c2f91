// Package tui provides a Bubble Tea dashboard that shows tracked files and
// their active time, refreshed every second.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/output"
	"github.com/fakeyudi/cpwind/internal/session"
)

// ── Styles ────────────

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62")).
			Padding(0, 2)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86"))

	activeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	pausedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)

	timeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("178"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("245")).
			Padding(0, 1)
)

// RefreshInterval is how often the dashboard reloads state.
const RefreshInterval = time.Second

// Loader returns the current persisted state.
type Loader func() (*session.State, error)

type tickMsg time.Time

// ── Model ────────────────────

// Model is the root Bubble Tea model for the dashboard.
type Model struct {
	load     Loader
	now      func() time.Time
	views    []app.SessionView
	err      error
	viewport viewport.Model
	width    int
	height   int
	ready    bool
}

// New creates a dashboard reading state through load. A nil clock means time.Now.
func New(load Loader, clock func() time.Time) Model {
	if clock == nil {
		clock = time.Now
	}
	m := Model{load: load, now: clock}
	m.refresh()
	return m
}

// ── Bubble Tea interface ───────────────

func (m Model) Init() tea.Cmd { return tick() }

func tick() tea.Cmd {
	return tea.Tick(RefreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "r":
			m.refresh()
			m.viewport.SetContent(m.renderBody())
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// title(1) + statusBar(1) = 2 fixed rows
		vpHeight := m.height - 2
		if vpHeight < 1 {
			vpHeight = 1
		}
		m.viewport = viewport.New(m.width, vpHeight)
		m.viewport.SetContent(m.renderBody())
		m.ready = true
		return m, nil

	case tickMsg:
		m.refresh()
		if m.ready {
			m.viewport.SetContent(m.renderBody())
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) View() string {
	if !m.ready {
		return "Loading…"
	}
	title := titleStyle.Width(m.width).Render("  cpwind  status")

	hint := "  ↑/↓ scroll  r reload  q quit"
	clock := m.now().Format("15:04:05")
	pad := m.width - lipgloss.Width(hint) - len(clock) - 2
	if pad < 1 {
		pad = 1
	}
	statusBar := statusBarStyle.Width(m.width).Render(hint + strings.Repeat(" ", pad) + clock)

	return lipgloss.JoinVertical(lipgloss.Left, title, m.viewport.View(), statusBar)
}

// ── Rendering ───────────────────

func (m *Model) refresh() {
	st, err := m.load()
	if err != nil {
		m.err = err
		if st == nil {
			return
		}
	} else {
		m.err = nil
	}
	m.views = app.Snapshot(st, m.now())
}

func (m *Model) renderBody() string {
	var sb strings.Builder
	if m.err != nil {
		sb.WriteString("\n" + errorStyle.Render("  "+m.err.Error()) + "\n")
	}

	paused := 0
	for _, v := range m.views {
		if v.Phase == "paused" {
			paused++
		}
	}
	sb.WriteString("\n" + headerStyle.Render(fmt.Sprintf("  Tracked files (%d, %d paused)", len(m.views), paused)) + "\n\n")

	if len(m.views) == 0 {
		sb.WriteString(dimStyle.Render("  (none, run 'cpwind generate <file>' to start)") + "\n")
		return sb.String()
	}

	width := 4
	for _, v := range m.views {
		if len(v.File) > width {
			width = len(v.File)
		}
	}
	now := m.now()
	for _, v := range m.views {
		badge := activeStyle.Render(fmt.Sprintf("%-7s", "ACTIVE"))
		if v.Phase == "paused" {
			badge = pausedStyle.Render(fmt.Sprintf("%-7s", "PAUSED"))
		}
		wound := "never winded"
		if v.LastWindedAt != nil {
			wound = "winded " + output.Clock(now.Sub(*v.LastWindedAt)) + " ago"
		}
		fmt.Fprintf(&sb, "  %-*s  %s  %s  %s\n", width, v.File, badge,
			timeStyle.Render(output.Clock(v.Active)), dimStyle.Render(wound))
	}
	return sb.String()
}

// Run starts the dashboard.
func Run(load Loader) error {
	p := tea.NewProgram(New(load, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
