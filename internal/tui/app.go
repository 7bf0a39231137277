package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/angristan/camp-tui/internal/camp"
	"github.com/angristan/camp-tui/internal/tui/messages"
	"github.com/angristan/camp-tui/internal/tui/screens"
)

// Executor runs functions on the simulation loop; *schedule.Loop
// implements it. Post queues fn, Do also waits for it and reports false
// when the loop stopped before fn ran.
type Executor interface {
	Post(fn func()) bool
	Do(fn func()) bool
}

// Model is the main application model
type Model struct {
	session *camp.Session
	exec    Executor

	dashboard screens.DashboardModel

	// Window size
	width  int
	height int

	// Error state
	err error
}

// NewModel creates a new application model. Commands reach the session
// through exec.
func NewModel(session *camp.Session, exec Executor) Model {
	var post screens.Poster
	if exec != nil {
		post = exec.Post
	}
	return Model{
		session:   session,
		exec:      exec,
		dashboard: screens.NewDashboardModel(session, post),
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("Camp"),
		m.dashboard.Init(),
		m.statusCmd(),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.dashboard.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		// Global key handlers
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

	case messages.ErrorMsg:
		m.err = msg.Err
	}

	var cmd tea.Cmd
	m.dashboard, cmd = m.dashboard.Update(msg)
	return m, cmd
}

// View renders the dashboard
func (m Model) View() string {
	return m.dashboard.View()
}

// statusCmd reads a full status on the simulation loop so the dashboard
// has data before the first publish
func (m Model) statusCmd() tea.Cmd {
	session, exec := m.session, m.exec
	return func() tea.Msg {
		if session == nil || exec == nil {
			return nil
		}
		var status camp.Status
		if !exec.Do(func() { status = session.Status() }) {
			return messages.ErrorMsg{Err: screens.ErrLoopStopped}
		}
		return messages.StatusMsg{Status: status}
	}
}
