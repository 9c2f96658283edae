package tui

import (
	"context"
	"io"
	"os"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/audio-trim-cli/tui/styles"
)

// exportDoneMsg is sent when the export function returns.
type exportDoneMsg struct {
	err error
}

// exportModel shows a spinner while a long-running export runs in the background.
type exportModel struct {
	spinner  spinner.Model
	label    string
	run      func(ctx context.Context) error
	ctx      context.Context
	cancel   context.CancelFunc
	done     bool
	canceled bool
	err      error
}

func newExportModel(ctx context.Context, label string, run func(ctx context.Context) error) *exportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Cyan)

	ctx, cancel := context.WithCancel(ctx)
	return &exportModel{spinner: s, label: label, run: run, ctx: ctx, cancel: cancel}
}

// runCmd executes the export off the UI goroutine.
func (m *exportModel) runCmd() tea.Cmd {
	return func() tea.Msg {
		return exportDoneMsg{err: m.run(m.ctx)}
	}
}

func (m *exportModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runCmd())
}

func (m *exportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		m.done = true
		m.err = msg.err
		m.cancel()
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			// ffmpeg is killed through the context; wait for it to report back.
			m.canceled = true
			m.cancel()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m *exportModel) View() string {
	if m.done {
		return ""
	}
	label := m.label
	if m.canceled {
		label = "Cancelling..."
	}
	return m.spinner.View() + " " + styles.Label.Render(label) + "\n"
}

// RunExport runs fn while a spinner is drawn on out (os.Stderr when nil).
// Ctrl+C cancels the context passed to fn.
func RunExport(ctx context.Context, out io.Writer, label string, fn func(ctx context.Context) error) error {
	if out == nil {
		out = os.Stderr
	}
	m := newExportModel(ctx, label, fn)
	final, err := tea.NewProgram(m, tea.WithOutput(out)).Run()
	m.cancel()
	if err != nil {
		return err
	}
	return final.(*exportModel).err
}
