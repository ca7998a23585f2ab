// SPDX-License-Identifier: MPL-2.0

package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const keyCtrlC = "ctrl+c"

type (
	// ConfirmOptions describes a yes/no prompt. Empty labels default to
	// "Yes" and "No"; Default picks the answer highlighted first.
	ConfirmOptions struct {
		Title       string
		Description string // optional second line
		Affirmative string
		Negative    string
		Default     bool
		Config      Config
	}

	// confirmModel is the Bubble Tea model behind Confirm.
	confirmModel struct {
		title       string
		description string
		affirmative string
		negative    string
		selection   bool
		done        bool
		cancelled   bool
		width       int
	}
)

var (
	confirmTitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED"))
	confirmDescStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	confirmActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#7C3AED")).Bold(true).Padding(0, 1)
	confirmInactiveStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Padding(0, 1)
	confirmHelpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func newConfirmModel(opts ConfirmOptions) *confirmModel {
	affirmative := opts.Affirmative
	if affirmative == "" {
		affirmative = "Yes"
	}
	negative := opts.Negative
	if negative == "" {
		negative = "No"
	}
	return &confirmModel{
		title:       opts.Title,
		description: opts.Description,
		affirmative: affirmative,
		negative:    negative,
		selection:   opts.Default,
	}
}

// Init implements tea.Model.
func (m *confirmModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case keyCtrlC, "esc", "q":
			m.done = true
			m.cancelled = true
			return m, tea.Quit
		case "y", "Y":
			m.selection = true
			m.done = true
			return m, tea.Quit
		case "n", "N":
			m.selection = false
			m.done = true
			return m, tea.Quit
		case "left", "h":
			m.selection = true
		case "right", "l":
			m.selection = false
		case "up", "down", "tab", "shift+tab":
			m.selection = !m.selection
		case "enter", " ":
			m.done = true
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}

	return m, nil
}

// View implements tea.Model.
func (m *confirmModel) View() string {
	if m.done {
		return ""
	}

	yesView := confirmInactiveStyle.Render(m.affirmative)
	noView := confirmInactiveStyle.Render(m.negative)
	if m.selection {
		yesView = confirmActiveStyle.Render(m.affirmative)
	} else {
		noView = confirmActiveStyle.Render(m.negative)
	}

	lines := make([]string, 0, 4)
	if m.title != "" {
		lines = append(lines, confirmTitleStyle.Render(m.title))
	}
	if m.description != "" {
		lines = append(lines, confirmDescStyle.Render(m.description))
	}
	lines = append(lines,
		yesView+"  "+noView,
		confirmHelpStyle.Render("enter submit • y yes • n no • esc cancel"),
	)

	view := strings.Join(lines, "\n") + "\n"
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}
	return view
}

// result returns the chosen answer, or ErrCancelled.
func (m *confirmModel) result() (bool, error) {
	if m.cancelled {
		return false, ErrCancelled
	}
	return m.selection, nil
}

// Confirm asks opts.Title and returns the answer. It returns ErrNotInteractive without rendering anything when the configured
// input is not a terminal, and ErrCancelled when the user backs out.
func Confirm(opts ConfirmOptions) (bool, error) {
	if !opts.Config.Interactive {
		return false, ErrNotInteractive
	}

	programOpts := make([]tea.ProgramOption, 0, 2)
	if opts.Config.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Config.Input))
	}
	if opts.Config.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Config.Output))
	}

	finalModel, err := tea.NewProgram(newConfirmModel(opts), programOpts...).Run()
	if err != nil {
		return false, fmt.Errorf("running confirm prompt: %w", err)
	}

	m, ok := finalModel.(*confirmModel)
	if !ok {
		return false, fmt.Errorf("unexpected model type %T", finalModel)
	}
	return m.result()
}
