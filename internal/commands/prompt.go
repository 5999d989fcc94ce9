package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/mynah/internal/input"
)

// resolution is what the user picked for an existing toString().
type resolution int

const (
	resolutionShowDiff resolution = iota
	resolutionReplace
	resolutionDuplicate
	resolutionSkip
	resolutionCancel
)

// Lipgloss styles for terminal output
var (
	warningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("yellow")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	borderStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("white")).Bold(true)
)

// conflictPrompt asks what to do about a class that already has a
// toString(). The diff func renders the pending change lazily; it is
// only invoked when the user picks "Show diff".
type conflictPrompt struct {
	path    string
	class   string
	line    int
	modTime time.Time
	diff    func() (string, error)
	in      *input.Reader // nil means the real terminal
}

// resolve runs the menu until the user lands on a terminal choice.
func (c *conflictPrompt) resolve() (resolution, error) {
	for {
		res, err := c.menu()
		if err != nil {
			// No usable terminal for the full-screen menu.
			return c.plainResolve(), nil
		}
		if res != resolutionShowDiff {
			return res, nil
		}

		text, err := c.diff()
		if err != nil {
			return resolutionCancel, err
		}
		if err := showDiff(c.path, text); err != nil {
			fmt.Println(text)
		}
	}
}

// menu shows the interactive conflict menu
func (c *conflictPrompt) menu() (resolution, error) {
	p := tea.NewProgram(newConflictMenuModel(c))
	finalModel, err := p.Run()
	if err != nil {
		return resolutionCancel, fmt.Errorf("showing conflict menu: %w", err)
	}

	result := finalModel.(conflictMenuModel)
	if result.selected == nil {
		return resolutionCancel, nil
	}

	return *result.selected, nil
}

// plainResolve is the line-based fallback when BubbleTea cannot run.
func (c *conflictPrompt) plainResolve() resolution {
	reader := c.in
	if reader == nil {
		reader = input.Default()
	}

	message := fmt.Sprintf("toString() already exists in %s. Replace, duplicate, skip, or cancel? (r/d/s/c)", c.class)
	switch strings.ToLower(reader.Prompt(message, "s")) {
	case "r", "replace":
		return resolutionReplace
	case "d", "duplicate":
		return resolutionDuplicate
	case "c", "cancel":
		return resolutionCancel
	default:
		return resolutionSkip
	}
}

// showDiff prints short diffs inline and pages long ones.
func showDiff(path, text string) error {
	if strings.Count(text, "\n") <= 20 {
		fmt.Println(text)
		return nil
	}

	p := tea.NewProgram(newDiffViewerModel(path, text), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("showing diff: %w", err)
	}
	return nil
}

// conflictMenuModel is the BubbleTea model for the conflict menu
type conflictMenuModel struct {
	path     string
	class    string
	line     int
	modTime  time.Time
	choices  []string
	cursor   int
	selected *resolution
}

// newConflictMenuModel creates a new conflict menu model
func newConflictMenuModel(c *conflictPrompt) conflictMenuModel {
	return conflictMenuModel{
		path:    c.path,
		class:   c.class,
		line:    c.line,
		modTime: c.modTime,
		choices: []string{
			"Show diff and decide",
			"Replace the existing method",
			"Duplicate (keep both methods)",
			"Skip this class",
			"Cancel the run",
		},
		cursor: 0,
	}
}

// Init initializes the menu model
func (m conflictMenuModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input
func (m conflictMenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.choices)-1 {
				m.cursor++
			}

		case "enter":
			resolution := mapChoiceToResolution(m.cursor)
			m.selected = &resolution
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the menu
func (m conflictMenuModel) View() string {
	var b strings.Builder

	// Header
	b.WriteString(warningStyle.Render("⚠️  toString() already exists in ") + titleStyle.Render(m.class) + "\n")

	// Where the existing method lives
	b.WriteString(mutedStyle.Render("    Declared at: ") + fmt.Sprintf("%s:%d", m.path, m.line) + "\n")
	if !m.modTime.IsZero() {
		b.WriteString(mutedStyle.Render("    Last modified: ") + formatRelativeTime(m.modTime) + "\n")
	}

	b.WriteString("\n")

	// Instructions
	b.WriteString(mutedStyle.Render("    [↑/↓] Navigate    [Enter] Select    [q] Cancel") + "\n\n")

	// Choices
	for i, choice := range m.choices {
		cursor := "  "
		if m.cursor == i {
			cursor = "> "
			b.WriteString("    " + selectedStyle.Render(cursor+choice) + "\n")
		} else {
			b.WriteString("    " + cursor + choice + "\n")
		}
	}

	return b.String()
}

// mapChoiceToResolution maps cursor position to resolution
func mapChoiceToResolution(cursor int) resolution {
	switch cursor {
	case 0:
		return resolutionShowDiff
	case 1:
		return resolutionReplace
	case 2:
		return resolutionDuplicate
	case 3:
		return resolutionSkip
	default:
		return resolutionCancel
	}
}

// diffViewerModel is the BubbleTea model for paging long diffs
type diffViewerModel struct {
	path     string
	diff     string
	viewport viewport.Model
	ready    bool
}

// newDiffViewerModel creates a new diff viewer model
func newDiffViewerModel(path, diff string) diffViewerModel {
	return diffViewerModel{
		path: path,
		diff: diff,
	}
}

// Init initializes the diff viewer
func (m diffViewerModel) Init() tea.Cmd {
	return nil
}

// Update handles keyboard input and window sizing
func (m diffViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			m.viewport.ScrollUp(1)

		case "down", "j":
			m.viewport.ScrollDown(1)

		case "pgup", "b":
			m.viewport.PageUp()

		case "pgdown", "f", "space":
			m.viewport.PageDown()
		}

	case tea.WindowSizeMsg:
		headerHeight := 3
		footerHeight := 2
		verticalMargin := headerHeight + footerHeight

		if !m.ready {
			m.viewport = viewport.New(msg.Width-4, msg.Height-verticalMargin)
			m.viewport.SetContent(m.diff)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width - 4
			m.viewport.Height = msg.Height - verticalMargin
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the diff viewer
func (m diffViewerModel) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder

	// Header
	title := fmt.Sprintf("─ Diff: %s ", m.path)
	padding := strings.Repeat("─", max(0, m.viewport.Width-len(title)+4))
	b.WriteString(borderStyle.Render(fmt.Sprintf("┌%s%s┐\n", title, padding)))

	// Viewport content
	for _, line := range strings.Split(m.viewport.View(), "\n") {
		b.WriteString(borderStyle.Render("│") + " " + line)
		b.WriteString(strings.Repeat(" ", max(0, m.viewport.Width-len(line)-1)) + borderStyle.Render("│") + "\n")
	}

	// Footer
	footer := " [↑/↓] Scroll    [q] Return to menu "
	padding = strings.Repeat("─", max(0, m.viewport.Width-len(footer)+4))
	b.WriteString(borderStyle.Render(fmt.Sprintf("└%s%s┘\n", padding, footer)))

	return b.String()
}

// formatRelativeTime renders a timestamp as "2 hours ago".
func formatRelativeTime(t time.Time) string {
	d := time.Since(t)
	if d < time.Minute {
		return "just now"
	}

	steps := []struct {
		limit time.Duration
		div   time.Duration
		unit  string
	}{
		{time.Hour, time.Minute, "minute"},
		{24 * time.Hour, time.Hour, "hour"},
		{7 * 24 * time.Hour, 24 * time.Hour, "day"},
		{30 * 24 * time.Hour, 7 * 24 * time.Hour, "week"},
		{365 * 24 * time.Hour, 30 * 24 * time.Hour, "month"},
	}
	for _, s := range steps {
		if d < s.limit {
			if n := int(d / s.div); n == 1 {
				return "1 " + s.unit + " ago"
			} else {
				return fmt.Sprintf("%d %ss ago", n, s.unit)
			}
		}
	}

	if years := int(d / (365 * 24 * time.Hour)); years == 1 {
		return "1 year ago"
	} else {
		return fmt.Sprintf("%d years ago", years)
	}
}
