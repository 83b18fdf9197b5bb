package components

import (
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// CommandBarModel reads one ":" command of the wizard. Tab completes the
// typed name against the known commands; names that match none are marked
// before they are submitted.
type CommandBarModel struct {
	input    textinput.Model
	commands []string
	width    int
	active   bool
}

func NewCommandBar(commands []string) *CommandBarModel {
	ti := textinput.New()
	ti.Placeholder = strings.Join(commands, ", ")
	ti.CharLimit = 64
	ti.Width = 50

	sorted := append([]string(nil), commands...)
	sort.Strings(sorted)

	return &CommandBarModel{
		input:    ti,
		commands: sorted,
	}
}

func (m *CommandBarModel) SetWidth(width int) {
	m.width = width
	if width > 30 {
		m.input.Width = width - 30
	}
}

func (m *CommandBarModel) Activate() {
	m.active = true
	m.input.Focus()
	m.input.SetValue(":")
	m.input.CursorEnd()
}

func (m *CommandBarModel) Deactivate() {
	m.active = false
	m.input.Blur()
	m.input.SetValue("")
}

func (m *CommandBarModel) IsActive() bool {
	return m.active
}

func (m *CommandBarModel) Value() string {
	return m.input.Value()
}

// typed is the command name entered so far, without the colon and any
// arguments.
func (m *CommandBarModel) typed() string {
	fields := strings.Fields(strings.TrimPrefix(m.input.Value(), ":"))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Matches lists the known commands starting with the typed name.
func (m *CommandBarModel) Matches() []string {
	name := m.typed()
	var out []string
	for _, c := range m.commands {
		if strings.HasPrefix(c, name) {
			out = append(out, c)
		}
	}
	return out
}

// Known reports whether the typed name is a command or the one-letter
// alias of exactly one.
func (m *CommandBarModel) Known() bool {
	name := m.typed()
	if name == "" {
		return false
	}
	matches := m.Matches()
	for _, c := range matches {
		if c == name {
			return true
		}
	}
	return len(name) == 1 && len(matches) == 1
}

// Complete replaces the typed name with the longest prefix shared by all
// matching commands. It reports whether the value changed.
func (m *CommandBarModel) Complete() bool {
	matches := m.Matches()
	if len(matches) == 0 {
		return false
	}

	prefix := matches[0]
	for _, c := range matches[1:] {
		for !strings.HasPrefix(c, prefix) {
			prefix = prefix[:len(prefix)-1]
		}
	}

	if prefix == m.typed() {
		return false
	}
	m.input.SetValue(":" + prefix)
	m.input.CursorEnd()
	return true
}

func (m *CommandBarModel) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyTab {
		m.Complete()
		return nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *CommandBarModel) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(lipgloss.Color("#1F2937")).
		Border(lipgloss.NormalBorder(), true, false, false, false).
		BorderForeground(lipgloss.Color("#7C3AED")).
		Width(m.width)

	hint := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	var suffix string
	switch matches := m.Matches(); {
	case m.typed() == "":
	case len(matches) == 0:
		suffix = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171")).Render("  unknown command")
	case !m.Known() || len(matches) > 1:
		suffix = hint.Render("  " + strings.Join(matches, " "))
	}

	return style.Render(" " + m.input.View() + suffix)
}
