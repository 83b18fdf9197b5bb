package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// StatusBarModel shows the last wizard message on the left and the state of
// the two edited files on the right: how many registries the manifest holds
// and whether the credential file has a token.
type StatusBarModel struct {
	width   int
	message string
	isError bool

	registriesChecked bool
	present           int
	total             int
	account           string
}

func NewStatusBar() *StatusBarModel {
	return &StatusBarModel{}
}

func (m *StatusBarModel) SetWidth(width int) {
	m.width = width
}

func (m *StatusBarModel) SetMessage(message string, isError bool) {
	m.message = message
	m.isError = isError
}

func (m *StatusBarModel) Message() (string, bool) {
	return m.message, m.isError
}

func (m *StatusBarModel) ClearMessage() {
	m.message = ""
	m.isError = false
}

func (m *StatusBarModel) SetRegistries(present, total int) {
	m.registriesChecked = true
	m.present = present
	m.total = total
}

// SetAccount records the account whose token was stored.
func (m *StatusBarModel) SetAccount(account string) {
	m.account = account
}

// State is the right-hand summary, e.g. "manifest 2/2 | token bob".
func (m *StatusBarModel) State() string {
	manifest := "manifest ?"
	if m.registriesChecked {
		manifest = fmt.Sprintf("manifest %d/%d", m.present, m.total)
	}

	token := "token -"
	if m.account != "" {
		token = "token " + m.account
	}
	return manifest + " | " + token + " "
}

func (m *StatusBarModel) View() string {
	state := m.State()
	room := m.width - lipgloss.Width(state)

	content := " " + m.message
	if runes := []rune(content); lipgloss.Width(content) > room {
		if room > 3 && len(runes) > room-3 {
			content = string(runes[:room-3]) + "..."
		} else {
			content = ""
		}
	}
	if gap := room - lipgloss.Width(content); gap > 0 {
		content += strings.Repeat(" ", gap)
	}

	bgColor := lipgloss.Color("#374151")
	if m.isError {
		bgColor = lipgloss.Color("#991B1B")
	}

	stateColor := lipgloss.Color("#FBBF24")
	if m.registriesChecked && m.present == m.total && m.account != "" {
		stateColor = lipgloss.Color("#34D399")
	}

	left := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#F9FAFB")).
		Background(bgColor)
	right := lipgloss.NewStyle().
		Foreground(stateColor).
		Background(lipgloss.Color("#1F2937"))

	return left.Render(content) + right.Render(state)
}
