package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

type AccessMode int

const (
	// AccessModeLogin asks for a user name and password and runs the
	// registry login.
	AccessModeLogin AccessMode = iota
	// AccessModeToken takes an existing access token.
	AccessModeToken
)

const maxProgressLines = 6

type AccessViewModel struct {
	Mode          AccessMode
	usernameInput textinput.Model
	passwordInput textinput.Model
	tokenInput    textinput.Model
	inputFocus    int
	editing       bool
	busy          bool
	registryURL   string
	account       string
	progress      []string
	width         int
	height        int
}

func NewAccessView() *AccessViewModel {
	usernameInput := textinput.New()
	usernameInput.Placeholder = "User name"
	usernameInput.CharLimit = 214

	passwordInput := textinput.New()
	passwordInput.Placeholder = "Password"
	passwordInput.CharLimit = 128
	passwordInput.EchoMode = textinput.EchoPassword

	tokenInput := textinput.New()
	tokenInput.Placeholder = "Access token"
	tokenInput.CharLimit = 256
	tokenInput.EchoMode = textinput.EchoPassword

	return &AccessViewModel{
		Mode:          AccessModeLogin,
		usernameInput: usernameInput,
		passwordInput: passwordInput,
		tokenInput:    tokenInput,
	}
}

func (m *AccessViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *AccessViewModel) SetRegistry(url string) {
	m.registryURL = url
}

// SetMode switches between login and token entry. It resets the focus to
// the first field of the new mode.
func (m *AccessViewModel) SetMode(mode AccessMode) {
	m.Mode = mode
	m.inputFocus = 0
	if m.editing {
		m.blurAll()
		m.focusCurrent()
	}
}

func (m *AccessViewModel) ToggleMode() {
	if m.Mode == AccessModeLogin {
		m.SetMode(AccessModeToken)
	} else {
		m.SetMode(AccessModeLogin)
	}
}

func (m *AccessViewModel) StartEditing() {
	if m.busy {
		return
	}
	m.editing = true
	m.focusCurrent()
}

func (m *AccessViewModel) StopEditing() {
	m.editing = false
	m.blurAll()
}

func (m *AccessViewModel) IsEditing() bool {
	return m.editing
}

func (m *AccessViewModel) SetBusy(busy bool) {
	m.busy = busy
}

func (m *AccessViewModel) IsBusy() bool {
	return m.busy
}

func (m *AccessViewModel) AddProgress(message string) {
	m.progress = append(m.progress, message)
	if len(m.progress) > maxProgressLines {
		m.progress = m.progress[len(m.progress)-maxProgressLines:]
	}
}

func (m *AccessViewModel) ClearProgress() {
	m.progress = nil
}

// SetStored marks the credentials as written for account.
func (m *AccessViewModel) SetStored(account string) {
	m.account = account
	m.passwordInput.SetValue("")
	m.tokenInput.SetValue("")
}

func (m *AccessViewModel) IsCompleted() bool {
	return m.account != ""
}

func (m *AccessViewModel) Account() string {
	return m.account
}

func (m *AccessViewModel) Credentials() domain.Credentials {
	return domain.Credentials{
		Username:    strings.TrimSpace(m.usernameInput.Value()),
		Password:    m.passwordInput.Value(),
		RegistryURL: m.registryURL,
	}
}

func (m *AccessViewModel) Token() string {
	return strings.TrimSpace(m.tokenInput.Value())
}

func (m *AccessViewModel) Update(msg tea.Msg) tea.Cmd {
	if !m.editing {
		return nil
	}

	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "tab", "down":
			m.nextInput()
			return nil
		case "shift+tab", "up":
			m.prevInput()
			return nil
		}
	}

	switch m.currentInput() {
	case 0:
		m.usernameInput, cmd = m.usernameInput.Update(msg)
	case 1:
		m.passwordInput, cmd = m.passwordInput.Update(msg)
	case 2:
		m.tokenInput, cmd = m.tokenInput.Update(msg)
	}

	return cmd
}

func (m *AccessViewModel) inputCount() int {
	if m.Mode == AccessModeToken {
		return 1
	}
	return 2
}

// currentInput maps the focus index of the active mode to one of the three
// inputs.
func (m *AccessViewModel) currentInput() int {
	if m.Mode == AccessModeToken {
		return 2
	}
	return m.inputFocus
}

func (m *AccessViewModel) nextInput() {
	m.blurAll()
	m.inputFocus = (m.inputFocus + 1) % m.inputCount()
	m.focusCurrent()
}

func (m *AccessViewModel) prevInput() {
	m.blurAll()
	m.inputFocus = (m.inputFocus - 1 + m.inputCount()) % m.inputCount()
	m.focusCurrent()
}

func (m *AccessViewModel) blurAll() {
	m.usernameInput.Blur()
	m.passwordInput.Blur()
	m.tokenInput.Blur()
}

func (m *AccessViewModel) focusCurrent() {
	switch m.currentInput() {
	case 0:
		m.usernameInput.Focus()
	case 1:
		m.passwordInput.Focus()
	case 2:
		m.tokenInput.Focus()
	}
}

func (m *AccessViewModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Render("Add access data")

	muted := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	b.WriteString(title + "\n\n")
	b.WriteString("The package manager needs a token for " + m.registryURL + ".\n")
	b.WriteString(muted.Render("It is stored in .upmconfig.toml and sent with every request to the registry.") + "\n\n")

	if m.Mode == AccessModeToken {
		b.WriteString("Token:\n")
		b.WriteString(m.tokenInput.View() + "\n\n")
	} else {
		b.WriteString("User name:\n")
		b.WriteString(m.usernameInput.View() + "\n\n")
		b.WriteString("Password:\n")
		b.WriteString(m.passwordInput.View() + "\n\n")
	}

	for _, line := range m.progress {
		b.WriteString("  " + line + "\n")
	}
	if len(m.progress) > 0 {
		b.WriteString("\n")
	}

	if m.account != "" {
		done := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
		b.WriteString(done.Render(fmt.Sprintf("✓ Access stored for %s", m.account)) + "\n\n")
	}

	var help string
	switch {
	case m.busy:
		help = "Request is in process..."
	case m.editing:
		help = "Tab: Next field | Enter: Submit | Esc: Stop editing"
	default:
		help = "e/Enter: Edit | t: Switch login/token | n: Next | q: Back"
	}
	b.WriteString(muted.Render(help))

	return b.String()
}
