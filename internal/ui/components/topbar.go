package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type TopBarModel struct {
	width             int
	manifestPath      string
	registryURL       string
	registriesPresent int
	registriesTotal   int
	registriesChecked bool
	access            string
	currentView       string
	shortcuts         []string
}

var (
	titleStyle        = lipgloss.NewStyle().Padding(1, 2)
	titleOrangeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	valueWhiteStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	valueGreenStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	valueRedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	shortcutBlueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33")).Bold(true)
	descGrayStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("246"))
)

func NewTopBar() *TopBarModel {
	return &TopBarModel{}
}

func (m *TopBarModel) SetWidth(width int) {
	m.width = width
}

func (m *TopBarModel) SetManifest(path string) {
	m.manifestPath = path
}

func (m *TopBarModel) SetRegistry(url string) {
	m.registryURL = url
}

func (m *TopBarModel) SetRegistryStatus(present, total int) {
	m.registriesPresent = present
	m.registriesTotal = total
	m.registriesChecked = true
}

func (m *TopBarModel) SetAccess(access string) {
	m.access = access
}

func (m *TopBarModel) SetView(view string) {
	m.currentView = view
}

func (m *TopBarModel) SetShortcuts(shortcuts []string) {
	m.shortcuts = shortcuts
}

func (m *TopBarModel) View() string {
	titleLine := titleOrangeStyle.Render("UPM Setup")

	contextLines := m.buildContextInfo()
	shortcutCol1, shortcutCol2, col1Width := m.buildShortcutsDisplay(len(contextLines))

	var topSection []string
	topSection = append(topSection, titleLine)
	topSection = append(topSection, "")

	const fixedRows = 5

	const contextColWidth = 55
	const colMargin = 4

	for i := 0; i < fixedRows; i++ {
		var contextCol, sc1, sc2 string

		if i < len(contextLines) {
			contextCol = contextLines[i]
		}
		if i < len(shortcutCol1) {
			sc1 = shortcutCol1[i]
		}
		if i < len(shortcutCol2) {
			sc2 = shortcutCol2[i]
		}

		padding1 := contextColWidth - lipgloss.Width(contextCol)
		if padding1 < 0 {
			padding1 = 1
		}

		line := contextCol + strings.Repeat(" ", padding1) + sc1

		if sc2 != "" {
			padding2 := col1Width - lipgloss.Width(sc1) + colMargin
			if padding2 < colMargin {
				padding2 = colMargin
			}
			line += strings.Repeat(" ", padding2) + sc2
		}

		topSection = append(topSection, line)
	}

	content := strings.Join(topSection, "\n")
	return titleStyle.Width(m.width).Render(content)
}

func (m *TopBarModel) buildContextInfo() []string {
	var lines []string

	lines = append(lines,
		"📄 "+titleOrangeStyle.Render("Manifest: ")+valueWhiteStyle.Render(shorten(orNone(m.manifestPath), 40)))

	lines = append(lines,
		"🌐 "+titleOrangeStyle.Render("Registry: ")+valueWhiteStyle.Render(shorten(orNone(m.registryURL), 40)))

	registries := descGrayStyle.Render("not checked")
	if m.registriesChecked {
		status := fmt.Sprintf("%d/%d in manifest", m.registriesPresent, m.registriesTotal)
		if m.registriesPresent == m.registriesTotal {
			registries = valueGreenStyle.Render(status)
		} else {
			registries = valueRedStyle.Render(status)
		}
	}
	lines = append(lines, "📦 "+titleOrangeStyle.Render("Scopes: ")+registries)

	access := descGrayStyle.Render("not configured")
	if m.access != "" {
		access = valueGreenStyle.Render(m.access)
	}
	lines = append(lines, "🔑 "+titleOrangeStyle.Render("Access: ")+access)

	viewName := m.currentView
	if viewName == "" {
		viewName = "Welcome"
	}
	lines = append(lines, "🎯 "+titleOrangeStyle.Render("Step: ")+valueWhiteStyle.Render(viewName))

	return lines
}

func (m *TopBarModel) buildShortcutsDisplay(contextHeight int) ([]string, []string, int) {
	var formattedShortcuts []string
	maxWidth := 0

	for _, shortcut := range m.shortcuts {
		parts := strings.SplitN(shortcut, ">", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimPrefix(parts[0], "<")
		desc := strings.TrimSpace(parts[1])

		formatted := shortcutBlueStyle.Render("<"+key+">") + " " + descGrayStyle.Render(desc)
		formattedShortcuts = append(formattedShortcuts, formatted)

		if width := lipgloss.Width(formatted); width > maxWidth {
			maxWidth = width
		}
	}

	rows := 5
	if contextHeight > rows {
		rows = contextHeight
	}

	if len(formattedShortcuts) <= rows {
		return formattedShortcuts, nil, maxWidth
	}
	return formattedShortcuts[:rows], formattedShortcuts[rows:], maxWidth
}

func orNone(value string) string {
	if value == "" {
		return "none"
	}
	return value
}

func shorten(value string, max int) string {
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return "..." + string(runes[len(runes)-max+3:])
}
