package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type DoneViewModel struct {
	packages        []string
	registriesReady bool
	accessReady     bool
}

func NewDoneView() *DoneViewModel {
	return &DoneViewModel{}
}

func (m *DoneViewModel) SetPackages(packages []string) {
	m.packages = packages
}

func (m *DoneViewModel) SetProgress(registriesReady, accessReady bool) {
	m.registriesReady = registriesReady
	m.accessReady = accessReady
}

func (m *DoneViewModel) View() string {
	var b strings.Builder

	ok := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981")).Bold(true)
	missing := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)
	check := func(done bool, label string) string {
		if done {
			return ok.Render("✓ " + label)
		}
		return missing.Render("✗ " + label)
	}

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Render("Done")

	b.WriteString(title + "\n\n")
	b.WriteString(check(m.registriesReady, "Scoped registries in manifest") + "\n")
	b.WriteString(check(m.accessReady, "Access token in .upmconfig.toml") + "\n\n")

	if len(m.packages) > 0 {
		b.WriteString("Packages available in the package manager:\n")
		for _, p := range m.packages {
			b.WriteString("  " + p + "\n")
		}
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("\nq/Enter: Quit | b: Back")
	b.WriteString(help)

	return b.String()
}
