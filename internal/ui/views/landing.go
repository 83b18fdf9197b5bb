package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

type LandingViewModel struct {
	registries  []domain.Registry
	registryURL string
	width       int
}

func NewLandingView() *LandingViewModel {
	return &LandingViewModel{}
}

func (m *LandingViewModel) SetWidth(width int) {
	m.width = width
}

func (m *LandingViewModel) SetInstallation(registries []domain.Registry, registryURL string) {
	m.registries = registries
	m.registryURL = registryURL
}

func (m *LandingViewModel) View() string {
	var b strings.Builder

	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#7C3AED")).
		Bold(true).
		Render("Welcome")

	b.WriteString(title + "\n\n")
	b.WriteString("This wizard prepares the project for packages from private registries:\n")
	b.WriteString("  - add the scoped registries to Packages/manifest.json\n")
	b.WriteString("  - log in to " + m.registryURL + " and store the token in .upmconfig.toml\n\n")

	b.WriteString("Registries:\n")
	for _, r := range m.registries {
		b.WriteString("  " + r.Name + " (" + r.URL + ")\n")
	}

	help := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true).
		Render("\nEnter/n: Start | :logs: Session log | q: Quit")
	b.WriteString(help)

	return b.String()
}
