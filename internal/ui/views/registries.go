package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/johanforsgren/upmsetup/internal/domain"
)

type RegistryItem struct {
	registry domain.Registry
	present  bool
}

func (i RegistryItem) FilterValue() string { return i.registry.Name }
func (i RegistryItem) Title() string {
	indicator := "✗"
	if i.present {
		indicator = "✓"
	}
	return fmt.Sprintf("%s %s", indicator, i.registry.Name)
}
func (i RegistryItem) Description() string {
	return fmt.Sprintf("%s [%s]", i.registry.URL, strings.Join(i.registry.Scopes, ", "))
}

type RegistriesViewModel struct {
	list         list.Model
	registries   []domain.Registry
	presence     map[string]bool
	manifestPath string
	busy         bool
	width        int
	height       int
}

func NewRegistriesView() *RegistriesViewModel {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Scoped Registries"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return &RegistriesViewModel{
		list:     l,
		presence: map[string]bool{},
	}
}

func (m *RegistriesViewModel) SetSize(width, height int) {
	m.width = width
	m.height = height
	if height > 14 {
		m.list.SetSize(width, height-14)
	}
}

func (m *RegistriesViewModel) SetManifestPath(path string) {
	m.manifestPath = path
}

func (m *RegistriesViewModel) SetRegistries(registries []domain.Registry) {
	m.registries = registries
	m.refreshItems()
}

// SetPresence records which registries the manifest already holds, keyed by
// registry name.
func (m *RegistriesViewModel) SetPresence(presence map[string]bool) {
	m.presence = presence
	m.busy = false
	m.refreshItems()
}

func (m *RegistriesViewModel) SetBusy(busy bool) {
	m.busy = busy
}

func (m *RegistriesViewModel) IsBusy() bool {
	return m.busy
}

func (m *RegistriesViewModel) Registries() []domain.Registry {
	return m.registries
}

func (m *RegistriesViewModel) PresentCount() (int, int) {
	present := 0
	for _, r := range m.registries {
		if m.presence[r.Name] {
			present++
		}
	}
	return present, len(m.registries)
}

func (m *RegistriesViewModel) IsCompleted() bool {
	present, total := m.PresentCount()
	return total > 0 && present == total
}

func (m *RegistriesViewModel) refreshItems() {
	items := make([]list.Item, len(m.registries))
	for i, r := range m.registries {
		items[i] = RegistryItem{registry: r, present: m.presence[r.Name]}
	}
	m.list.SetItems(items)
}

func (m *RegistriesViewModel) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return cmd
}

func (m *RegistriesViewModel) View() string {
	var b strings.Builder

	muted := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#6B7280")).
		Italic(true)

	b.WriteString("To let the package manager know where it can find the packages, these scoped\n")
	b.WriteString("registries are added to " + m.manifestPath + ".\n\n")
	b.WriteString(m.list.View())
	b.WriteString("\n")

	status := "Registries missing from the manifest are marked ✗."
	if m.busy {
		status = "Updating manifest..."
	} else if m.IsCompleted() {
		status = "All registries are in the manifest."
	}
	b.WriteString(muted.Render(status + "\na/Enter: Add registries | r: Check again | n: Next | q: Back"))

	return b.String()
}
