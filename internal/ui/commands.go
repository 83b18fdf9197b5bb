package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johanforsgren/upmsetup/internal/logger"
)

type CommandType int

const (
	CommandUnknown CommandType = iota
	CommandQuit
	CommandNext
	CommandBack
	CommandAdd
	CommandCheck
	CommandLogs
	CommandHelp
)

// commandNames are the full names accepted after ":". Each first letter is
// also an alias.
var commandNames = []string{"next", "back", "add", "check", "logs", "help", "quit"}

type Command struct {
	Type CommandType
	Name string
	Args []string
}

func ParseCommand(input string) Command {
	input = strings.TrimSpace(input)

	if !strings.HasPrefix(input, ":") {
		return Command{Type: CommandUnknown}
	}

	input = strings.TrimPrefix(input, ":")
	parts := strings.Fields(input)

	if len(parts) == 0 {
		return Command{Type: CommandUnknown}
	}

	name := parts[0]
	args := parts[1:]

	switch name {
	case "q", "quit":
		return Command{Type: CommandQuit, Name: name, Args: args}
	case "n", "next":
		return Command{Type: CommandNext, Name: name, Args: args}
	case "b", "back":
		return Command{Type: CommandBack, Name: name, Args: args}
	case "a", "add":
		return Command{Type: CommandAdd, Name: name, Args: args}
	case "c", "check":
		return Command{Type: CommandCheck, Name: name, Args: args}
	case "l", "logs":
		return Command{Type: CommandLogs, Name: name, Args: args}
	case "h", "help":
		return Command{Type: CommandHelp, Name: name, Args: args}
	default:
		return Command{Type: CommandUnknown, Name: name, Args: args}
	}
}

type handler func(m Model) (Model, tea.Cmd)

// binding is a key available on some pages. No pages means every page.
type binding struct {
	key         string
	description string
	pages       []Page
	handle      handler
}

func (b binding) availableOn(page Page) bool {
	if len(b.pages) == 0 {
		return true
	}
	for _, p := range b.pages {
		if p == page {
			return true
		}
	}
	return false
}

type CommandRegistry struct {
	bindings []binding
	commands map[CommandType]handler
}

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{
		commands: map[CommandType]handler{
			CommandQuit:  handleQuitCommand,
			CommandNext:  navigateNext,
			CommandBack:  navigateBack,
			CommandAdd:   handleAddKey,
			CommandCheck: handleCheckKey,
			CommandLogs:  handleLogsKey,
			CommandHelp:  handleHelpCommand,
		},
	}

	r.bind("enter", "Continue", nil, handleEnter)
	r.bind("n", "Next step", []Page{PageLanding, PageRegistries, PageAccess}, navigateNext)
	r.bind("b", "Previous step", []Page{PageRegistries, PageAccess, PageDone}, navigateBack)
	r.bind("a", "Add registries", []Page{PageRegistries}, handleAddKey)
	r.bind("r", "Check again", []Page{PageRegistries}, handleCheckKey)
	r.bind("e", "Edit", []Page{PageAccess}, handleEditKey)
	r.bind("t", "Login/token", []Page{PageAccess}, handleToggleModeKey)
	r.bind("L", "Logs", nil, handleLogsKey)
	r.bind(":", "Command", nil, handleCommandBarKey)
	r.bind("q", "Back/quit", nil, handleQuitKey)
	r.bind("ctrl+c", "", nil, handleQuitCommand)

	return r
}

func (r *CommandRegistry) bind(key, description string, pages []Page, h handler) {
	r.bindings = append(r.bindings, binding{key: key, description: description, pages: pages, handle: h})
}

func (r *CommandRegistry) HandleKey(m Model, key string) (tea.Model, tea.Cmd, bool) {
	for _, b := range r.bindings {
		if b.key == key && b.availableOn(m.page) {
			newModel, cmd := b.handle(m)
			return newModel, cmd, true
		}
	}
	return m, nil, false
}

func (r *CommandRegistry) ExecuteCommand(m Model, command Command) (tea.Model, tea.Cmd) {
	h, ok := r.commands[command.Type]
	if !ok {
		m.statusBar.SetMessage(fmt.Sprintf("Unknown command: %s", command.Name), true)
		return m, nil
	}
	return h(m)
}

// GetContextualShortcuts lists the keys of page as "<key> description".
func (r *CommandRegistry) GetContextualShortcuts(page Page) []string {
	var shortcuts []string
	for _, b := range r.bindings {
		if b.description == "" || !b.availableOn(page) {
			continue
		}
		shortcuts = append(shortcuts, fmt.Sprintf("<%s> %s", b.key, b.description))
	}
	return shortcuts
}

func handleQuitCommand(m Model) (Model, tea.Cmd) {
	logger.Log("UI: quit")
	return m, tea.Quit
}

func handleQuitKey(m Model) (Model, tea.Cmd) {
	if m.page == PageLanding || m.page == PageDone {
		return handleQuitCommand(m)
	}
	return navigateBack(m)
}

func handleEnter(m Model) (Model, tea.Cmd) {
	switch m.page {
	case PageLanding:
		return navigateNext(m)
	case PageRegistries:
		return handleAddKey(m)
	case PageAccess:
		return handleEditKey(m)
	case PageDone:
		return handleQuitCommand(m)
	}
	return m, nil
}

func handleAddKey(m Model) (Model, tea.Cmd) {
	if m.page != PageRegistries {
		m.statusBar.SetMessage("Registries are added on the Scoped registries step", true)
		return m, nil
	}
	if m.registriesView.IsBusy() {
		return m, nil
	}
	m.registriesView.SetBusy(true)
	m.statusBar.SetMessage("Adding registries...", false)
	return m, m.addRegistries()
}

func handleCheckKey(m Model) (Model, tea.Cmd) {
	return m, m.checkRegistries()
}

func handleEditKey(m Model) (Model, tea.Cmd) {
	m.accessView.StartEditing()
	m.updateShortcuts()
	return m, nil
}

func handleToggleModeKey(m Model) (Model, tea.Cmd) {
	if m.accessView.IsBusy() {
		return m, nil
	}
	m.accessView.ToggleMode()
	return m, nil
}

func handleLogsKey(m Model) (Model, tea.Cmd) {
	m.logsView.Activate()
	return m, nil
}

func handleCommandBarKey(m Model) (Model, tea.Cmd) {
	m.commandBar.Activate()
	return m, nil
}

func handleHelpCommand(m Model) (Model, tea.Cmd) {
	m.statusBar.SetMessage("Commands: :"+strings.Join(commandNames, " :"), false)
	return m, nil
}
