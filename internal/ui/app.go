package ui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johanforsgren/upmsetup/internal/config"
	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
	"github.com/johanforsgren/upmsetup/internal/registry/npm"
	"github.com/johanforsgren/upmsetup/internal/ui/components"
	"github.com/johanforsgren/upmsetup/internal/ui/views"
)

type Page int

const (
	PageLanding Page = iota
	PageRegistries
	PageAccess
	PageDone
)

func (p Page) String() string {
	switch p {
	case PageLanding:
		return "Welcome"
	case PageRegistries:
		return "Scoped registries"
	case PageAccess:
		return "Access"
	case PageDone:
		return "Done"
	default:
		return fmt.Sprintf("Page(%d)", int(p))
	}
}

// Services are the operations behind the wizard pages.
type Services struct {
	Manifest      domain.ManifestRepository
	Credentials   domain.CredentialRepository
	Authenticator domain.Authenticator
	Verifier      domain.TokenVerifier
	Installation  *config.InstallationConfig
}

type Model struct {
	page            Page
	width           int
	height          int
	topBar          *components.TopBarModel
	statusBar       *components.StatusBarModel
	commandBar      *components.CommandBarModel
	landingView     *views.LandingViewModel
	registriesView  *views.RegistriesViewModel
	accessView      *views.AccessViewModel
	doneView        *views.DoneViewModel
	logsView        *views.LogsViewModel
	services        Services
	ctx             context.Context
	commandRegistry *CommandRegistry
}

func NewModel(ctx context.Context, services Services) Model {
	m := Model{
		page:            PageLanding,
		topBar:          components.NewTopBar(),
		statusBar:       components.NewStatusBar(),
		commandBar:      components.NewCommandBar(commandNames),
		landingView:     views.NewLandingView(),
		registriesView:  views.NewRegistriesView(),
		accessView:      views.NewAccessView(),
		doneView:        views.NewDoneView(),
		logsView:        views.NewLogsView(),
		services:        services,
		ctx:             ctx,
		commandRegistry: NewCommandRegistry(),
	}

	installation := services.Installation
	registries := installation.AllRegistries()
	authURL := installation.AuthRegistryURL()

	m.landingView.SetInstallation(registries, authURL)
	m.registriesView.SetRegistries(registries)
	m.registriesView.SetManifestPath(services.Manifest.Path())
	m.accessView.SetRegistry(authURL)
	m.doneView.SetPackages(installation.Packages)
	m.topBar.SetManifest(services.Manifest.Path())
	m.topBar.SetRegistry(authURL)
	m.topBar.SetView(m.page.String())
	m.updateShortcuts()

	return m
}

func (m Model) Init() tea.Cmd {
	return m.checkRegistries()
}

func (m Model) Page() Page {
	return m.page
}

func (m Model) isInInputMode() bool {
	if m.commandBar.IsActive() {
		return true
	}
	if m.logsView.IsActive() {
		return true
	}
	return m.page == PageAccess && m.accessView.IsEditing()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.topBar.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.commandBar.SetWidth(msg.Width)
		m.landingView.SetWidth(msg.Width)
		m.registriesView.SetSize(msg.Width, msg.Height)
		m.accessView.SetSize(msg.Width, msg.Height)
		m.logsView.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		key := msg.String()

		if key == "ctrl+c" {
			return handleQuitCommand(m)
		}

		if m.isInInputMode() {
			if m.commandBar.IsActive() {
				switch key {
				case "enter":
					return m.handleCommand()
				case "esc":
					m.commandBar.Deactivate()
					return m, nil
				default:
					return m, m.commandBar.Update(msg)
				}
			}

			if m.logsView.IsActive() {
				switch key {
				case "esc", "q":
					m.logsView.Deactivate()
					return m, nil
				default:
					return m, m.logsView.Update(msg)
				}
			}

			switch key {
			case "enter":
				return m.submitAccess()
			case "esc":
				m.accessView.StopEditing()
				m.updateShortcuts()
				return m, nil
			default:
				return m, m.accessView.Update(msg)
			}
		}

		newModel, cmd, handled := m.commandRegistry.HandleKey(m, key)
		if handled {
			return newModel, cmd
		}

	case PresenceCheckedMsg:
		m.registriesView.SetPresence(msg.presence)
		present, total := m.registriesView.PresentCount()
		m.topBar.SetRegistryStatus(present, total)
		m.statusBar.SetRegistries(present, total)
		return m, nil

	case RegistriesAddedMsg:
		if msg.err != nil {
			m.registriesView.SetBusy(false)
			m.statusBar.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.registriesView.SetPresence(msg.presence)
		present, total := m.registriesView.PresentCount()
		m.topBar.SetRegistryStatus(present, total)
		m.statusBar.SetRegistries(present, total)
		m.statusBar.SetMessage(fmt.Sprintf("Manifest updated, %d/%d registries present", present, total), false)
		return m, nil

	case AuthProgressMsg:
		m.accessView.AddProgress(msg.message)
		m.statusBar.SetMessage(msg.message, false)
		return m, waitForAuth(msg.stream)

	case AuthFinishedMsg:
		for _, message := range msg.progress {
			m.accessView.AddProgress(message)
		}
		if msg.err != nil {
			m.accessView.SetBusy(false)
			m.statusBar.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		return m, m.saveCredentials(msg.token, msg.account)

	case CredentialsSavedMsg:
		m.accessView.SetBusy(false)
		if msg.err != nil {
			m.statusBar.SetMessage(msg.err.Error(), true)
			return m, nil
		}
		m.accessView.SetStored(msg.account)
		m.topBar.SetAccess("stored for " + msg.account)
		m.statusBar.SetAccount(msg.account)
		if msg.unchanged {
			m.statusBar.SetMessage("Credentials already present in "+m.services.Credentials.Path(), false)
		} else {
			m.statusBar.SetMessage("Credentials written to "+m.services.Credentials.Path(), false)
		}
		return m, nil

	}

	if m.page == PageRegistries {
		return m, m.registriesView.Update(msg)
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string

	if m.logsView.IsActive() {
		content = m.logsView.View()
	} else {
		switch m.page {
		case PageLanding:
			content = m.landingView.View()
		case PageRegistries:
			content = m.registriesView.View()
		case PageAccess:
			content = m.accessView.View()
		case PageDone:
			content = m.doneView.View()
		}
	}

	topBar := m.topBar.View()
	statusBar := m.statusBar.View()
	commandBar := m.commandBar.View()

	if commandBar != "" {
		return topBar + "\n" + content + "\n" + commandBar
	}

	return topBar + "\n" + content + "\n" + statusBar
}

func (m Model) handleCommand() (tea.Model, tea.Cmd) {
	input := m.commandBar.Value()
	m.commandBar.Deactivate()

	command := ParseCommand(input)
	if command.Name == "" {
		return m, nil
	}

	logger.Log("UI: Executing command: %s %v", command.Name, command.Args)
	return m.commandRegistry.ExecuteCommand(m, command)
}

func (m Model) goTo(page Page) (Model, tea.Cmd) {
	logger.Log("UI: %s -> %s", m.page, page)
	m.page = page
	m.topBar.SetView(page.String())
	m.statusBar.ClearMessage()

	var cmd tea.Cmd
	switch page {
	case PageRegistries:
		cmd = m.checkRegistries()
	case PageAccess:
		if !m.accessView.IsCompleted() {
			m.accessView.StartEditing()
		}
	case PageDone:
		m.doneView.SetProgress(m.registriesView.IsCompleted(), m.accessView.IsCompleted())
	}

	m.updateShortcuts()
	return m, cmd
}

func navigateNext(m Model) (Model, tea.Cmd) {
	if m.page == PageDone {
		return m, nil
	}
	if m.accessView.IsBusy() {
		m.statusBar.SetMessage(domain.ErrBusy.Error(), true)
		return m, nil
	}
	m.accessView.StopEditing()
	return m.goTo(m.page + 1)
}

func navigateBack(m Model) (Model, tea.Cmd) {
	if m.page == PageLanding {
		return m, nil
	}
	if m.accessView.IsBusy() {
		m.statusBar.SetMessage(domain.ErrBusy.Error(), true)
		return m, nil
	}
	m.accessView.StopEditing()
	return m.goTo(m.page - 1)
}

func (m Model) submitAccess() (tea.Model, tea.Cmd) {
	if m.accessView.IsBusy() || m.services.Authenticator.Busy() {
		m.statusBar.SetMessage(domain.ErrBusy.Error(), true)
		return m, nil
	}

	if m.accessView.Mode == views.AccessModeToken {
		token := m.accessView.Token()
		if !npm.ValidToken(token) {
			m.statusBar.SetMessage("Token is too short", true)
			return m, nil
		}
		m.accessView.StopEditing()
		m.accessView.SetBusy(true)
		m.statusBar.SetMessage("Checking token...", false)
		return m, m.verifyToken(m.accessView.Credentials().RegistryURL, token)
	}

	creds := m.accessView.Credentials()
	if err := npm.ValidateUsername(creds.Username); err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}
	if err := npm.ValidatePassword(creds.Password); err != nil {
		m.statusBar.SetMessage(err.Error(), true)
		return m, nil
	}

	m.accessView.StopEditing()
	m.accessView.ClearProgress()
	m.accessView.SetBusy(true)
	m.updateShortcuts()
	return m, m.authenticate(creds)
}

// authenticate starts the login and streams its progress into the program
// as AuthProgressMsg, followed by one AuthFinishedMsg.
func (m Model) authenticate(creds domain.Credentials) tea.Cmd {
	progress := make(chan string, 8)
	callbacks := domain.AuthCallbacks{
		OnInfo: func(message string) {
			progress <- message
		},
	}

	results := m.services.Authenticator.Start(m.ctx, creds, callbacks)
	return waitForAuth(authStream{progress: progress, results: results, account: creds.Username})
}

type authStream struct {
	progress <-chan string
	results  <-chan domain.AuthResult
	account  string
}

// waitForAuth delivers the next progress message, or the result once the
// login is over. Progress sent before the result is never lost.
func waitForAuth(stream authStream) tea.Cmd {
	return func() tea.Msg {
		select {
		case message := <-stream.progress:
			return AuthProgressMsg{message: message, stream: stream}
		default:
		}

		select {
		case message := <-stream.progress:
			return AuthProgressMsg{message: message, stream: stream}
		case result, ok := <-stream.results:
			if !ok {
				result.Err = fmt.Errorf("%w: login ended without a result", domain.ErrProtocol)
			}
			return AuthFinishedMsg{
				token:    result.Token,
				account:  stream.account,
				progress: drain(stream.progress),
				err:      result.Err,
			}
		}
	}
}

func drain(messages <-chan string) []string {
	var out []string
	for {
		select {
		case message := <-messages:
			out = append(out, message)
		default:
			return out
		}
	}
}

func (m Model) verifyToken(registryURL, token string) tea.Cmd {
	verifier := m.services.Verifier
	ctx := m.ctx
	return func() tea.Msg {
		account, err := verifier.WhoAmI(ctx, registryURL, token)
		if err != nil {
			return AuthFinishedMsg{err: err}
		}
		return AuthFinishedMsg{token: token, account: account}
	}
}

func (m Model) saveCredentials(token, account string) tea.Cmd {
	repo := m.services.Credentials
	registryURL := m.services.Installation.AuthRegistryURL()
	return func() tea.Msg {
		if repo.IsRegistryPresent(registryURL, token) {
			return CredentialsSavedMsg{account: account, unchanged: true}
		}
		if err := repo.AddRegistry(registryURL, token); err != nil {
			return CredentialsSavedMsg{err: err}
		}
		return CredentialsSavedMsg{account: account}
	}
}

func (m Model) checkRegistries() tea.Cmd {
	repo := m.services.Manifest
	registries := m.registriesView.Registries()
	return func() tea.Msg {
		return PresenceCheckedMsg{presence: repo.CheckPresence(registries)}
	}
}

func (m Model) addRegistries() tea.Cmd {
	repo := m.services.Manifest
	registries := m.registriesView.Registries()
	return func() tea.Msg {
		if err := repo.AddRegistries(registries); err != nil {
			return RegistriesAddedMsg{err: err}
		}
		return RegistriesAddedMsg{presence: repo.CheckPresence(registries)}
	}
}

func (m Model) updateShortcuts() {
	shortcuts := m.commandRegistry.GetContextualShortcuts(m.page)
	m.topBar.SetShortcuts(shortcuts)
}

type PresenceCheckedMsg struct {
	presence map[string]bool
}

type RegistriesAddedMsg struct {
	presence map[string]bool
	err      error
}

type AuthProgressMsg struct {
	message string
	stream  authStream
}

type AuthFinishedMsg struct {
	token    string
	account  string
	progress []string
	err      error
}

type CredentialsSavedMsg struct {
	account   string
	unchanged bool
	err       error
}
