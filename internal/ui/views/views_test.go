package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/johanforsgren/upmsetup/internal/domain"
	"github.com/johanforsgren/upmsetup/internal/logger"
)

func typeText(view *AccessViewModel, text string) {
	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestNewAccessView_InitializesInLoginMode(t *testing.T) {
	view := NewAccessView()

	if view.Mode != AccessModeLogin {
		t.Errorf("expected login mode, got %v", view.Mode)
	}
	if view.IsEditing() || view.IsCompleted() {
		t.Error("expected new AccessView to be idle")
	}
}

func TestAccessView_Credentials(t *testing.T) {
	view := NewAccessView()
	view.SetRegistry("https://reg.example/")
	view.StartEditing()

	typeText(view, "bob ")
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(view, "secret1")

	got := view.Credentials()
	want := domain.Credentials{Username: "bob", Password: "secret1", RegistryURL: "https://reg.example/"}
	if got != want {
		t.Errorf("Credentials: expected %+v, got %+v", want, got)
	}
}

func TestAccessView_IgnoresInputWhenNotEditing(t *testing.T) {
	view := NewAccessView()
	typeText(view, "bob")

	if got := view.Credentials().Username; got != "" {
		t.Errorf("expected no input outside edit mode, got %q", got)
	}
}

func TestAccessView_TokenMode(t *testing.T) {
	view := NewAccessView()
	view.StartEditing()
	view.ToggleMode()

	if view.Mode != AccessModeToken {
		t.Fatalf("expected token mode, got %v", view.Mode)
	}

	typeText(view, "npm_0123456789")
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(view, "X")

	if got := view.Token(); got != "npm_0123456789X" {
		t.Errorf("Token: expected %q, got %q", "npm_0123456789X", got)
	}
	if !strings.Contains(view.View(), "Token:") {
		t.Error("expected token field in view")
	}
}

func TestAccessView_BusyBlocksEditing(t *testing.T) {
	view := NewAccessView()
	view.SetBusy(true)
	view.StartEditing()

	if view.IsEditing() {
		t.Error("expected StartEditing to be ignored while busy")
	}
	if !strings.Contains(view.View(), "Request is in process") {
		t.Error("expected busy hint in view")
	}
}

func TestAccessView_ProgressIsBounded(t *testing.T) {
	view := NewAccessView()
	for i := 0; i < maxProgressLines+3; i++ {
		view.AddProgress("Step")
	}

	if len(view.progress) != maxProgressLines {
		t.Errorf("expected %d progress lines, got %d", maxProgressLines, len(view.progress))
	}

	view.ClearProgress()
	if len(view.progress) != 0 {
		t.Error("expected ClearProgress to drop all lines")
	}
}

func TestAccessView_SetStoredClearsSecrets(t *testing.T) {
	view := NewAccessView()
	view.StartEditing()
	view.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(view, "secret1")

	view.SetStored("bob")

	if !view.IsCompleted() || view.Account() != "bob" {
		t.Error("expected view to be completed for bob")
	}
	if view.Credentials().Password != "" {
		t.Error("expected password to be cleared")
	}
	if !strings.Contains(view.View(), "Access stored for bob") {
		t.Error("expected stored notice in view")
	}
}

func TestRegistriesView_Presence(t *testing.T) {
	view := NewRegistriesView()
	view.SetSize(100, 40)
	view.SetRegistries([]domain.Registry{
		{Name: "TP", URL: "https://reg.example/", Scopes: []string{"com.tp"}},
		{Name: "Google", URL: "https://google.example", Scopes: []string{"com.google"}},
	})

	if present, total := view.PresentCount(); present != 0 || total != 2 {
		t.Errorf("PresentCount: expected 0/2, got %d/%d", present, total)
	}

	view.SetBusy(true)
	view.SetPresence(map[string]bool{"TP": true})
	if view.IsBusy() {
		t.Error("expected SetPresence to clear busy")
	}
	if view.IsCompleted() {
		t.Error("expected view to be incomplete with one registry missing")
	}

	view.SetPresence(map[string]bool{"TP": true, "Google": true})
	if !view.IsCompleted() {
		t.Error("expected view to be completed")
	}
	if !strings.Contains(view.View(), "All registries are in the manifest") {
		t.Error("expected completion notice in view")
	}
}

func TestRegistryItem(t *testing.T) {
	item := RegistryItem{registry: domain.Registry{Name: "TP", URL: "https://reg.example/", Scopes: []string{"a", "b"}}}

	if item.Title() != "✗ TP" {
		t.Errorf("Title: got %q", item.Title())
	}
	item.present = true
	if item.Title() != "✓ TP" {
		t.Errorf("Title: got %q", item.Title())
	}
	if item.Description() != "https://reg.example/ [a, b]" {
		t.Errorf("Description: got %q", item.Description())
	}
}

func TestLandingAndDoneViews(t *testing.T) {
	landing := NewLandingView()
	landing.SetInstallation([]domain.Registry{{Name: "TP", URL: "https://reg.example/"}}, "https://reg.example/")
	if view := landing.View(); !strings.Contains(view, "TP (https://reg.example/)") {
		t.Errorf("landing view missing registry:\n%s", view)
	}

	done := NewDoneView()
	done.SetPackages([]string{"com.tp.ads"})
	done.SetProgress(true, false)
	view := done.View()
	if !strings.Contains(view, "✓ Scoped registries") || !strings.Contains(view, "✗ Access token") {
		t.Errorf("done view missing progress:\n%s", view)
	}
	if !strings.Contains(view, "com.tp.ads") {
		t.Errorf("done view missing packages:\n%s", view)
	}
}

func TestLogsView_Scrolling(t *testing.T) {
	for i := 0; i < 30; i++ {
		logger.Log("scroll entry %d", i)
	}

	view := NewLogsView()
	view.SetSize(100, 18)
	view.Activate()

	if !view.IsActive() {
		t.Fatal("expected logs view to be active")
	}
	bottom := view.Offset()
	if bottom == 0 {
		t.Fatal("expected view to start scrolled to the newest entries")
	}

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	if view.Offset() != 0 {
		t.Errorf("expected top after g, got %d", view.Offset())
	}

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	if view.Offset() != bottom {
		t.Errorf("expected bottom after G, got %d", view.Offset())
	}

	view.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	if view.Offset() != bottom {
		t.Errorf("expected j at bottom to stay, got %d", view.Offset())
	}

	if !strings.Contains(view.View(), "Session Logs") {
		t.Error("expected title in logs view")
	}

	view.Deactivate()
	if view.IsActive() || view.View() != "" {
		t.Error("expected inactive logs view to render nothing")
	}
}
