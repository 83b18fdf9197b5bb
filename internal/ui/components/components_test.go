package components

import (
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTopBarView(t *testing.T) {
	bar := NewTopBar()
	bar.SetWidth(120)
	bar.SetManifest("/work/game/Packages/manifest.json")
	bar.SetRegistry("http://registry.tiltingpoint.io/")
	bar.SetView("Scoped registries")
	bar.SetShortcuts([]string{"<a> Add registries", "<r> Check again", "broken"})

	view := bar.View()
	for _, want := range []string{"UPM Setup", "manifest.json", "registry.tiltingpoint.io", "not checked", "not configured", "Scoped registries", "<a>", "Add registries"} {
		if !strings.Contains(view, want) {
			t.Errorf("Top bar missing %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "broken") {
		t.Error("Malformed shortcut should be skipped")
	}

	bar.SetRegistryStatus(1, 2)
	bar.SetAccess("stored for bob")
	view = bar.View()
	if !strings.Contains(view, "1/2 in manifest") || !strings.Contains(view, "stored for bob") {
		t.Errorf("Top bar did not show status:\n%s", view)
	}
}

func TestShortcutColumns(t *testing.T) {
	bar := NewTopBar()
	bar.SetShortcuts([]string{"<1> a", "<2> b", "<3> c", "<4> d", "<5> e", "<6> f", "<7> g"})

	col1, col2, width := bar.buildShortcutsDisplay(5)
	if len(col1) != 5 || len(col2) != 2 {
		t.Errorf("Columns = %d/%d, want 5/2", len(col1), len(col2))
	}
	if width == 0 {
		t.Error("Expected a column width")
	}
}

func TestShorten(t *testing.T) {
	if got := shorten("short", 10); got != "short" {
		t.Errorf("shorten() = %q", got)
	}
	if got := shorten("/a/very/long/path/to/manifest.json", 16); got != "...manifest.json" {
		t.Errorf("shorten() = %q", got)
	}
}

func TestStatusBar(t *testing.T) {
	bar := NewStatusBar()
	bar.SetWidth(40)
	bar.SetMessage("a message that is far too long for the bar", true)

	if msg, isErr := bar.Message(); !isErr || !strings.HasPrefix(msg, "a message") {
		t.Errorf("Message() = %q, %v", msg, isErr)
	}
	view := bar.View()
	if !strings.Contains(view, "...") {
		t.Errorf("Expected truncated message, got %q", view)
	}
	if !strings.Contains(view, "manifest ? | token -") {
		t.Errorf("Expected unknown state, got %q", view)
	}

	bar.ClearMessage()
	if msg, isErr := bar.Message(); msg != "" || isErr {
		t.Errorf("ClearMessage() left %q, %v", msg, isErr)
	}
}

func TestStatusBarState(t *testing.T) {
	tests := []struct {
		name     string
		present  int
		total    int
		checked  bool
		account  string
		expected string
	}{
		{name: "nothing known", expected: "manifest ? | token - "},
		{name: "registries missing", present: 1, total: 2, checked: true, expected: "manifest 1/2 | token - "},
		{name: "all done", present: 2, total: 2, checked: true, account: "bob", expected: "manifest 2/2 | token bob "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar := NewStatusBar()
			if tt.checked {
				bar.SetRegistries(tt.present, tt.total)
			}
			bar.SetAccount(tt.account)

			if got := bar.State(); got != tt.expected {
				t.Errorf("State() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestStatusBarNarrow(t *testing.T) {
	bar := NewStatusBar()
	bar.SetWidth(10)
	bar.SetMessage("hidden", false)

	if view := bar.View(); strings.Contains(view, "hidden") {
		t.Errorf("Message should give way to the state, got %q", view)
	}
}

var wizardCommands = []string{"next", "back", "add", "check", "logs", "help", "quit"}

func TestCommandBar(t *testing.T) {
	bar := NewCommandBar(wizardCommands)
	if bar.View() != "" {
		t.Error("Inactive command bar should render nothing")
	}

	bar.Activate()
	bar.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("next")})
	if bar.Value() != ":next" {
		t.Errorf("Value() = %q, want :next", bar.Value())
	}
	if !bar.Known() {
		t.Error("Known() = false for next")
	}

	bar.Deactivate()
	if bar.IsActive() || bar.Value() != "" {
		t.Error("Deactivate() should clear the bar")
	}
}

func TestCommandBarCompletion(t *testing.T) {
	tests := []struct {
		typed    string
		expected string
		matches  []string
		known    bool
	}{
		{typed: "lo", expected: ":logs", matches: []string{"logs"}, known: true},
		{typed: "q", expected: ":quit", matches: []string{"quit"}, known: true},
		{typed: "", expected: ":", matches: []string{"add", "back", "check", "help", "logs", "next", "quit"}},
		{typed: "x", expected: ":x", matches: nil},
	}

	for _, tt := range tests {
		t.Run(tt.typed, func(t *testing.T) {
			bar := NewCommandBar(wizardCommands)
			bar.Activate()
			if tt.typed != "" {
				bar.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(tt.typed)})
			}

			if got := bar.Matches(); !reflect.DeepEqual(got, tt.matches) {
				t.Errorf("Matches() = %q, expected %q", got, tt.matches)
			}
			if got := bar.Known(); got != tt.known {
				t.Errorf("Known() = %v, expected %v", got, tt.known)
			}

			bar.Update(tea.KeyMsg{Type: tea.KeyTab})
			if got := bar.Value(); got != tt.expected {
				t.Errorf("Value() after tab = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestCommandBarMarksUnknown(t *testing.T) {
	bar := NewCommandBar(wizardCommands)
	bar.SetWidth(80)
	bar.Activate()
	bar.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("bogus")})

	if view := bar.View(); !strings.Contains(view, "unknown command") {
		t.Errorf("Expected unknown command hint, got %q", view)
	}
}
