// ABOUTME: Tests for the credential forms
// ABOUTME: Validates prefill, mode switching and cancellation

package authform

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/todoctl/internal/tui/icons"
)

func TestLoginPrefillsMostRecent(t *testing.T) {
	f := New(ModeLogin, "", []string{"recent@example.com", "older@example.com"})
	if f.Email() != "recent@example.com" {
		t.Errorf("expected most recent email prefilled, got %q", f.Email())
	}

	f = New(ModeLogin, "typed@example.com", []string{"recent@example.com"})
	if f.Email() != "typed@example.com" {
		t.Errorf("expected explicit email kept, got %q", f.Email())
	}

	f = New(ModeRegister, "", []string{"recent@example.com"})
	if f.Email() != "" {
		t.Errorf("expected register form to start empty, got %q", f.Email())
	}
}

func TestSwitchMode(t *testing.T) {
	tests := []struct {
		from Mode
		to   Mode
	}{
		{ModeLogin, ModeRegister},
		{ModeRegister, ModeLogin},
	}

	for _, tc := range tests {
		f := New(tc.from, "", nil)
		_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyCtrlN})
		if cmd == nil {
			t.Fatal("expected a command")
		}
		msg, ok := cmd().(SwitchMsg)
		if !ok || msg.To != tc.to {
			t.Errorf("expected switch to %d, got %#v", tc.to, msg)
		}
	}
}

func TestEscCancels(t *testing.T) {
	f := New(ModeRegister, "", nil)
	_, cmd := f.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("expected a command")
	}
	msg, ok := cmd().(CancelledMsg)
	if !ok || msg.Mode != ModeRegister {
		t.Errorf("expected CancelledMsg for register, got %#v", msg)
	}
}

func TestLoginViewShowsLockedTitle(t *testing.T) {
	f := New(ModeLogin, "", nil)
	f.Init()

	if view := f.View(); !strings.Contains(view, icons.Lock.String()+" Sign in") {
		t.Errorf("expected locked sign-in title, got:\n%s", view)
	}
}

func TestViewShowsFields(t *testing.T) {
	f := New(ModeRegister, "", nil)
	f.Init()
	view := f.View()

	for _, want := range []string{"Email", "Confirm password", "back to sign in"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected register view to contain %q", want)
		}
	}
}
