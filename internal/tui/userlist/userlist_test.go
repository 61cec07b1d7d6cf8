// ABOUTME: Tests for the admin user list screen
// ABOUTME: Validates the self-action rule and delete confirmation

package userlist

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/models"
)

func keyMsg(k string) tea.KeyMsg {
	if k == "enter" {
		return tea.KeyMsg{Type: tea.KeyEnter}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func emitted(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func newList() *List {
	l := New(func(id int) bool { return id == 1 })
	l.SetUsers([]models.User{
		{ID: 2, Email: "bob@example.com"},
		{ID: 1, Email: "admin@example.com", IsAdmin: true},
	})
	return l
}

func TestDeleteOwnAccountRejected(t *testing.T) {
	l := newList()
	l.Update(keyMsg("j"))

	_, cmd := l.Update(keyMsg("d"))
	msg, ok := emitted(cmd).(RejectedMsg)
	if !ok {
		t.Fatalf("expected RejectedMsg, got %T", emitted(cmd))
	}
	if !errors.Is(msg.Err, authz.ErrSelfAction) {
		t.Errorf("expected ErrSelfAction, got %v", msg.Err)
	}
	if l.Capturing() {
		t.Error("own account must be refused before confirmation")
	}
}

func TestDeleteOtherAccountAsks(t *testing.T) {
	l := newList()

	l.Update(keyMsg("d"))
	if !strings.Contains(l.ConfirmPrompt(), "bob@example.com") {
		t.Errorf("expected prompt naming bob, got %q", l.ConfirmPrompt())
	}

	_, cmd := l.Update(keyMsg("y"))
	msg, ok := emitted(cmd).(DeleteMsg)
	if !ok || msg.User.ID != 2 {
		t.Errorf("expected DeleteMsg for bob, got %#v", emitted(cmd))
	}
}

func TestDeclineDelete(t *testing.T) {
	l := newList()
	l.Update(keyMsg("d"))

	_, cmd := l.Update(keyMsg("n"))
	if cmd != nil {
		t.Error("expected no command when declined")
	}
	if l.Capturing() {
		t.Error("expected confirmation to end")
	}
}

func TestOpenAndToggle(t *testing.T) {
	l := newList()

	_, cmd := l.Update(keyMsg("enter"))
	if msg, ok := emitted(cmd).(OpenTodosMsg); !ok || msg.User.ID != 2 {
		t.Errorf("expected OpenTodosMsg for bob, got %#v", emitted(cmd))
	}

	_, cmd = l.Update(keyMsg("a"))
	if msg, ok := emitted(cmd).(ToggleRoleMsg); !ok || msg.User.ID != 2 {
		t.Errorf("expected ToggleRoleMsg for bob, got %#v", emitted(cmd))
	}
}

func TestView(t *testing.T) {
	view := newList().View()

	for _, want := range []string{"bob@example.com", "admin@example.com", "ADMIN", "USER", "(you)"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
