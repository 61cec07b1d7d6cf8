// ABOUTME: Tests for the todo list screen
// ABOUTME: Validates cursor movement, inline add and delete confirmation

package todolist

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/todoctl/internal/models"
)

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// emitted runs cmd and returns its message, or nil
func emitted(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}

func sampleTodos() []models.Todo {
	return []models.Todo{
		{ID: 3, Title: "Third"},
		{ID: 2, Title: "Second", Completed: true},
		{ID: 1, Title: "First", Description: "details"},
	}
}

func TestCursorMovement(t *testing.T) {
	l := New("My Todos")
	l.SetItems(sampleTodos())

	l.Update(keyMsg("j"))
	l.Update(keyMsg("j"))
	l.Update(keyMsg("j"))
	if todo, _ := l.Selected(); todo.ID != 1 {
		t.Errorf("expected cursor clamped to last item, got %d", todo.ID)
	}

	l.Update(keyMsg("k"))
	if todo, _ := l.Selected(); todo.ID != 2 {
		t.Errorf("expected cursor on second item, got %d", todo.ID)
	}
}

func TestSetItemsClampsCursor(t *testing.T) {
	l := New("My Todos")
	l.SetItems(sampleTodos())
	l.Update(keyMsg("j"))
	l.Update(keyMsg("j"))

	l.SetItems(sampleTodos()[:1])
	if todo, ok := l.Selected(); !ok || todo.ID != 3 {
		t.Errorf("expected cursor clamped to remaining item, got %+v", todo)
	}

	l.SetItems(nil)
	if _, ok := l.Selected(); ok {
		t.Error("expected no selection in an empty list")
	}
}

func TestToggleEmitsSelected(t *testing.T) {
	l := New("My Todos")
	l.SetItems(sampleTodos())
	l.Update(keyMsg("j"))

	_, cmd := l.Update(keyMsg("x"))
	msg, ok := emitted(cmd).(ToggleMsg)
	if !ok {
		t.Fatalf("expected ToggleMsg, got %T", emitted(cmd))
	}
	if msg.Todo.ID != 2 {
		t.Errorf("expected todo 2, got %d", msg.Todo.ID)
	}
}

func TestAddFlow(t *testing.T) {
	l := New("My Todos")

	l.Update(keyMsg("a"))
	if !l.Capturing() {
		t.Fatal("expected list to capture keys while adding")
	}
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Buy milk")})

	_, cmd := l.Update(keyMsg("enter"))
	msg, ok := emitted(cmd).(AddMsg)
	if !ok || msg.Title != "Buy milk" {
		t.Errorf("expected AddMsg with title, got %#v", emitted(cmd))
	}
	if l.Capturing() {
		t.Error("expected add mode to end on enter")
	}
}

func TestAddWithDescription(t *testing.T) {
	l := New("My Todos")

	l.Update(keyMsg("a"))
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("Buy milk")})
	l.Update(keyMsg("tab"))
	if !l.EditingDescription() {
		t.Fatal("expected tab to focus the description")
	}
	l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("2 litres")})
	if !strings.Contains(l.View(), "Description:") {
		t.Error("expected description field in view")
	}

	_, cmd := l.Update(keyMsg("enter"))
	msg, ok := emitted(cmd).(AddMsg)
	if !ok || msg.Title != "Buy milk" || msg.Description != "2 litres" {
		t.Errorf("expected AddMsg with title and description, got %#v", emitted(cmd))
	}

	// A new add starts empty on the title field
	l.Update(keyMsg("a"))
	if l.EditingDescription() {
		t.Error("expected title focused on a new add")
	}
	_, cmd = l.Update(keyMsg("enter"))
	if msg, _ := emitted(cmd).(AddMsg); msg.Title != "" || msg.Description != "" {
		t.Errorf("expected cleared fields, got %#v", msg)
	}
}

func TestAddCancelled(t *testing.T) {
	l := New("My Todos")
	l.Update(keyMsg("a"))

	_, cmd := l.Update(keyMsg("esc"))
	if cmd != nil {
		t.Error("expected no command on cancel")
	}
	if l.Capturing() {
		t.Error("expected add mode to end on esc")
	}
}

func TestDeleteConfirmation(t *testing.T) {
	tests := []struct {
		answer     string
		wantDelete bool
	}{
		{"y", true},
		{"Y", true},
		{"n", false},
		{"esc", false},
		{"d", false},
	}

	for _, tc := range tests {
		t.Run(tc.answer, func(t *testing.T) {
			l := New("My Todos")
			l.SetItems(sampleTodos())

			_, cmd := l.Update(keyMsg("d"))
			if cmd != nil {
				t.Fatal("pressing d must only ask")
			}
			if !strings.Contains(l.ConfirmPrompt(), `"Third"`) {
				t.Errorf("expected prompt naming the todo, got %q", l.ConfirmPrompt())
			}

			_, cmd = l.Update(keyMsg(tc.answer))
			_, deleted := emitted(cmd).(DeleteMsg)
			if deleted != tc.wantDelete {
				t.Errorf("answer %q: expected delete=%v", tc.answer, tc.wantDelete)
			}
			if l.ConfirmPrompt() != "" {
				t.Error("expected prompt cleared after answering")
			}
		})
	}
}

func TestReadOnlyIgnoresMutations(t *testing.T) {
	l := NewReadOnly("Todos for bob")
	l.SetItems(sampleTodos())

	for _, k := range []string{"a", "x", "enter", "d"} {
		_, cmd := l.Update(keyMsg(k))
		if cmd != nil {
			t.Errorf("key %q: expected no command in read-only list", k)
		}
		if l.Capturing() {
			t.Errorf("key %q: read-only list must not capture", k)
		}
	}

	_, cmd := l.Update(keyMsg("r"))
	if _, ok := emitted(cmd).(RefreshMsg); !ok {
		t.Error("expected refresh to work in read-only list")
	}
}

func TestView(t *testing.T) {
	l := New("My Todos")
	if !strings.Contains(l.View(), "No todos yet.") {
		t.Error("expected empty message")
	}

	l.SetItems(sampleTodos())
	view := l.View()
	for _, want := range []string{"My Todos", "Third", "Second", "details", "1/3 done"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}
