// ABOUTME: Todo list screen with cursor navigation and inline add
// ABOUTME: Emits intent messages; the app performs the requests

package todolist

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/tui/icons"
	"github.com/markalston/todoctl/internal/tui/styles"
	"github.com/markalston/todoctl/internal/tui/widgets"
)

// AddMsg asks for a new todo
type AddMsg struct {
	Title       string
	Description string
}

// ToggleMsg asks for a todo's completed flag to be flipped
type ToggleMsg struct {
	Todo models.Todo
}

// DeleteMsg is sent once the user has confirmed a deletion with y
type DeleteMsg struct {
	Todo models.Todo
}

// RefreshMsg asks for the list to be re-fetched
type RefreshMsg struct{}

type state int

const (
	stateList state = iota
	stateAdding
	stateConfirmDelete
)

// List renders todos and handles list keys
type List struct {
	items     []models.Todo
	cursor    int
	state     state
	readOnly  bool
	title     string
	textInput textinput.Model
	descInput textinput.Model
	pending   models.Todo
	width     int
	height    int
}

// New creates an editable list
func New(title string) *List {
	ti := textinput.New()
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 200
	ti.Width = 50

	di := textinput.New()
	di.Placeholder = "Details (optional)"
	di.CharLimit = 500
	di.Width = 50

	return &List{title: title, textInput: ti, descInput: di}
}

// NewReadOnly creates a list without add, toggle or delete
func NewReadOnly(title string) *List {
	l := New(title)
	l.readOnly = true
	return l
}

// SetItems replaces the rendered todos, keeping the cursor in range
func (l *List) SetItems(items []models.Todo) {
	l.items = items
	if l.cursor >= len(items) {
		l.cursor = len(items) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Items returns the rendered todos
func (l *List) Items() []models.Todo {
	return l.items
}

// Selected returns the todo under the cursor
func (l *List) Selected() (models.Todo, bool) {
	if l.cursor < 0 || l.cursor >= len(l.items) {
		return models.Todo{}, false
	}
	return l.items[l.cursor], true
}

// Capturing reports whether the list is consuming all keys (typing a
// title or answering a confirmation)
func (l *List) Capturing() bool {
	return l.state != stateList
}

// EditingDescription reports whether the description field has focus
func (l *List) EditingDescription() bool {
	return l.state == stateAdding && l.descInput.Focused()
}

// ConfirmPrompt returns the pending confirmation question, if any
func (l *List) ConfirmPrompt() string {
	if l.state != stateConfirmDelete {
		return ""
	}
	return fmt.Sprintf("Delete %q? (y/n)", l.pending.Title)
}

// SetSize sets the available width and height
func (l *List) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.SetSize(msg.Width, msg.Height)
		return l, nil

	case tea.KeyMsg:
		switch l.state {
		case stateAdding:
			return l.updateAdding(msg)
		case stateConfirmDelete:
			return l.updateConfirm(msg)
		default:
			return l.updateList(msg)
		}
	}

	if l.state == stateAdding {
		return l, l.updateInputs(msg)
	}
	return l, nil
}

func (l *List) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < len(l.items)-1 {
			l.cursor++
		}
	case "r":
		return l, func() tea.Msg { return RefreshMsg{} }
	}

	if l.readOnly {
		return l, nil
	}

	switch msg.String() {
	case "a", "n":
		l.state = stateAdding
		l.textInput.SetValue("")
		l.descInput.SetValue("")
		l.descInput.Blur()
		l.textInput.Focus()
		return l, textinput.Blink
	case " ", "enter", "x":
		if todo, ok := l.Selected(); ok {
			return l, func() tea.Msg { return ToggleMsg{Todo: todo} }
		}
	case "d", "delete":
		if todo, ok := l.Selected(); ok {
			l.pending = todo
			l.state = stateConfirmDelete
		}
	}
	return l, nil
}

// updateAdding edits the title and description. Tab moves between the
// two; enter submits from either.
func (l *List) updateAdding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		l.endAdding()
		return l, nil
	case "tab", "shift+tab":
		if l.descInput.Focused() {
			l.descInput.Blur()
			l.textInput.Focus()
		} else {
			l.textInput.Blur()
			l.descInput.Focus()
		}
		return l, textinput.Blink
	case "enter":
		add := AddMsg{Title: l.textInput.Value(), Description: l.descInput.Value()}
		l.endAdding()
		return l, func() tea.Msg { return add }
	}

	return l, l.updateInputs(msg)
}

func (l *List) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if l.descInput.Focused() {
		l.descInput, cmd = l.descInput.Update(msg)
	} else {
		l.textInput, cmd = l.textInput.Update(msg)
	}
	return cmd
}

func (l *List) endAdding() {
	l.state = stateList
	l.textInput.Blur()
	l.descInput.Blur()
	l.textInput.SetValue("")
	l.descInput.SetValue("")
}

func (l *List) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	todo := l.pending
	l.state = stateList
	l.pending = models.Todo{}

	// Anything but y declines
	if msg.String() == "y" || msg.String() == "Y" {
		return l, func() tea.Msg { return DeleteMsg{Todo: todo} }
	}
	return l, nil
}

// View implements tea.Model
func (l *List) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(l.title))
	sb.WriteString("\n")

	done := 0
	for _, t := range l.items {
		if t.Completed {
			done++
		}
	}
	sb.WriteString(widgets.CompletionBar(done, len(l.items), widgets.DefaultProgressBarConfig()))
	sb.WriteString("\n\n")

	if len(l.items) == 0 {
		sb.WriteString(styles.Subtitle.Render("No todos yet."))
		sb.WriteString("\n")
	}

	for i, t := range l.visible() {
		sb.WriteString(l.renderRow(i+l.offset(), t))
		sb.WriteString("\n")
	}

	if l.state == stateAdding {
		sb.WriteString("\n")
		sb.WriteString(styles.KeyStyle.Render(icons.Add.String() + " New todo: "))
		sb.WriteString(l.textInput.View())
		sb.WriteString("\n")
		sb.WriteString(styles.KeyStyle.Render("  Description: "))
		sb.WriteString(l.descInput.View())
		sb.WriteString("\n")
	}

	return sb.String()
}

func (l *List) renderRow(index int, t models.Todo) string {
	cursor := "  "
	if index == l.cursor {
		cursor = styles.Selected.Render("> ")
	}

	check := icons.Open.String()
	titleStyle := styles.Normal
	if t.Completed {
		check = styles.StatusOK.Render(icons.Done.String())
		titleStyle = styles.Done
	}
	if index == l.cursor && !t.Completed {
		titleStyle = styles.Selected
	}

	row := fmt.Sprintf("%s%s %s", cursor, check, titleStyle.Render(t.Title))
	if t.Description != "" {
		row += lipgloss.NewStyle().Foreground(styles.Muted).Render("  " + t.Description)
	}
	return row
}

// visibleRows is how many rows fit after the title, bar and add lines
func (l *List) visibleRows() int {
	rows := l.height - 7
	if rows < 1 {
		return len(l.items)
	}
	return rows
}

// offset scrolls so the cursor stays on screen
func (l *List) offset() int {
	rows := l.visibleRows()
	if l.cursor < rows {
		return 0
	}
	return l.cursor - rows + 1
}

func (l *List) visible() []models.Todo {
	start := l.offset()
	end := start + l.visibleRows()
	if end > len(l.items) {
		end = len(l.items)
	}
	if start > end {
		return nil
	}
	return l.items[start:end]
}
