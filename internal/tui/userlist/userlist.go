// ABOUTME: Admin user list screen with role toggling and deletion
// ABOUTME: Emits intent messages; the app performs the requests

package userlist

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/tui/styles"
	"github.com/markalston/todoctl/internal/tui/widgets"
)

// OpenTodosMsg asks for a user's todos to be shown
type OpenTodosMsg struct {
	User models.User
}

// ToggleRoleMsg asks for a user's admin flag to be flipped
type ToggleRoleMsg struct {
	User models.User
}

// DeleteMsg is sent once the user has confirmed a deletion with y
type DeleteMsg struct {
	User models.User
}

// RejectedMsg reports an action refused before any prompt or request
type RejectedMsg struct {
	Err error
}

// RefreshMsg asks for the list to be re-fetched
type RefreshMsg struct{}

// List renders users and handles admin keys
type List struct {
	users      []models.User
	cursor     int
	isSelf     func(id int) bool
	confirming bool
	pending    models.User
	width      int
}

// New creates the list. isSelf identifies the signed-in account, whose
// row cannot be deleted or have its role changed.
func New(isSelf func(id int) bool) *List {
	return &List{isSelf: isSelf}
}

// SetUsers replaces the rendered users, keeping the cursor in range
func (l *List) SetUsers(users []models.User) {
	l.users = users
	if l.cursor >= len(users) {
		l.cursor = len(users) - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// Users returns the rendered users
func (l *List) Users() []models.User {
	return l.users
}

// Selected returns the user under the cursor
func (l *List) Selected() (models.User, bool) {
	if l.cursor < 0 || l.cursor >= len(l.users) {
		return models.User{}, false
	}
	return l.users[l.cursor], true
}

// Capturing reports whether a confirmation is pending
func (l *List) Capturing() bool {
	return l.confirming
}

// ConfirmPrompt returns the pending confirmation question, if any
func (l *List) ConfirmPrompt() string {
	if !l.confirming {
		return ""
	}
	return fmt.Sprintf("Delete user %s and all their todos? (y/n)", l.pending.Email)
}

// SetWidth sets the available width
func (l *List) SetWidth(width int) {
	l.width = width
}

// Init implements tea.Model
func (l *List) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		return l, nil

	case tea.KeyMsg:
		if l.confirming {
			return l.updateConfirm(msg)
		}
		return l.updateList(msg)
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
		if l.cursor < len(l.users)-1 {
			l.cursor++
		}
	case "r":
		return l, func() tea.Msg { return RefreshMsg{} }
	case "enter", "t":
		if user, ok := l.Selected(); ok {
			return l, func() tea.Msg { return OpenTodosMsg{User: user} }
		}
	case "a":
		if user, ok := l.Selected(); ok {
			return l, func() tea.Msg { return ToggleRoleMsg{User: user} }
		}
	case "d", "delete":
		user, ok := l.Selected()
		if !ok {
			return l, nil
		}
		// Own account is refused before asking
		if l.isSelf != nil && l.isSelf(user.ID) {
			return l, func() tea.Msg { return RejectedMsg{Err: authz.ErrSelfAction} }
		}
		l.pending = user
		l.confirming = true
	}
	return l, nil
}

func (l *List) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	user := l.pending
	l.confirming = false
	l.pending = models.User{}

	if msg.String() == "y" || msg.String() == "Y" {
		return l, func() tea.Msg { return DeleteMsg{User: user} }
	}
	return l, nil
}

// View implements tea.Model
func (l *List) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render("Users"))
	sb.WriteString("\n")

	if len(l.users) == 0 {
		sb.WriteString(styles.Subtitle.Render("No users."))
		sb.WriteString("\n")
		return sb.String()
	}

	emailWidth := 0
	for _, u := range l.users {
		if w := lipgloss.Width(u.Email); w > emailWidth {
			emailWidth = w
		}
	}

	for i, u := range l.users {
		cursor := "  "
		emailStyle := styles.Normal
		if i == l.cursor {
			cursor = styles.Selected.Render("> ")
			emailStyle = styles.Selected
		}

		email := u.Email + strings.Repeat(" ", emailWidth-lipgloss.Width(u.Email))
		row := fmt.Sprintf("%s%4d  %s  %s", cursor, u.ID, emailStyle.Render(email), widgets.RoleBadge(u))
		if l.isSelf != nil && l.isSelf(u.ID) {
			row += lipgloss.NewStyle().Foreground(styles.Muted).Render("  (you)")
		}
		sb.WriteString(row)
		sb.WriteString("\n")
	}

	return sb.String()
}
