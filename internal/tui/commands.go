// ABOUTME: Network commands run by the TUI and the messages they produce
// ABOUTME: Each command drives a view controller and copies out its results

package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/markalston/todoctl/internal/controller"
	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/tui/authform"
)

// authDoneMsg is sent when a login or registration attempt finishes
type authDoneMsg struct {
	mode authform.Mode
	user *models.User
	err  error
}

// todosLoadedMsg carries the signed-in user's list after a fetch or mutation
type todosLoadedMsg struct {
	items   []models.Todo
	updated time.Time
	notice  string
	err     error
}

// usersLoadedMsg carries the admin user list after a fetch or mutation
type usersLoadedMsg struct {
	users   []models.User
	updated time.Time
	notice  string
	err     error
}

// userTodosLoadedMsg carries another user's todos
type userTodosLoadedMsg struct {
	user    models.User
	items   []models.Todo
	updated time.Time
	err     error
}

// approved is the confirmation used once the user has already pressed y
func approved(string) bool { return true }

func (a *App) login(email, password string) tea.Cmd {
	if a.auth == nil {
		return nil
	}
	return func() tea.Msg {
		a.mu.Lock()
		defer a.mu.Unlock()
		user, err := a.auth.Login(context.Background(), email, password)
		return authDoneMsg{mode: authform.ModeLogin, user: user, err: err}
	}
}

func (a *App) register(msg authform.SubmittedMsg) tea.Cmd {
	if a.auth == nil {
		return nil
	}
	form := controller.RegisterForm{Email: msg.Email, Password: msg.Password, Confirm: msg.Confirm}
	return func() tea.Msg {
		a.mu.Lock()
		defer a.mu.Unlock()
		user, err := a.auth.Register(context.Background(), form)
		return authDoneMsg{mode: authform.ModeRegister, user: user, err: err}
	}
}

// todoCmd runs op against the todo controller and reports its list
func (a *App) todoCmd(notice string, op func(ctx context.Context) error) tea.Cmd {
	if a.todos == nil {
		return nil
	}
	return func() tea.Msg {
		a.mu.Lock()
		defer a.mu.Unlock()
		err := op(context.Background())
		msg := todosLoadedMsg{
			items:   append([]models.Todo(nil), a.todos.Items...),
			updated: a.todos.Updated,
			err:     err,
		}
		if err == nil {
			msg.notice = notice
		}
		return msg
	}
}

func (a *App) activateTodos() tea.Cmd {
	return a.todoCmd("", func(ctx context.Context) error {
		return a.todos.Activate(ctx)
	})
}

func (a *App) refreshTodos() tea.Cmd {
	return a.todoCmd("", func(ctx context.Context) error {
		return a.todos.Refresh(ctx)
	})
}

func (a *App) addTodo(title, description string) tea.Cmd {
	return a.todoCmd("Added", func(ctx context.Context) error {
		return a.todos.Add(ctx, title, description)
	})
}

func (a *App) toggleTodo(todo models.Todo) tea.Cmd {
	return a.todoCmd("", func(ctx context.Context) error {
		return a.todos.Toggle(ctx, todo)
	})
}

func (a *App) deleteTodo(todo models.Todo) tea.Cmd {
	return a.todoCmd("Deleted", func(ctx context.Context) error {
		_, err := a.todos.Delete(ctx, todo.ID, approved)
		return err
	})
}

// userCmd runs op against the admin controller and reports its list
func (a *App) userCmd(notice string, op func(ctx context.Context) error) tea.Cmd {
	if a.users == nil {
		return nil
	}
	return func() tea.Msg {
		a.mu.Lock()
		defer a.mu.Unlock()
		err := op(context.Background())
		msg := usersLoadedMsg{
			users:   append([]models.User(nil), a.users.Users...),
			updated: a.users.Updated,
			err:     err,
		}
		if err == nil {
			msg.notice = notice
		}
		return msg
	}
}

func (a *App) activateUsers() tea.Cmd {
	return a.userCmd("", func(ctx context.Context) error {
		return a.users.Activate(ctx)
	})
}

func (a *App) refreshUsers() tea.Cmd {
	return a.userCmd("", func(ctx context.Context) error {
		return a.users.Refresh(ctx)
	})
}

func (a *App) toggleRole(user models.User) tea.Cmd {
	return a.userCmd("Role updated", func(ctx context.Context) error {
		return a.users.ToggleRole(ctx, user)
	})
}

func (a *App) deleteUser(user models.User) tea.Cmd {
	return a.userCmd("Deleted "+user.Email, func(ctx context.Context) error {
		_, err := a.users.DeleteUser(ctx, user.ID, approved)
		return err
	})
}

func (a *App) loadUserTodos(user models.User) tea.Cmd {
	if a.users == nil {
		return nil
	}
	return func() tea.Msg {
		a.mu.Lock()
		defer a.mu.Unlock()
		items, err := a.users.UserTodos(context.Background(), user.ID)
		return userTodosLoadedMsg{user: user, items: items, updated: time.Now(), err: err}
	}
}
