// ABOUTME: Todo list view controller
// ABOUTME: Every mutation is followed by a full re-fetch of the list

package controller

import (
	"context"
	"strings"
	"time"

	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/client"
	"github.com/markalston/todoctl/internal/models"
)

// TodoList holds the signed-in user's todos as last fetched
type TodoList struct {
	api   client.TodoService
	guard *authz.Guard

	Items   []models.Todo
	Updated time.Time
}

// NewTodoList creates the todo list controller
func NewTodoList(api client.TodoService, guard *authz.Guard) *TodoList {
	return &TodoList{api: api, guard: guard}
}

// Activate requires a session, then loads the list
func (l *TodoList) Activate(ctx context.Context) error {
	if err := l.guard.RequireAuthenticated(); err != nil {
		return &RedirectError{To: RouteLogin, Reason: err}
	}
	return l.Refresh(ctx)
}

// Refresh replaces Items with the backend's current list
func (l *TodoList) Refresh(ctx context.Context) error {
	items, err := l.api.List(ctx)
	if err != nil {
		return err
	}
	l.Items = items
	l.Updated = time.Now()
	return nil
}

// Find looks up a todo in the last fetched list
func (l *TodoList) Find(id int) (models.Todo, bool) {
	for _, t := range l.Items {
		if t.ID == id {
			return t, true
		}
	}
	return models.Todo{}, false
}

// Add creates an open todo
func (l *TodoList) Add(ctx context.Context, title, description string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	_, err := l.api.Create(ctx, models.TodoInput{Title: title, Description: description, Completed: false})
	if err != nil {
		return err
	}
	return l.Refresh(ctx)
}

// Toggle flips completed, sending the todo's full field set
func (l *TodoList) Toggle(ctx context.Context, todo models.Todo) error {
	in := todo.Input()
	in.Completed = !in.Completed
	if _, err := l.api.Update(ctx, todo.ID, in); err != nil {
		return err
	}
	return l.Refresh(ctx)
}

// Edit replaces a todo's fields
func (l *TodoList) Edit(ctx context.Context, id int, in models.TodoInput) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return ErrEmptyTitle
	}
	if _, err := l.api.Update(ctx, id, in); err != nil {
		return err
	}
	return l.Refresh(ctx)
}

// Delete removes a todo once confirm approves. It reports whether the
// deletion was carried out.
func (l *TodoList) Delete(ctx context.Context, id int, confirm ConfirmFunc) (bool, error) {
	if !confirm("Delete this todo?") {
		return false, nil
	}
	if err := l.api.Delete(ctx, id); err != nil {
		return false, err
	}
	return true, l.Refresh(ctx)
}
