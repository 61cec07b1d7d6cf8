// ABOUTME: Admin user-management view controller
// ABOUTME: Applies the self-action rule before confirming or sending anything

package controller

import (
	"context"
	"time"

	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/client"
	"github.com/markalston/todoctl/internal/models"
)

// UserList holds all users as last fetched
type UserList struct {
	api   client.AdminService
	guard *authz.Guard

	Users   []models.User
	Updated time.Time
}

// NewUserList creates the admin controller
func NewUserList(api client.AdminService, guard *authz.Guard) *UserList {
	return &UserList{api: api, guard: guard}
}

// Activate sends anonymous users to login and non-admins to their todos,
// then loads the user list
func (l *UserList) Activate(ctx context.Context) error {
	if err := l.Authorize(); err != nil {
		return err
	}
	return l.Refresh(ctx)
}

// Authorize applies the view guard without loading anything
func (l *UserList) Authorize() error {
	if err := l.guard.RequireAuthenticated(); err != nil {
		return &RedirectError{To: RouteLogin, Reason: err}
	}
	if err := l.guard.RequirePrivileged(); err != nil {
		return &RedirectError{To: RouteTodos, Reason: err}
	}
	return nil
}

// Refresh replaces Users with the backend's current list
func (l *UserList) Refresh(ctx context.Context) error {
	users, err := l.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	l.Users = users
	l.Updated = time.Now()
	return nil
}

// Find looks up a user in the last fetched list
func (l *UserList) Find(id int) (models.User, bool) {
	for _, u := range l.Users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}

// IsSelf reports whether id is the signed-in account
func (l *UserList) IsSelf(id int) bool {
	return l.guard.CheckNotSelf(id) != nil
}

// ToggleRole grants or revokes admin on another account
func (l *UserList) ToggleRole(ctx context.Context, user models.User) error {
	if err := l.guard.CheckNotSelf(user.ID); err != nil {
		return err
	}
	if _, err := l.api.SetUserRole(ctx, user.ID, !user.IsAdmin); err != nil {
		return err
	}
	return l.Refresh(ctx)
}

// SetRole sets the admin flag on another account
func (l *UserList) SetRole(ctx context.Context, id int, isAdmin bool) (*models.User, error) {
	if err := l.guard.CheckNotSelf(id); err != nil {
		return nil, err
	}
	return l.api.SetUserRole(ctx, id, isAdmin)
}

// DeleteUser removes another account once confirm approves. It reports
// whether the deletion was carried out.
func (l *UserList) DeleteUser(ctx context.Context, id int, confirm ConfirmFunc) (bool, error) {
	if err := l.guard.CheckNotSelf(id); err != nil {
		return false, err
	}
	if !confirm("Delete this user?") {
		return false, nil
	}
	if err := l.api.DeleteUser(ctx, id); err != nil {
		return false, err
	}
	return true, l.Refresh(ctx)
}

// User fetches a single user
func (l *UserList) User(ctx context.Context, id int) (*models.User, error) {
	if err := l.Authorize(); err != nil {
		return nil, err
	}
	return l.api.GetUser(ctx, id)
}

// UserTodos fetches another user's todos
func (l *UserList) UserTodos(ctx context.Context, id int) ([]models.Todo, error) {
	if err := l.Authorize(); err != nil {
		return nil, err
	}
	return l.api.UserTodos(ctx, id)
}
