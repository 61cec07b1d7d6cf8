// ABOUTME: Self-action guard for admin operations
// ABOUTME: Rejects deleting or re-roling the signed-in account before dispatch

package client

import (
	"context"

	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/models"
)

type guardedAdmin struct {
	next  AdminService
	guard *authz.Guard
}

func (g *guardedAdmin) ListUsers(ctx context.Context) ([]models.User, error) {
	return g.next.ListUsers(ctx)
}

func (g *guardedAdmin) GetUser(ctx context.Context, id int) (*models.User, error) {
	return g.next.GetUser(ctx, id)
}

func (g *guardedAdmin) DeleteUser(ctx context.Context, id int) error {
	if err := g.guard.CheckNotSelf(id); err != nil {
		return err
	}
	return g.next.DeleteUser(ctx, id)
}

func (g *guardedAdmin) SetUserRole(ctx context.Context, id int, isAdmin bool) (*models.User, error) {
	if err := g.guard.CheckNotSelf(id); err != nil {
		return nil, err
	}
	return g.next.SetUserRole(ctx, id, isAdmin)
}

func (g *guardedAdmin) UserTodos(ctx context.Context, id int) ([]models.Todo, error) {
	return g.next.UserTodos(ctx, id)
}
