// ABOUTME: Transport-neutral interfaces for the todo and admin groups
// ABOUTME: Implemented over REST and GraphQL

package client

import (
	"context"

	"github.com/markalston/todoctl/internal/models"
)

// TodoService operates on the signed-in user's todos
type TodoService interface {
	List(ctx context.Context) ([]models.Todo, error)
	Get(ctx context.Context, id int) (*models.Todo, error)
	Create(ctx context.Context, in models.TodoInput) (*models.Todo, error)
	// Update replaces title, description and completed together
	Update(ctx context.Context, id int, in models.TodoInput) (*models.Todo, error)
	Delete(ctx context.Context, id int) error
}

// AdminService manages users. The backend decides whether the caller is
// allowed; DeleteUser and SetUserRole refuse the caller's own id locally.
type AdminService interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	GetUser(ctx context.Context, id int) (*models.User, error)
	DeleteUser(ctx context.Context, id int) error
	SetUserRole(ctx context.Context, id int, isAdmin bool) (*models.User, error)
	UserTodos(ctx context.Context, id int) ([]models.Todo, error)
}
