// ABOUTME: REST implementations of the todo and admin groups
// ABOUTME: Each method maps to exactly one backend endpoint

package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/markalston/todoctl/internal/models"
)

type restTodos struct {
	c *Client
}

func (r *restTodos) List(ctx context.Context) ([]models.Todo, error) {
	var todos []models.Todo
	if err := r.c.doJSON(ctx, "todos.list", http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

func (r *restTodos) Get(ctx context.Context, id int) (*models.Todo, error) {
	var todo models.Todo
	if err := r.c.doJSON(ctx, "todos.get", http.MethodGet, todoPath(id), nil, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *restTodos) Create(ctx context.Context, in models.TodoInput) (*models.Todo, error) {
	var todo models.Todo
	if err := r.c.doJSON(ctx, "todos.create", http.MethodPost, "/todos", in, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *restTodos) Update(ctx context.Context, id int, in models.TodoInput) (*models.Todo, error) {
	var todo models.Todo
	if err := r.c.doJSON(ctx, "todos.update", http.MethodPut, todoPath(id), in, &todo); err != nil {
		return nil, err
	}
	return &todo, nil
}

func (r *restTodos) Delete(ctx context.Context, id int) error {
	return r.c.doJSON(ctx, "todos.delete", http.MethodDelete, todoPath(id), nil, nil)
}

func todoPath(id int) string {
	return fmt.Sprintf("/todos/%d", id)
}

type restAdmin struct {
	c *Client
}

func (r *restAdmin) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := r.c.doJSON(ctx, "admin.list_users", http.MethodGet, "/admin/users", nil, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

func (r *restAdmin) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user models.User
	if err := r.c.doJSON(ctx, "admin.get_user", http.MethodGet, userPath(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *restAdmin) DeleteUser(ctx context.Context, id int) error {
	return r.c.doJSON(ctx, "admin.delete_user", http.MethodDelete, userPath(id), nil, nil)
}

func (r *restAdmin) SetUserRole(ctx context.Context, id int, isAdmin bool) (*models.User, error) {
	var user models.User
	body := models.RoleRequest{IsAdmin: isAdmin}
	if err := r.c.doJSON(ctx, "admin.set_role", http.MethodPut, userPath(id)+"/role", body, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *restAdmin) UserTodos(ctx context.Context, id int) ([]models.Todo, error) {
	var todos []models.Todo
	if err := r.c.doJSON(ctx, "admin.user_todos", http.MethodGet, userPath(id)+"/todos", nil, &todos); err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return todos, nil
}

func userPath(id int) string {
	return fmt.Sprintf("/admin/users/%d", id)
}
