// ABOUTME: Data shapes exchanged with the todo backend
// ABOUTME: Users, todos, and auth request/response contracts

package models

import "time"

// User mirrors the backend's user record. The cached copy may go stale
// until the next fetch.
type User struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Role returns a display label for the user's role
func (u User) Role() string {
	if u.IsAdmin {
		return "admin"
	}
	return "user"
}

// Todo is a single todo item owned by a user
type Todo struct {
	ID          int       `json:"id"`
	UserID      int       `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Input returns the todo's mutable field set
func (t Todo) Input() TodoInput {
	return TodoInput{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
}

// TodoInput is the full mutable field set of a todo. Updates replace all
// three fields rather than patching one.
type TodoInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Credentials is the body of /register and /login
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned by /login
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// RegisterResponse covers both shapes a backend may return from /register:
// a full user record, or a message with the assigned user id.
type RegisterResponse struct {
	Message string `json:"message,omitempty"`
	UserID  int    `json:"user_id,omitempty"`
	User    *User  `json:"user,omitempty"`
}

// RoleRequest is the body of PUT /admin/users/{id}/role
type RoleRequest struct {
	IsAdmin bool `json:"is_admin"`
}
