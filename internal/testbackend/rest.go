// ABOUTME: REST handlers of the fake backend
// ABOUTME: Plain-text errors via http.Error, JSON bodies on success

package testbackend

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/markalston/todoctl/internal/models"
)

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	return id
}

func (b *Backend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	for _, a := range b.users {
		if a.user.Email == req.Email {
			b.mu.Unlock()
			http.Error(w, "Email already exists", http.StatusConflict)
			return
		}
	}
	b.mu.Unlock()

	user := b.AddUser(req.Email, req.Password, false)
	if b.RegisterReturnsUser {
		writeJSON(w, http.StatusCreated, user)
		return
	}
	writeJSON(w, http.StatusCreated, models.RegisterResponse{Message: "User registered successfully", UserID: user.ID})
}

func (b *Backend) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	var found *account
	for _, a := range b.users {
		if a.user.Email == req.Email {
			found = a
			break
		}
	}
	var user models.User
	if found != nil {
		user = found.user
	}
	b.mu.Unlock()

	if found == nil || found.password != req.Password {
		http.Error(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	writeJSON(w, http.StatusOK, models.LoginResponse{Token: b.Token(user.ID), User: user})
}

func (b *Backend) handleMe(w http.ResponseWriter, r *http.Request) {
	user, ok := b.User(claimsFrom(r).UserID)
	if !ok {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) handleListTodos(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	todos := b.todosFor(claimsFrom(r).UserID)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, todos)
}

func (b *Backend) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	var in models.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if in.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	todo := b.insertTodo(claimsFrom(r).UserID, in)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, todo)
}

// ownedTodo returns the caller's todo, or nil when it does not exist or
// belongs to someone else. Callers hold b.mu.
func (b *Backend) ownedTodo(r *http.Request) *models.Todo {
	todo, ok := b.todos[pathID(r)]
	if !ok || todo.UserID != claimsFrom(r).UserID {
		return nil
	}
	return todo
}

func (b *Backend) handleGetTodo(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	todo := b.ownedTodo(r)
	var out models.Todo
	if todo != nil {
		out = *todo
	}
	b.mu.Unlock()

	if todo == nil {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	var in models.TodoInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	todo := b.ownedTodo(r)
	var out models.Todo
	if todo != nil {
		todo.Title = in.Title
		todo.Description = in.Description
		todo.Completed = in.Completed
		out = *todo
	}
	b.mu.Unlock()

	if todo == nil {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	todo := b.ownedTodo(r)
	if todo != nil {
		delete(b.todos, todo.ID)
	}
	b.mu.Unlock()

	if todo == nil {
		http.Error(w, "Todo not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Todo deleted successfully"})
}

func (b *Backend) handleListUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	users := b.allUsers()
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, users)
}

func (b *Backend) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, ok := b.User(pathID(r))
	if !ok {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	id := pathID(r)
	if id == claimsFrom(r).UserID {
		http.Error(w, "Cannot delete your own account", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	ok := b.deleteUser(id)
	b.mu.Unlock()

	if !ok {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted successfully"})
}

func (b *Backend) handleSetRole(w http.ResponseWriter, r *http.Request) {
	var req models.RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	id := pathID(r)
	if id == claimsFrom(r).UserID {
		http.Error(w, "Cannot change your own role", http.StatusBadRequest)
		return
	}

	b.mu.Lock()
	user, ok := b.setRole(id, req.IsAdmin)
	b.mu.Unlock()

	if !ok {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

func (b *Backend) handleUserTodos(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	todos := b.todosFor(pathID(r))
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, todos)
}
