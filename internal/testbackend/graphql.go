// ABOUTME: GraphQL endpoint of the fake backend
// ABOUTME: Dispatches on operationName and answers in the Hasura error format

package testbackend

import (
	"encoding/json"
	"net/http"

	"github.com/markalston/todoctl/internal/models"
)

type graphqlRequest struct {
	Query         string          `json:"query"`
	OperationName string          `json:"operationName"`
	Variables     json.RawMessage `json:"variables"`
}

type gqlVars struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	IsAdmin     bool   `json:"is_admin"`
}

func writeGraphQLError(w http.ResponseWriter, code, message string) {
	writeJSON(w, http.StatusOK, map[string]any{
		"errors": []map[string]any{{
			"message":    message,
			"extensions": map[string]string{"code": code},
		}},
	})
}

func writeData(w http.ResponseWriter, data map[string]any) {
	writeJSON(w, http.StatusOK, map[string]any{"data": data})
}

var adminOperations = map[string]bool{
	"GetUsers":       true,
	"GetUser":        true,
	"DeleteUser":     true,
	"UpdateUserRole": true,
}

func (b *Backend) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeGraphQLError(w, "invalid-json", "invalid request body")
		return
	}
	var vars gqlVars
	if len(req.Variables) > 0 {
		if err := json.Unmarshal(req.Variables, &vars); err != nil {
			writeGraphQLError(w, "validation-failed", "invalid variables")
			return
		}
	}

	claims, ok := b.parse(r)
	if !ok {
		writeGraphQLError(w, "invalid-jwt", "Could not verify JWT")
		return
	}
	if adminOperations[req.OperationName] && !claims.IsAdmin {
		writeGraphQLError(w, "access-denied", "admin role required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch req.OperationName {
	case "GetTodos":
		writeData(w, map[string]any{"todos": b.todosFor(claims.UserID)})

	case "GetTodo":
		todo, ok := b.todos[vars.ID]
		if !ok || todo.UserID != claims.UserID {
			writeData(w, map[string]any{"todos_by_pk": nil})
			return
		}
		writeData(w, map[string]any{"todos_by_pk": todo})

	case "InsertTodo":
		if vars.Title == "" {
			writeGraphQLError(w, "validation-failed", "title is required")
			return
		}
		todo := b.insertTodo(claims.UserID, models.TodoInput{Title: vars.Title, Description: vars.Description, Completed: vars.Completed})
		writeData(w, map[string]any{"insert_todos_one": todo})

	case "UpdateTodo":
		todo, ok := b.todos[vars.ID]
		if !ok || todo.UserID != claims.UserID {
			writeData(w, map[string]any{"update_todos_by_pk": nil})
			return
		}
		todo.Title = vars.Title
		todo.Description = vars.Description
		todo.Completed = vars.Completed
		writeData(w, map[string]any{"update_todos_by_pk": todo})

	case "DeleteTodo":
		todo, ok := b.todos[vars.ID]
		if !ok || todo.UserID != claims.UserID {
			writeData(w, map[string]any{"delete_todos_by_pk": nil})
			return
		}
		delete(b.todos, vars.ID)
		writeData(w, map[string]any{"delete_todos_by_pk": map[string]int{"id": vars.ID}})

	case "GetUsers":
		writeData(w, map[string]any{"users": b.allUsers()})

	case "GetUser":
		acct, ok := b.users[vars.ID]
		if !ok {
			writeData(w, map[string]any{"users_by_pk": nil})
			return
		}
		writeData(w, map[string]any{"users_by_pk": map[string]any{
			"id":         acct.user.ID,
			"email":      acct.user.Email,
			"is_admin":   acct.user.IsAdmin,
			"created_at": acct.user.CreatedAt,
			"updated_at": acct.user.UpdatedAt,
			"todos":      b.todosFor(vars.ID),
		}})

	case "DeleteUser":
		if vars.ID == claims.UserID {
			writeGraphQLError(w, "permission-error", "cannot delete your own account")
			return
		}
		if !b.deleteUser(vars.ID) {
			writeData(w, map[string]any{"delete_users_by_pk": nil})
			return
		}
		writeData(w, map[string]any{"delete_users_by_pk": map[string]int{"id": vars.ID}})

	case "UpdateUserRole":
		if vars.ID == claims.UserID {
			writeGraphQLError(w, "permission-error", "cannot change your own role")
			return
		}
		user, ok := b.setRole(vars.ID, vars.IsAdmin)
		if !ok {
			writeData(w, map[string]any{"update_users_by_pk": nil})
			return
		}
		writeData(w, map[string]any{"update_users_by_pk": user})

	default:
		writeGraphQLError(w, "validation-failed", "unknown operation "+req.OperationName)
	}
}
