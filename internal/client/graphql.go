// ABOUTME: GraphQL transport for the todo and admin groups
// ABOUTME: Sends named operations to the Hasura-style endpoint and maps errors to kinds

package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/markalston/todoctl/internal/models"
)

const todoFields = `
      id
      user_id
      title
      description
      completed
      created_at
      updated_at`

const userFields = `
      id
      email
      is_admin
      created_at
      updated_at`

// Operation documents, keyed by operation name
var (
	queryGetTodos = `query GetTodos {
    todos(order_by: { created_at: desc }) {` + todoFields + `
    }
  }`

	queryGetTodo = `query GetTodo($id: Int!) {
    todos_by_pk(id: $id) {` + todoFields + `
    }
  }`

	mutationInsertTodo = `mutation InsertTodo($title: String!, $description: String, $completed: Boolean) {
    insert_todos_one(object: { title: $title, description: $description, completed: $completed }) {` + todoFields + `
    }
  }`

	mutationUpdateTodo = `mutation UpdateTodo($id: Int!, $title: String, $description: String, $completed: Boolean) {
    update_todos_by_pk(
      pk_columns: { id: $id },
      _set: { title: $title, description: $description, completed: $completed }
    ) {` + todoFields + `
    }
  }`

	mutationDeleteTodo = `mutation DeleteTodo($id: Int!) {
    delete_todos_by_pk(id: $id) {
      id
    }
  }`

	queryGetUsers = `query GetUsers {
    users(order_by: { created_at: desc }) {` + userFields + `
    }
  }`

	queryGetUser = `query GetUser($id: Int!) {
    users_by_pk(id: $id) {` + userFields + `
      todos {` + todoFields + `
      }
    }
  }`

	mutationDeleteUser = `mutation DeleteUser($id: Int!) {
    delete_users_by_pk(id: $id) {
      id
    }
  }`

	mutationUpdateUserRole = `mutation UpdateUserRole($id: Int!, $is_admin: Boolean!) {
    update_users_by_pk(pk_columns: { id: $id }, _set: { is_admin: $is_admin }) {` + userFields + `
    }
  }`
)

type graphqlRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message    string `json:"message"`
	Extensions struct {
		Code string `json:"code"`
	} `json:"extensions"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors"`
}

type graphqlClient struct {
	c *Client
}

// do runs one operation and decodes its data object into out
func (g *graphqlClient) do(ctx context.Context, op, name, query string, vars map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, OperationName: name, Variables: vars})
	if err != nil {
		return &APIError{Op: op, Kind: KindUnknown, Message: "failed to marshal request", Err: err}
	}

	resp, err := g.c.exchange(ctx, op, http.MethodPost, g.c.graphqlURL, body)
	if err != nil {
		return err
	}

	var gqlResp graphqlResponse
	if jsonErr := json.Unmarshal(resp.body, &gqlResp); jsonErr != nil {
		if resp.status < 200 || resp.status > 299 {
			return handleErrorResponse(op, resp.status, resp.body)
		}
		return &APIError{Op: op, Kind: KindDecode, Status: resp.status, Message: "invalid response from backend", Err: jsonErr}
	}

	if len(gqlResp.Errors) > 0 {
		first := gqlResp.Errors[0]
		kind := kindForGraphQLCode(first.Extensions.Code)
		if kind == KindUnknown && (resp.status < 200 || resp.status > 299) {
			kind = kindForStatus(resp.status)
		}
		return &APIError{Op: op, Kind: kind, Status: resp.status, Message: first.Message}
	}
	if resp.status < 200 || resp.status > 299 {
		return handleErrorResponse(op, resp.status, resp.body)
	}

	if out != nil {
		if err := json.Unmarshal(gqlResp.Data, out); err != nil {
			return &APIError{Op: op, Kind: KindDecode, Status: resp.status, Message: "invalid response from backend", Err: err}
		}
	}
	return nil
}

// kindForGraphQLCode maps Hasura-style extension codes to error kinds
func kindForGraphQLCode(code string) Kind {
	switch strings.ToLower(code) {
	case "invalid-jwt", "invalid-headers", "unauthenticated":
		return KindUnauthorized
	case "access-denied", "permission-error", "forbidden":
		return KindForbidden
	case "validation-failed", "constraint-violation", "bad_user_input":
		return KindValidation
	case "not-found":
		return KindNotFound
	case "unexpected", "internal_server_error":
		return KindServer
	default:
		return KindUnknown
	}
}

func notFound(op string) error {
	return &APIError{Op: op, Kind: KindNotFound, Status: http.StatusOK, Message: "not found"}
}

type graphqlTodos struct {
	gql *graphqlClient
}

func (g *graphqlTodos) List(ctx context.Context) ([]models.Todo, error) {
	var data struct {
		Todos []models.Todo `json:"todos"`
	}
	if err := g.gql.do(ctx, "todos.list", "GetTodos", queryGetTodos, nil, &data); err != nil {
		return nil, err
	}
	if data.Todos == nil {
		data.Todos = []models.Todo{}
	}
	return data.Todos, nil
}

func (g *graphqlTodos) Get(ctx context.Context, id int) (*models.Todo, error) {
	const op = "todos.get"
	var data struct {
		Todo *models.Todo `json:"todos_by_pk"`
	}
	if err := g.gql.do(ctx, op, "GetTodo", queryGetTodo, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.Todo == nil {
		return nil, notFound(op)
	}
	return data.Todo, nil
}

func (g *graphqlTodos) Create(ctx context.Context, in models.TodoInput) (*models.Todo, error) {
	const op = "todos.create"
	var data struct {
		Todo *models.Todo `json:"insert_todos_one"`
	}
	vars := map[string]any{"title": in.Title, "description": in.Description, "completed": in.Completed}
	if err := g.gql.do(ctx, op, "InsertTodo", mutationInsertTodo, vars, &data); err != nil {
		return nil, err
	}
	if data.Todo == nil {
		return nil, &APIError{Op: op, Kind: KindDecode, Status: http.StatusOK, Message: "backend returned no todo"}
	}
	return data.Todo, nil
}

func (g *graphqlTodos) Update(ctx context.Context, id int, in models.TodoInput) (*models.Todo, error) {
	const op = "todos.update"
	var data struct {
		Todo *models.Todo `json:"update_todos_by_pk"`
	}
	vars := map[string]any{"id": id, "title": in.Title, "description": in.Description, "completed": in.Completed}
	if err := g.gql.do(ctx, op, "UpdateTodo", mutationUpdateTodo, vars, &data); err != nil {
		return nil, err
	}
	if data.Todo == nil {
		return nil, notFound(op)
	}
	return data.Todo, nil
}

func (g *graphqlTodos) Delete(ctx context.Context, id int) error {
	const op = "todos.delete"
	var data struct {
		Deleted *struct {
			ID int `json:"id"`
		} `json:"delete_todos_by_pk"`
	}
	if err := g.gql.do(ctx, op, "DeleteTodo", mutationDeleteTodo, map[string]any{"id": id}, &data); err != nil {
		return err
	}
	if data.Deleted == nil {
		return notFound(op)
	}
	return nil
}

type graphqlAdmin struct {
	gql *graphqlClient
}

// userWithTodos is the users_by_pk shape, which embeds the user's todos
type userWithTodos struct {
	models.User
	Todos []models.Todo `json:"todos"`
}

func (g *graphqlAdmin) ListUsers(ctx context.Context) ([]models.User, error) {
	var data struct {
		Users []models.User `json:"users"`
	}
	if err := g.gql.do(ctx, "admin.list_users", "GetUsers", queryGetUsers, nil, &data); err != nil {
		return nil, err
	}
	if data.Users == nil {
		data.Users = []models.User{}
	}
	return data.Users, nil
}

func (g *graphqlAdmin) getUser(ctx context.Context, op string, id int) (*userWithTodos, error) {
	var data struct {
		User *userWithTodos `json:"users_by_pk"`
	}
	if err := g.gql.do(ctx, op, "GetUser", queryGetUser, map[string]any{"id": id}, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, notFound(op)
	}
	return data.User, nil
}

func (g *graphqlAdmin) GetUser(ctx context.Context, id int) (*models.User, error) {
	u, err := g.getUser(ctx, "admin.get_user", id)
	if err != nil {
		return nil, err
	}
	return &u.User, nil
}

func (g *graphqlAdmin) UserTodos(ctx context.Context, id int) ([]models.Todo, error) {
	u, err := g.getUser(ctx, "admin.user_todos", id)
	if err != nil {
		return nil, err
	}
	todos := u.Todos
	if todos == nil {
		todos = []models.Todo{}
	}
	// The nested selection omits user_id; it is implied by the parent
	for i := range todos {
		todos[i].UserID = u.ID
	}
	return todos, nil
}

func (g *graphqlAdmin) DeleteUser(ctx context.Context, id int) error {
	const op = "admin.delete_user"
	var data struct {
		Deleted *struct {
			ID int `json:"id"`
		} `json:"delete_users_by_pk"`
	}
	if err := g.gql.do(ctx, op, "DeleteUser", mutationDeleteUser, map[string]any{"id": id}, &data); err != nil {
		return err
	}
	if data.Deleted == nil {
		return notFound(op)
	}
	return nil
}

func (g *graphqlAdmin) SetUserRole(ctx context.Context, id int, isAdmin bool) (*models.User, error) {
	const op = "admin.set_role"
	var data struct {
		User *models.User `json:"update_users_by_pk"`
	}
	vars := map[string]any{"id": id, "is_admin": isAdmin}
	if err := g.gql.do(ctx, op, "UpdateUserRole", mutationUpdateUserRole, vars, &data); err != nil {
		return nil, err
	}
	if data.User == nil {
		return nil, notFound(op)
	}
	return data.User, nil
}
