// ABOUTME: In-process fake of the todo backend for tests
// ABOUTME: Serves the REST and GraphQL surfaces and records every request

package testbackend

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/markalston/todoctl/internal/models"
)

// Request is one recorded call
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	OperationName string // set for GraphQL calls
	Body          []byte
}

type account struct {
	user     models.User
	password string
}

type failure struct {
	status int
	body   string
}

// Backend is a fake todo service backed by in-memory maps
type Backend struct {
	server *httptest.Server
	secret []byte

	mu       sync.Mutex
	users    map[int]*account
	todos    map[int]*models.Todo
	nextUser int
	nextTodo int
	requests []Request
	fail     *failure
	gate     chan struct{}

	// RegisterReturnsUser makes /register answer with the user record
	// instead of {message, user_id}
	RegisterReturnsUser bool
}

// New starts a backend that is shut down when the test ends
func New(t testing.TB) *Backend {
	t.Helper()
	b := &Backend{
		secret:   []byte("test-secret"),
		users:    make(map[int]*account),
		todos:    make(map[int]*models.Todo),
		nextUser: 1,
		nextTodo: 1,
	}
	b.server = httptest.NewServer(b.routes())
	t.Cleanup(b.server.Close)
	return b
}

func (b *Backend) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", b.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/login", b.handleLogin).Methods(http.MethodPost)

	protected := api.PathPrefix("").Subrouter()
	protected.Use(b.requireAuth)
	protected.HandleFunc("/me", b.handleMe).Methods(http.MethodGet)
	protected.HandleFunc("/todos", b.handleListTodos).Methods(http.MethodGet)
	protected.HandleFunc("/todos", b.handleCreateTodo).Methods(http.MethodPost)
	protected.HandleFunc("/todos/{id:[0-9]+}", b.handleGetTodo).Methods(http.MethodGet)
	protected.HandleFunc("/todos/{id:[0-9]+}", b.handleUpdateTodo).Methods(http.MethodPut)
	protected.HandleFunc("/todos/{id:[0-9]+}", b.handleDeleteTodo).Methods(http.MethodDelete)

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(b.requireAuth, b.requireAdmin)
	admin.HandleFunc("/users", b.handleListUsers).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}", b.handleGetUser).Methods(http.MethodGet)
	admin.HandleFunc("/users/{id:[0-9]+}", b.handleDeleteUser).Methods(http.MethodDelete)
	admin.HandleFunc("/users/{id:[0-9]+}/role", b.handleSetRole).Methods(http.MethodPut)
	admin.HandleFunc("/users/{id:[0-9]+}/todos", b.handleUserTodos).Methods(http.MethodGet)

	r.HandleFunc("/v1/graphql", b.handleGraphQL).Methods(http.MethodPost)
	return r
}

// APIURL is the REST base URL
func (b *Backend) APIURL() string {
	return b.server.URL + "/api"
}

// GraphQLURL is the GraphQL endpoint
func (b *Backend) GraphQLURL() string {
	return b.server.URL + "/v1/graphql"
}

// Close stops the server early, e.g. to simulate an unreachable backend
func (b *Backend) Close() {
	b.server.Close()
}

// AddUser creates an account directly, bypassing /register
func (b *Backend) AddUser(email, password string, isAdmin bool) models.User {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now().UTC().Truncate(time.Second)
	u := models.User{ID: b.nextUser, Email: email, IsAdmin: isAdmin, CreatedAt: now, UpdatedAt: now}
	b.nextUser++
	b.users[u.ID] = &account{user: u, password: password}
	return u
}

// AddTodo creates a todo for userID directly
func (b *Backend) AddTodo(userID int, title, description string, completed bool) models.Todo {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.insertTodo(userID, models.TodoInput{Title: title, Description: description, Completed: completed})
}

// User returns the stored user record
func (b *Backend) User(id int) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	acct, ok := b.users[id]
	if !ok {
		return models.User{}, false
	}
	return acct.user, true
}

// Todo returns the stored todo
func (b *Backend) Todo(id int) (models.Todo, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	todo, ok := b.todos[id]
	if !ok {
		return models.Todo{}, false
	}
	return *todo, true
}

// Requests returns a copy of everything received so far
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

// ResetRequests forgets recorded requests
func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

// FailNext makes the next request answer with status and a plain-text body
func (b *Backend) FailNext(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail = &failure{status: status, body: body}
}

// Hold blocks every request after it is recorded until release is called
func (b *Backend) Hold() (release func()) {
	gate := make(chan struct{})
	b.mu.Lock()
	b.gate = gate
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			b.gate = nil
			b.mu.Unlock()
			close(gate)
		})
	}
}

// record logs the request, then applies any pending hold or failure
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		rec := Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-ID"),
			Body:          body,
		}
		if r.URL.Path == "/v1/graphql" {
			var gql graphqlRequest
			if json.Unmarshal(body, &gql) == nil {
				rec.OperationName = gql.OperationName
			}
		}

		b.mu.Lock()
		b.requests = append(b.requests, rec)
		gate := b.gate
		fail := b.fail
		b.fail = nil
		b.mu.Unlock()

		if gate != nil {
			<-gate
		}
		if fail != nil {
			http.Error(w, fail.body, fail.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) insertTodo(userID int, in models.TodoInput) models.Todo {
	now := time.Now().UTC().Truncate(time.Second)
	todo := &models.Todo{
		ID:          b.nextTodo,
		UserID:      userID,
		Title:       in.Title,
		Description: in.Description,
		Completed:   in.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	b.nextTodo++
	b.todos[todo.ID] = todo
	return *todo
}

// todosFor lists a user's todos, newest first
func (b *Backend) todosFor(userID int) []models.Todo {
	todos := []models.Todo{}
	for _, t := range b.todos {
		if t.UserID == userID {
			todos = append(todos, *t)
		}
	}
	sort.Slice(todos, func(i, j int) bool { return todos[i].ID > todos[j].ID })
	return todos
}

// allUsers lists every user, newest first
func (b *Backend) allUsers() []models.User {
	users := []models.User{}
	for _, a := range b.users {
		users = append(users, a.user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID > users[j].ID })
	return users
}

func (b *Backend) deleteUser(id int) bool {
	if _, ok := b.users[id]; !ok {
		return false
	}
	delete(b.users, id)
	for tid, t := range b.todos {
		if t.UserID == id {
			delete(b.todos, tid)
		}
	}
	return true
}

func (b *Backend) setRole(id int, isAdmin bool) (models.User, bool) {
	acct, ok := b.users[id]
	if !ok {
		return models.User{}, false
	}
	acct.user.IsAdmin = isAdmin
	acct.user.UpdatedAt = time.Now().UTC().Truncate(time.Second)
	return acct.user, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
