// ABOUTME: Tests for the todo list controller
// ABOUTME: Every write must be followed by a fresh list call

package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/markalston/todoctl/internal/client"
)

func TestTodoList_ActivateRequiresSession(t *testing.T) {
	f := newFixture(t)
	list := NewTodoList(f.client.Todos, f.guard)

	err := list.Activate(context.Background())
	if !isRedirectTo(err, RouteLogin) {
		t.Fatalf("expected redirect to login, got %v", err)
	}
	assertCalls(t, f.calls())
}

func TestTodoList_Activate(t *testing.T) {
	f := newFixture(t)
	user := f.backend.AddUser("a@b.com", "secret1", false)
	f.backend.AddTodo(user.ID, "first", "", false)
	f.backend.AddTodo(user.ID, "second", "", true)
	f.signIn(t, user)
	list := NewTodoList(f.client.Todos, f.guard)

	if err := list.Activate(context.Background()); err != nil {
		t.Fatalf("Activate() error: %v", err)
	}
	if len(list.Items) != 2 || list.Items[0].Title != "second" {
		t.Errorf("expected newest first, got %+v", list.Items)
	}
	if list.Updated.IsZero() {
		t.Error("expected Updated to be set")
	}
}

func TestTodoList_AddRefetches(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.backend.AddUser("a@b.com", "secret1", false))
	list := NewTodoList(f.client.Todos, f.guard)

	if err := list.Add(context.Background(), "X", ""); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	assertCalls(t, f.calls(),
		call{http.MethodPost, "/todos"},
		call{http.MethodGet, "/todos"},
	)

	var body map[string]any
	json.Unmarshal(f.backend.Requests()[0].Body, &body)
	if body["title"] != "X" || body["description"] != "" || body["completed"] != false {
		t.Errorf("unexpected create body %v", body)
	}
	if len(list.Items) != 1 || list.Items[0].Title != "X" {
		t.Errorf("expected list to come from the backend, got %+v", list.Items)
	}
}

func TestTodoList_AddBlankTitle(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.backend.AddUser("a@b.com", "secret1", false))
	list := NewTodoList(f.client.Todos, f.guard)

	if err := list.Add(context.Background(), "   ", "desc"); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
	assertCalls(t, f.calls())
}

func TestTodoList_ToggleSendsFullFieldSet(t *testing.T) {
	f := newFixture(t)
	user := f.backend.AddUser("a@b.com", "secret1", false)
	todo := f.backend.AddTodo(user.ID, "X", "details", false)
	f.signIn(t, user)
	list := NewTodoList(f.client.Todos, f.guard)

	if err := list.Toggle(context.Background(), todo); err != nil {
		t.Fatalf("Toggle() error: %v", err)
	}

	assertCalls(t, f.calls(),
		call{http.MethodPut, "/todos/1"},
		call{http.MethodGet, "/todos"},
	)
	stored, _ := f.backend.Todo(todo.ID)
	if !stored.Completed || stored.Title != "X" || stored.Description != "details" {
		t.Errorf("expected only completed to change, got %+v", stored)
	}
}

func TestTodoList_Edit(t *testing.T) {
	f := newFixture(t)
	user := f.backend.AddUser("a@b.com", "secret1", false)
	todo := f.backend.AddTodo(user.ID, "X", "", false)
	f.signIn(t, user)
	list := NewTodoList(f.client.Todos, f.guard)

	in := todo.Input()
	in.Title = "  renamed  "
	if err := list.Edit(context.Background(), todo.ID, in); err != nil {
		t.Fatalf("Edit() error: %v", err)
	}
	if got, _ := list.Find(todo.ID); got.Title != "renamed" {
		t.Errorf("expected renamed todo in refreshed list, got %+v", got)
	}

	in.Title = ""
	if err := list.Edit(context.Background(), todo.ID, in); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("expected ErrEmptyTitle, got %v", err)
	}
}

func TestTodoList_Delete(t *testing.T) {
	tests := []struct {
		name    string
		confirm bool
		want    []call
	}{
		{"declined", false, nil},
		{"confirmed", true, []call{{http.MethodDelete, "/todos/7"}, {http.MethodGet, "/todos"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			user := f.backend.AddUser("a@b.com", "secret1", false)
			for i := 0; i < 7; i++ {
				f.backend.AddTodo(user.ID, "todo", "", false)
			}
			f.signIn(t, user)
			list := NewTodoList(f.client.Todos, f.guard)
			confirm, asked := always(tc.confirm)

			deleted, err := list.Delete(context.Background(), 7, confirm)
			if err != nil {
				t.Fatalf("Delete() error: %v", err)
			}
			if deleted != tc.confirm {
				t.Errorf("expected deleted=%v, got %v", tc.confirm, deleted)
			}
			if *asked != 1 {
				t.Errorf("expected one confirmation prompt, got %d", *asked)
			}
			assertCalls(t, f.calls(), tc.want...)
		})
	}
}

func TestTodoList_ErrorsSurfaceToCaller(t *testing.T) {
	f := newFixture(t)
	f.signIn(t, f.backend.AddUser("a@b.com", "secret1", false))
	list := NewTodoList(f.client.Todos, f.guard)
	list.Activate(context.Background())
	before := list.Items

	f.backend.FailNext(http.StatusInternalServerError, "Failed to create todo")
	err := list.Add(context.Background(), "X", "")
	if !client.IsKind(err, client.KindServer) {
		t.Fatalf("expected server error, got %v", err)
	}
	if Banner(err) != "server error (status 500): Failed to create todo" {
		t.Errorf("unexpected banner %q", Banner(err))
	}
	if len(list.Items) != len(before) {
		t.Error("failed write must not change the local list")
	}
}
