// ABOUTME: Tests for backend data shapes
// ABOUTME: Verifies JSON field names match the backend contract

package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTodoJSONFieldNames(t *testing.T) {
	todo := Todo{ID: 7, UserID: 3, Title: "X", CreatedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)}

	data, err := json.Marshal(todo)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	for _, field := range []string{`"id":7`, `"user_id":3`, `"title":"X"`, `"completed":false`, `"created_at":"2024-01-02T03:04:05Z"`} {
		if !strings.Contains(string(data), field) {
			t.Errorf("expected %s in %s", field, data)
		}
	}
}

func TestTodoInputCarriesFullFieldSet(t *testing.T) {
	todo := Todo{ID: 1, Title: "title", Description: "desc", Completed: true}

	in := todo.Input()
	if in.Title != "title" || in.Description != "desc" || !in.Completed {
		t.Errorf("unexpected input %+v", in)
	}

	data, _ := json.Marshal(TodoInput{})
	if string(data) != `{"title":"","description":"","completed":false}` {
		t.Errorf("empty fields must still be sent, got %s", data)
	}
}

func TestUserRole(t *testing.T) {
	if (User{IsAdmin: true}).Role() != "admin" {
		t.Error("expected admin role")
	}
	if (User{}).Role() != "user" {
		t.Error("expected user role")
	}
}

func TestRoleRequestJSON(t *testing.T) {
	data, _ := json.Marshal(RoleRequest{IsAdmin: true})
	if string(data) != `{"is_admin":true}` {
		t.Errorf("unexpected role body %s", data)
	}
}
