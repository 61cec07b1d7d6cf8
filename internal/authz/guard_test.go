// ABOUTME: Tests for the authorization guard
// ABOUTME: Verifies guard state tracks the session store on every check

package authz

import (
	"errors"
	"testing"

	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/session"
)

func TestGuardEmptySession(t *testing.T) {
	g := New(session.NewMemoryStore())

	if g.IsAuthenticated() {
		t.Error("expected unauthenticated without a token")
	}
	if g.IsPrivileged() {
		t.Error("expected unprivileged without a user")
	}
	if !errors.Is(g.RequireAuthenticated(), ErrNotAuthenticated) {
		t.Error("expected ErrNotAuthenticated")
	}
	if !errors.Is(g.RequirePrivileged(), ErrNotAuthenticated) {
		t.Error("expected RequirePrivileged to report missing session first")
	}
}

func TestGuardRegularUser(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetSession("abc", models.User{ID: 1, Email: "a@b.com", IsAdmin: false})
	g := New(store)

	if !g.IsAuthenticated() {
		t.Error("expected authenticated")
	}
	if g.IsPrivileged() {
		t.Error("expected regular user to be unprivileged")
	}
	if !errors.Is(g.RequirePrivileged(), ErrNotPrivileged) {
		t.Error("expected ErrNotPrivileged")
	}
}

func TestGuardAdmin(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetSession("abc", models.User{ID: 1, Email: "admin@example.com", IsAdmin: true})
	g := New(store)

	if err := g.RequirePrivileged(); err != nil {
		t.Errorf("expected admin to pass, got %v", err)
	}
}

func TestGuardRecomputesAfterLogout(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetSession("abc", models.User{ID: 1, Email: "admin@example.com", IsAdmin: true})
	g := New(store)

	if !g.IsAuthenticated() || !g.IsPrivileged() {
		t.Fatal("expected admin session before logout")
	}

	store.Clear()

	if g.IsAuthenticated() {
		t.Error("expected logout to flip IsAuthenticated immediately")
	}
	if g.IsPrivileged() {
		t.Error("expected logout to flip IsPrivileged immediately")
	}
}

func TestGuardTokenWithoutValidUser(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetSession("abc", models.User{ID: 1, Email: "a@b.com", IsAdmin: true})
	store.SetRawUser([]byte(`{"id":1,"email":"a@b.com","is_admin":"yes"}`))
	g := New(store)

	if !g.IsAuthenticated() {
		t.Error("token alone should authenticate")
	}
	if g.IsPrivileged() {
		t.Error("undecodable profile must not grant privileges")
	}
}

func TestCheckNotSelf(t *testing.T) {
	store := session.NewMemoryStore()
	store.SetSession("abc", models.User{ID: 5, Email: "admin@example.com", IsAdmin: true})
	g := New(store)

	tests := []struct {
		name   string
		target int
		want   error
	}{
		{"self", 5, ErrSelfAction},
		{"other", 6, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := g.CheckNotSelf(tc.target); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}
