// ABOUTME: Authorization guard derived from the session store
// ABOUTME: Answers "is a session present" and "is the session privileged"

package authz

import (
	"errors"

	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/session"
)

var (
	// ErrNotAuthenticated means no session token is stored
	ErrNotAuthenticated = errors.New("not logged in")
	// ErrNotPrivileged means the cached user is missing or not an admin
	ErrNotPrivileged = errors.New("admin privileges required")
	// ErrSelfAction means an admin operation targets the signed-in account
	ErrSelfAction = errors.New("cannot perform this action on your own account")
)

// Guard derives authorization state from a session store. Every check
// re-reads the store, so a logout is visible immediately.
type Guard struct {
	store session.Store
}

// New creates a guard over the given store
func New(store session.Store) *Guard {
	return &Guard{store: store}
}

// IsAuthenticated reports whether a token is stored
func (g *Guard) IsAuthenticated() bool {
	_, ok := g.store.Token()
	return ok
}

// IsPrivileged reports whether the cached user is an admin
func (g *Guard) IsPrivileged() bool {
	user, ok := g.store.User()
	return ok && user.IsAdmin
}

// CurrentUser returns the cached user, if any
func (g *Guard) CurrentUser() (models.User, bool) {
	return g.store.User()
}

// RequireAuthenticated returns ErrNotAuthenticated without a session
func (g *Guard) RequireAuthenticated() error {
	if !g.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	return nil
}

// RequirePrivileged checks authentication first, then the admin flag
func (g *Guard) RequirePrivileged() error {
	if err := g.RequireAuthenticated(); err != nil {
		return err
	}
	if !g.IsPrivileged() {
		return ErrNotPrivileged
	}
	return nil
}

// CheckNotSelf rejects targetID when it is the signed-in user's own id
func (g *Guard) CheckNotSelf(targetID int) error {
	if user, ok := g.store.User(); ok && user.ID == targetID {
		return ErrSelfAction
	}
	return nil
}
