// ABOUTME: Login, registration and logout flows
// ABOUTME: Validates input locally and writes the session on login

package controller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/models"
	"github.com/markalston/todoctl/internal/session"
)

// MinPasswordLength is the shortest password accepted at registration
const MinPasswordLength = 6

// AuthAPI is the slice of the API client the auth views use
type AuthAPI interface {
	Register(ctx context.Context, creds models.Credentials) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error)
	CurrentUser(ctx context.Context) (*models.User, error)
}

// RegisterForm is the registration input
type RegisterForm struct {
	Email    string
	Password string
	Confirm  string
}

// Validate checks the form in the order the fields are shown
func (f RegisterForm) Validate() error {
	if strings.TrimSpace(f.Email) == "" {
		return &ValidationError{Field: "email", Message: "email is required"}
	}
	if f.Password != f.Confirm {
		return &ValidationError{Field: "confirm", Message: "passwords do not match"}
	}
	if len(f.Password) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("password must be at least %d characters", MinPasswordLength),
		}
	}
	return nil
}

// Auth drives the login and register views
type Auth struct {
	api   AuthAPI
	store session.Store
	guard *authz.Guard
}

// NewAuth creates the auth controller
func NewAuth(api AuthAPI, store session.Store) *Auth {
	return &Auth{api: api, store: store, guard: authz.New(store)}
}

// Activate redirects signed-in users away from the login and register views
func (a *Auth) Activate() error {
	if a.guard.IsAuthenticated() {
		return &RedirectError{To: RouteTodos}
	}
	return nil
}

// Login authenticates and stores the session
func (a *Auth) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, &ValidationError{Field: "email", Message: "email is required"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Message: "password is required"}
	}

	resp, err := a.api.Login(ctx, models.Credentials{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if err := a.store.SetSession(resp.Token, resp.User); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	slog.Info("Logged in", "user_id", resp.User.ID, "admin", resp.User.IsAdmin)
	return &resp.User, nil
}

// Register creates an account. It does not sign the user in.
func (a *Auth) Register(ctx context.Context, form RegisterForm) (*models.User, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	user, err := a.api.Register(ctx, models.Credentials{
		Email:    strings.TrimSpace(form.Email),
		Password: form.Password,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("Registered account", "user_id", user.ID)
	return user, nil
}

// Logout clears the session
func (a *Auth) Logout() error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	slog.Info("Logged out")
	return nil
}

// Refresh re-validates the stored session against the backend and
// updates the cached user. A rejected token leaves the session in place.
func (a *Auth) Refresh(ctx context.Context) (*models.User, error) {
	token, ok := a.store.Token()
	if !ok {
		return nil, &RedirectError{To: RouteLogin, Reason: authz.ErrNotAuthenticated}
	}

	user, err := a.api.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.store.SetSession(token, *user); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return user, nil
}
