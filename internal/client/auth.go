// ABOUTME: Auth operations: register, login, and current-user lookup
// ABOUTME: Always sent over REST regardless of the configured transport

package client

import (
	"context"
	"net/http"

	"github.com/markalston/todoctl/internal/models"
)

// AuthService groups the account endpoints
type AuthService struct {
	c *Client
}

// Register creates an account. The backend may answer with the new user
// record or with {message, user_id}; either way the returned user carries
// whatever the backend sent.
func (s *AuthService) Register(ctx context.Context, creds models.Credentials) (*models.User, error) {
	const op = "auth.register"

	var raw struct {
		models.User
		Message string       `json:"message"`
		UserID  int          `json:"user_id"`
		Nested  *models.User `json:"user"`
	}
	if err := s.c.doJSON(ctx, op, http.MethodPost, "/register", creds, &raw); err != nil {
		return nil, err
	}

	switch {
	case raw.Nested != nil:
		return raw.Nested, nil
	case raw.User.ID != 0:
		return &raw.User, nil
	case raw.UserID != 0:
		return &models.User{ID: raw.UserID, Email: creds.Email}, nil
	default:
		return &models.User{Email: creds.Email}, nil
	}
}

// Login exchanges credentials for a token and the user record
func (s *AuthService) Login(ctx context.Context, creds models.Credentials) (*models.LoginResponse, error) {
	const op = "auth.login"

	var resp models.LoginResponse
	if err := s.c.doJSON(ctx, op, http.MethodPost, "/login", creds, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, &APIError{Op: op, Kind: KindDecode, Status: http.StatusOK, Message: "backend returned no token"}
	}
	return &resp, nil
}

// CurrentUser fetches the user the stored token belongs to
func (s *AuthService) CurrentUser(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.c.doJSON(ctx, "auth.me", http.MethodGet, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
