// ABOUTME: View controllers shared by the CLI and the TUI
// ABOUTME: Routes, redirect signals, and user-facing error banners

package controller

import (
	"errors"
	"fmt"

	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/client"
)

// Route names a view
type Route string

const (
	RouteLogin     Route = "login"
	RouteRegister  Route = "register"
	RouteTodos     Route = "todos"
	RouteAdmin     Route = "admin"
	RouteUserTodos Route = "user-todos"
)

// RedirectError is returned when a view's guard sends the user elsewhere
type RedirectError struct {
	To     Route
	Reason error
}

func (e *RedirectError) Error() string {
	if e.Reason != nil {
		return fmt.Sprintf("%s (redirect to %s)", e.Reason, e.To)
	}
	return fmt.Sprintf("redirect to %s", e.To)
}

func (e *RedirectError) Unwrap() error { return e.Reason }

// RedirectTarget returns the route carried by a RedirectError in err's chain
func RedirectTarget(err error) (Route, bool) {
	var redirect *RedirectError
	if errors.As(err, &redirect) {
		return redirect.To, true
	}
	return "", false
}

// ValidationError is a local input problem caught before any request
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ErrEmptyTitle rejects a todo whose title is blank
var ErrEmptyTitle = &ValidationError{Field: "title", Message: "title is required"}

// ConfirmFunc asks the user to approve a destructive action
type ConfirmFunc func(prompt string) bool

// Home picks the landing view for the current session
func Home(guard *authz.Guard) Route {
	if guard.IsAuthenticated() {
		return RouteTodos
	}
	return RouteLogin
}

// IsLocal reports whether err was raised before reaching the backend:
// input validation, a guard redirect, or the self-action rule.
func IsLocal(err error) bool {
	var validation *ValidationError
	var redirect *RedirectError
	return errors.As(err, &validation) ||
		errors.As(err, &redirect) ||
		errors.Is(err, authz.ErrSelfAction) ||
		errors.Is(err, authz.ErrNotAuthenticated) ||
		errors.Is(err, authz.ErrNotPrivileged)
}

// Banner turns an error into a one-line message for display
func Banner(err error) string {
	if err == nil {
		return ""
	}

	var validation *ValidationError
	if errors.As(err, &validation) {
		return validation.Message
	}
	if IsLocal(err) {
		return err.Error()
	}

	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	msg := apiErr.Message
	switch apiErr.Kind {
	case client.KindNetwork:
		return msg
	case client.KindCanceled:
		return "request canceled"
	case client.KindTimeout:
		return "request timed out"
	case client.KindUnauthorized:
		return withDetail("session expired or invalid, please log in again", msg)
	case client.KindForbidden:
		return withDetail("permission denied", msg)
	case client.KindNotFound:
		return withDetail("not found", msg)
	case client.KindConflict:
		return withDetail("conflict", msg)
	case client.KindValidation:
		return withDetail("rejected by server", msg)
	case client.KindServer:
		return withDetail(fmt.Sprintf("server error (status %d)", apiErr.Status), msg)
	case client.KindDecode:
		return "unexpected response from server"
	default:
		return apiErr.Error()
	}
}

func withDetail(summary, detail string) string {
	if detail == "" {
		return summary
	}
	return summary + ": " + detail
}
