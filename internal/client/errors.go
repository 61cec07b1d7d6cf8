// ABOUTME: Typed errors returned by the API client
// ABOUTME: Classifies failures by kind and carries the backend's message

package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind classifies an API failure
type Kind string

const (
	KindNetwork      Kind = "network"
	KindCanceled     Kind = "canceled"
	KindTimeout      Kind = "timeout"
	KindUnauthorized Kind = "unauthorized"
	KindForbidden    Kind = "forbidden"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindValidation   Kind = "validation"
	KindServer       Kind = "server"
	KindDecode       Kind = "decode"
	KindUnknown      Kind = "unknown"
)

// maxMessageLen caps backend messages taken from plain-text bodies
const maxMessageLen = 200

// APIError describes a failed call to the backend
type APIError struct {
	Op      string // client operation, e.g. "todos.delete"
	Kind    Kind
	Status  int    // HTTP status, zero when no response was received
	Message string // backend-provided message, when available
	Err     error
}

func (e *APIError) Error() string {
	if e == nil {
		return "api error"
	}
	var detail string
	switch {
	case e.Message != "" && e.Status != 0:
		detail = fmt.Sprintf("%s (status %d)", e.Message, e.Status)
	case e.Message != "":
		detail = e.Message
	case e.Err != nil:
		detail = e.Err.Error()
	case e.Status != 0:
		detail = fmt.Sprintf("backend returned status %d", e.Status)
	default:
		detail = string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Op, detail)
}

func (e *APIError) Unwrap() error { return e.Err }

// KindOf returns the kind of an APIError anywhere in err's chain
func KindOf(err error) Kind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsKind reports whether err is an APIError of the given kind
func IsKind(err error, kind Kind) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// kindForStatus maps an HTTP status code to an error kind
func kindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized:
		return KindUnauthorized
	case status == http.StatusForbidden:
		return KindForbidden
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusConflict:
		return KindConflict
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500:
		return KindServer
	default:
		return KindUnknown
	}
}

// handleRequestError converts transport and context errors to APIErrors
func (c *Client) handleRequestError(ctx context.Context, op, target string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return &APIError{Op: op, Kind: KindCanceled, Message: "request canceled", Err: err}
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &APIError{Op: op, Kind: KindTimeout, Message: "request timed out", Err: err}
	}
	return &APIError{
		Op:      op,
		Kind:    KindNetwork,
		Message: fmt.Sprintf("cannot connect to backend at %s", target),
		Err:     err,
	}
}

// handleErrorResponse builds an APIError from a non-success response
func handleErrorResponse(op string, status int, body []byte) error {
	return &APIError{
		Op:      op,
		Kind:    kindForStatus(status),
		Status:  status,
		Message: extractMessage(status, body),
	}
}

// extractMessage pulls the backend's message out of a JSON error body
// ({"error": ...} or {"message": ...}) or a plain-text body.
func extractMessage(status int, body []byte) string {
	var errResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil {
		if errResp.Error != "" {
			return errResp.Error
		}
		if errResp.Message != "" {
			return errResp.Message
		}
	}

	text := strings.TrimSpace(string(body))
	if text != "" && !strings.HasPrefix(text, "{") && !strings.HasPrefix(text, "<") {
		if len(text) > maxMessageLen {
			text = text[:maxMessageLen] + "..."
		}
		return text
	}
	return http.StatusText(status)
}
