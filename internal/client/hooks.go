// ABOUTME: Request interception hooks applied to every outbound call
// ABOUTME: Bearer token injection, request correlation IDs, JSON content type

package client

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestIDHeader carries the per-request correlation id
const RequestIDHeader = "X-Request-ID"

// RequestHook may inspect or modify a request before it is sent.
// Returning an error aborts the call.
type RequestHook func(req *http.Request) error

// TokenSource provides the current bearer token, if any
type TokenSource interface {
	Token() (string, bool)
}

// BearerHook attaches the session token, read fresh for each request
func BearerHook(tokens TokenSource) RequestHook {
	return func(req *http.Request) error {
		if token, ok := tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		return nil
	}
}

// RequestIDHook tags each request with a random correlation id
func RequestIDHook() RequestHook {
	return func(req *http.Request) error {
		if req.Header.Get(RequestIDHeader) == "" {
			req.Header.Set(RequestIDHeader, uuid.NewString())
		}
		return nil
	}
}

// JSONContentHook marks request bodies as JSON
func JSONContentHook() RequestHook {
	return func(req *http.Request) error {
		req.Header.Set("Accept", "application/json")
		if req.Body != nil && req.Body != http.NoBody {
			req.Header.Set("Content-Type", "application/json")
		}
		return nil
	}
}
