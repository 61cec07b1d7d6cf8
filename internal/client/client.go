// ABOUTME: HTTP client for the todo backend
// ABOUTME: Single point of egress; runs request hooks and coalesces duplicate calls

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/markalston/todoctl/internal/authz"
	"github.com/markalston/todoctl/internal/session"
	"golang.org/x/sync/singleflight"
)

// Transport names accepted in Options.Transport
const (
	TransportREST    = "rest"
	TransportGraphQL = "graphql"
)

// Options configures a Client
type Options struct {
	BaseURL    string // REST base URL, e.g. http://localhost:8080/api
	GraphQLURL string // GraphQL endpoint, required for the graphql transport
	Transport  string // rest (default) or graphql; auth calls always use REST

	// Session supplies the bearer token and the identity used by the
	// self-action guard. Nil means an empty in-memory session.
	Session session.Store

	HTTPClient        *http.Client  // overrides Timeout and AllProxy when set
	Timeout           time.Duration // zero keeps the transport defaults
	AllProxy          string        // ssh+socks5://user@host:port?private-key=/path
	DisableCoalescing bool          // send every call even if an identical one is in flight

	// Hooks run after the built-in hooks, in order, on every request
	Hooks []RequestHook
}

// Client is the API client for the todo backend
type Client struct {
	baseURL    string
	graphqlURL string
	httpClient *http.Client
	hooks      []RequestHook
	coalesce   bool
	group      singleflight.Group

	Auth  *AuthService
	Todos TodoService
	Admin AdminService
}

// response is a fully read HTTP response, shareable between coalesced callers
type response struct {
	status int
	body   []byte
}

// New creates a new API client
func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is empty")
	}
	store := opts.Session
	if store == nil {
		store = session.NewMemoryStore()
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
		if opts.AllProxy != "" {
			dial, err := createSOCKS5DialContextFunc(opts.AllProxy)
			if err != nil {
				return nil, err
			}
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = nil
			transport.DialContext = dial
			httpClient.Transport = transport
		}
	}

	c := &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		graphqlURL: opts.GraphQLURL,
		httpClient: httpClient,
		coalesce:   !opts.DisableCoalescing,
	}
	c.hooks = append([]RequestHook{BearerHook(store), RequestIDHook(), JSONContentHook()}, opts.Hooks...)

	guard := authz.New(store)
	c.Auth = &AuthService{c: c}

	switch opts.Transport {
	case "", TransportREST:
		c.Todos = &restTodos{c: c}
		c.Admin = &guardedAdmin{next: &restAdmin{c: c}, guard: guard}
	case TransportGraphQL:
		if opts.GraphQLURL == "" {
			return nil, fmt.Errorf("graphql transport requires a GraphQL URL")
		}
		gql := &graphqlClient{c: c}
		c.Todos = &graphqlTodos{gql: gql}
		c.Admin = &guardedAdmin{next: &graphqlAdmin{gql: gql}, guard: guard}
	default:
		return nil, fmt.Errorf("unknown transport %q", opts.Transport)
	}

	return c, nil
}

// BaseURL returns the REST base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doJSON sends in (if non-nil) as JSON to the REST path and decodes a
// success response into out (if non-nil).
func (c *Client) doJSON(ctx context.Context, op, method, path string, in, out any) error {
	var body []byte
	if in != nil {
		var err error
		body, err = json.Marshal(in)
		if err != nil {
			return &APIError{Op: op, Kind: KindUnknown, Message: "failed to marshal request", Err: err}
		}
	}

	resp, err := c.exchange(ctx, op, method, c.baseURL+path, body)
	if err != nil {
		return err
	}

	if resp.status < 200 || resp.status > 299 {
		return handleErrorResponse(op, resp.status, resp.body)
	}

	if out != nil {
		if err := json.Unmarshal(resp.body, out); err != nil {
			return &APIError{Op: op, Kind: KindDecode, Status: resp.status, Message: "invalid response from backend", Err: err}
		}
	}
	return nil
}

// exchange performs one HTTP round trip. Identical concurrent exchanges
// (same method, URL and body) share a single request unless coalescing
// is disabled; the first caller's context governs the shared request.
func (c *Client) exchange(ctx context.Context, op, method, target string, body []byte) (*response, error) {
	if !c.coalesce {
		return c.send(ctx, op, method, target, body)
	}

	key := requestKey(method, target, body)
	v, err, shared := c.group.Do(key, func() (interface{}, error) {
		return c.send(ctx, op, method, target, body)
	})
	if shared {
		slog.Debug("Coalesced duplicate request", "key", key)
	}
	if err != nil {
		return nil, err
	}
	return v.(*response), nil
}

func (c *Client) send(ctx context.Context, op, method, target string, body []byte) (*response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, &APIError{Op: op, Kind: KindUnknown, Message: "failed to create request", Err: err}
	}
	for _, hook := range c.hooks {
		if err := hook(req); err != nil {
			return nil, &APIError{Op: op, Kind: KindUnknown, Message: "request hook failed", Err: err}
		}
	}

	start := time.Now()
	requestID := req.Header.Get(RequestIDHeader)
	slog.Debug("Request started",
		"request_id", requestID,
		"op", op,
		"method", method,
		"path", req.URL.Path,
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("Request failed", "request_id", requestID, "op", op, "error", err)
		return nil, c.handleRequestError(ctx, op, c.hostOf(req), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.handleRequestError(ctx, op, c.hostOf(req), err)
	}

	slog.Info("Request completed",
		"request_id", requestID,
		"op", op,
		"method", method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"latency_ms", time.Since(start).Milliseconds(),
	)

	return &response{status: resp.StatusCode, body: data}, nil
}

func (c *Client) hostOf(req *http.Request) string {
	return req.URL.Scheme + "://" + req.URL.Host
}
