package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// DefaultTimeout bounds every request
const DefaultTimeout = 40 * time.Second

const (
	basePath  = "/account"
	loginPath = "/login/"
)

// Client calls the /account API
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	session        *Session
	onUnauthorized func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithUnauthorizedHandler registers a hook called after a 401 cleared the session
func WithUnauthorizedHandler(fn func()) Option {
	return func(c *Client) {
		c.onUnauthorized = fn
	}
}

// New creates a client for the server at baseURL
func New(baseURL string, session *Session, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", baseURL)
	}
	if session == nil {
		session = NewSession("")
	}

	c := &Client{
		baseURL: u,
		http:    &http.Client{Timeout: DefaultTimeout},
		session: session,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns the session used by the client
func (c *Client) Session() *Session {
	return c.session
}

// do sends one request and decodes the envelope data into out (if non-nil).
// It returns the raw envelope so callers can check for missing data.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) (*api.RawResponse, error) {
	op := method + " " + basePath + path

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encoding request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + basePath + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth := c.session.Authorization(); auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	// A failed login is an ordinary application error, not an expired session
	if resp.StatusCode == http.StatusUnauthorized && path != loginPath {
		c.session.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		return nil, ErrUnauthorized
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}

	var env api.RawResponse
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Code: resp.StatusCode, Msg: genericMessage(resp.StatusCode)}
		if decodeErr == nil {
			if env.Code != nil {
				apiErr.Code = *env.Code
			}
			if env.Msg != "" {
				apiErr.Msg = env.Msg
			}
		}
		return nil, apiErr
	}

	if decodeErr != nil {
		return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, decodeErr)
	}
	if env.Code != nil && *env.Code != api.CodeSuccess {
		msg := env.Msg
		if msg == "" {
			msg = "Request failed"
		}
		return nil, &APIError{Status: resp.StatusCode, Code: *env.Code, Msg: msg}
	}

	if out != nil && env.HasData() {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return nil, fmt.Errorf("%s: %w: %v", op, ErrMalformedResponse, err)
		}
	}
	return &env, nil
}

func genericMessage(status int) string {
	if text := http.StatusText(status); text != "" {
		return "Request failed: " + text
	}
	return "Request failed"
}
