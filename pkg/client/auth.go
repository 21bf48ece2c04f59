package client

import (
	"context"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// Login exchanges credentials for a token and stores it in the session
func (c *Client) Login(ctx context.Context, email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "account_email", Message: "Email is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "Password is required"}
	}

	var resp api.LoginResponse
	body := api.LoginRequest{AccountEmail: email, Password: password}
	if _, err := c.do(ctx, http.MethodPost, loginPath, nil, body, &resp); err != nil {
		return err
	}
	if resp.Token == "" {
		return ErrMalformedResponse
	}
	c.session.Set(resp.Token)
	return nil
}

// Logout forgets the session token
func (c *Client) Logout() {
	c.session.Clear()
}
