package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// Profile fetches the account the session belongs to
func (c *Client) Profile(ctx context.Context) (*api.Account, error) {
	var account api.Account
	resp, err := c.do(ctx, http.MethodGet, "/info/", nil, nil, &account)
	if err != nil {
		return nil, err
	}
	if !resp.HasData() {
		return nil, ErrMalformedResponse
	}
	return &account, nil
}

// UpdateProfile changes the name and sex of the session's account
func (c *Client) UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) error {
	if strings.TrimSpace(req.AccountName) == "" {
		return &ValidationError{Field: "account_name", Message: "Account name is required"}
	}
	_, err := c.do(ctx, http.MethodPut, "/info/", nil, req, nil)
	return err
}

// ChangePassword replaces the session account's password
func (c *Client) ChangePassword(ctx context.Context, current, next, confirm string) error {
	switch {
	case current == "":
		return &ValidationError{Field: "current_password", Message: "Current password is required"}
	case len(next) < api.MinPasswordLength:
		return &ValidationError{Field: "new_password", Message: fmt.Sprintf("Password must be at least %d characters long", api.MinPasswordLength)}
	case next != confirm:
		return &ValidationError{Field: "confirm_password", Message: "Passwords do not match"}
	}
	body := api.ChangePasswordRequest{CurrentPassword: current, NewPassword: next, ConfirmPassword: confirm}
	_, err := c.do(ctx, http.MethodPost, "/info/", nil, body, nil)
	return err
}

// AccountDetail fetches one account with its roles
func (c *Client) AccountDetail(ctx context.Context, accountID int64) (*api.Account, error) {
	if accountID <= 0 {
		return nil, &NotFoundError{Resource: "Account"}
	}
	var account api.Account
	resp, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/detail/%d/", accountID), nil, nil, &account)
	if err != nil {
		return nil, err
	}
	if !resp.HasData() {
		return nil, ErrMalformedResponse
	}
	return &account, nil
}

// UpdateAccount replaces an account's fields and roles
func (c *Client) UpdateAccount(ctx context.Context, accountID int64, req api.UpdateAccountRequest) (*api.Account, error) {
	if accountID <= 0 {
		return nil, &NotFoundError{Resource: "Account"}
	}
	if strings.TrimSpace(req.AccountName) == "" {
		return nil, &ValidationError{Field: "account_name", Message: "Account name is required"}
	}
	if !strings.Contains(req.AccountEmail, "@") {
		return nil, &ValidationError{Field: "account_email", Message: "A valid email is required"}
	}
	if req.Roles == nil {
		req.Roles = []int64{}
	}

	var account api.Account
	if _, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/detail/%d/", accountID), nil, req, &account); err != nil {
		return nil, err
	}
	return &account, nil
}
