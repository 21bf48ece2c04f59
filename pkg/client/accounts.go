package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// AccountQuery selects one page of accounts. Page is 1-indexed.
// An empty Keyword and a zero RoleID do not filter.
type AccountQuery struct {
	Page    int
	Size    int
	Keyword string
	RoleID  int64
}

func (q AccountQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if kw := strings.TrimSpace(q.Keyword); kw != "" {
		v.Set("keyword", kw)
	}
	if q.RoleID != 0 {
		v.Set("role_id", strconv.FormatInt(q.RoleID, 10))
	}
	return v
}

// Accounts fetches one page of accounts
func (c *Client) Accounts(ctx context.Context, q AccountQuery) (*api.AccountPage, error) {
	if q.Page < 1 {
		return nil, &ValidationError{Field: "page", Message: "Page must be at least 1"}
	}
	if q.Size < 1 {
		return nil, &ValidationError{Field: "size", Message: "Page size must be at least 1"}
	}

	var page api.AccountPage
	if _, err := c.do(ctx, http.MethodGet, "/accounts/", q.values(), nil, &page); err != nil {
		return nil, err
	}
	if page.List == nil {
		page.List = []api.Account{}
	}
	return &page, nil
}

// CreateAccount creates an account holding the given roles
func (c *Client) CreateAccount(ctx context.Context, req api.CreateAccountRequest) (*api.CreateAccountResponse, error) {
	if strings.TrimSpace(req.AccountName) == "" {
		return nil, &ValidationError{Field: "account_name", Message: "Account name is required"}
	}
	if !strings.Contains(req.AccountEmail, "@") {
		return nil, &ValidationError{Field: "account_email", Message: "A valid email is required"}
	}
	if req.Roles == nil {
		req.Roles = []int64{}
	}

	var created api.CreateAccountResponse
	if _, err := c.do(ctx, http.MethodPost, "/create/", nil, req, &created); err != nil {
		return nil, err
	}
	if created.InitialPassword == "" {
		return nil, ErrMalformedResponse
	}
	return &created, nil
}
