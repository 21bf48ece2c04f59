package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
)

// TablePermissionQuery selects one page of the table-permission view
type TablePermissionQuery struct {
	Page   int
	Size   int
	Search string
}

// TablePermissions fetches one page of catalog tables with the roles
// granted on each
func (c *Client) TablePermissions(ctx context.Context, q TablePermissionQuery) (*api.TablePermissionPage, error) {
	if q.Page < 1 {
		return nil, &ValidationError{Field: "page", Message: "Page must be at least 1"}
	}
	if q.Size < 1 {
		return nil, &ValidationError{Field: "size", Message: "Page size must be at least 1"}
	}
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	if s := strings.TrimSpace(q.Search); s != "" {
		v.Set("search", s)
	}

	var page api.TablePermissionPage
	if _, err := c.do(ctx, http.MethodGet, "/table-permissions/", v, nil, &page); err != nil {
		return nil, err
	}
	if page.List == nil {
		page.List = []api.TablePermission{}
	}
	return &page, nil
}

// SetTablePermission gives exactly the named roles the capabilities on a
// table, adding the table to the catalog when needed
func (c *Client) SetTablePermission(ctx context.Context, req api.TablePermissionRequest) error {
	if strings.TrimSpace(req.TableName) == "" {
		return &ValidationError{Field: "table_name", Message: "Table name is required"}
	}
	if req.RoleNames == nil {
		req.RoleNames = []string{}
	}
	_, err := c.do(ctx, http.MethodPost, "/table-permissions/", nil, req, nil)
	return err
}

// UpdateTableDesc changes the description of a catalog table
func (c *Client) UpdateTableDesc(ctx context.Context, table, desc string) error {
	if strings.TrimSpace(table) == "" {
		return &ValidationError{Field: "table_name", Message: "Table name is required"}
	}
	_, err := c.do(ctx, http.MethodPut, "/table-permissions/", nil, api.TableDescRequest{TableName: table, TableDesc: desc}, nil)
	return err
}

// DeleteTable removes a table from the catalog with every grant on it
func (c *Client) DeleteTable(ctx context.Context, table string) error {
	if strings.TrimSpace(table) == "" {
		return &ValidationError{Field: "table_name", Message: "Table name is required"}
	}
	_, err := c.do(ctx, http.MethodDelete, "/table-permissions/", url.Values{"table_name": {table}}, nil, nil)
	return err
}

// UnconfiguredTables lists database tables that are not in the catalog
func (c *Client) UnconfiguredTables(ctx context.Context) ([]api.UnconfiguredTable, error) {
	var tables []api.UnconfiguredTable
	if _, err := c.do(ctx, http.MethodGet, "/unconfigured-tables/", nil, nil, &tables); err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []api.UnconfiguredTable{}
	}
	return tables, nil
}
