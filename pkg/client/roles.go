package client

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// TableList fetches the table catalog
func (c *Client) TableList(ctx context.Context) ([]permission.Table, error) {
	var tables []permission.Table
	if _, err := c.do(ctx, http.MethodGet, "/table-list/", nil, nil, &tables); err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []permission.Table{}
	}
	return tables, nil
}

// RoleDetail fetches a role with its persisted permissions
func (c *Client) RoleDetail(ctx context.Context, roleID int64) (*api.RoleDetail, error) {
	if roleID == 0 {
		return nil, &NotFoundError{Resource: "Role"}
	}

	var detail struct {
		RoleID      int64               `json:"role_id"`
		RoleName    string              `json:"role_name"`
		Permissions *[]permission.Entry `json:"permissions"`
	}
	path := fmt.Sprintf("/role-detail/%d/", roleID)
	if _, err := c.do(ctx, http.MethodGet, path, nil, nil, &detail); err != nil {
		return nil, err
	}
	if detail.Permissions == nil {
		return nil, fmt.Errorf("role %d: %w: permissions missing", roleID, ErrMalformedResponse)
	}

	return &api.RoleDetail{
		RoleID:      detail.RoleID,
		RoleName:    detail.RoleName,
		Permissions: *detail.Permissions,
	}, nil
}

// CreateRole creates a role with a full permission set
func (c *Client) CreateRole(ctx context.Context, name string, entries []permission.Entry) error {
	if err := validateRoleName(name); err != nil {
		return err
	}
	body := api.RoleRequest{RoleName: name, Permissions: nonNil(entries)}
	_, err := c.do(ctx, http.MethodPost, "/role-stats/", nil, body, nil)
	return err
}

// UpdateRole renames a role and replaces its permission set
func (c *Client) UpdateRole(ctx context.Context, roleID int64, name string, entries []permission.Entry) error {
	if roleID <= 0 {
		return &ValidationError{Field: "role_id", Message: "Invalid role ID " + strconv.FormatInt(roleID, 10)}
	}
	if err := validateRoleName(name); err != nil {
		return err
	}
	body := api.RoleRequest{RoleID: roleID, RoleName: name, Permissions: nonNil(entries)}
	_, err := c.do(ctx, http.MethodPut, "/role-stats/", nil, body, nil)
	return err
}

// Roles lists all roles
func (c *Client) Roles(ctx context.Context) ([]api.Role, error) {
	var list api.RoleList
	if _, err := c.do(ctx, http.MethodGet, "/roles/", nil, nil, &list); err != nil {
		return nil, err
	}
	if list.List == nil {
		list.List = []api.Role{}
	}
	return list.List, nil
}

// RoleStats lists roles with their member counts
func (c *Client) RoleStats(ctx context.Context) ([]api.RoleStat, error) {
	var stats []api.RoleStat
	if _, err := c.do(ctx, http.MethodGet, "/role-stats/", nil, nil, &stats); err != nil {
		return nil, err
	}
	return stats, nil
}

func validateRoleName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "role_name", Message: "Role name is required"}
	}
	return nil
}

func nonNil(entries []permission.Entry) []permission.Entry {
	if entries == nil {
		return []permission.Entry{}
	}
	return entries
}
