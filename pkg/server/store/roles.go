package store

import (
	"context"
	"errors"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

var (
	// ErrRoleNotFound is returned when a role doesn't exist
	ErrRoleNotFound = errors.New("role not found")

	// ErrRoleNameTaken is returned when another role already has the name
	ErrRoleNameTaken = errors.New("role name already exists")
)

// Role is a role without its permissions
type Role struct {
	ID     int64
	Name   string
	Status string
	Remark *string
}

// RoleStat is a role with its member count
type RoleStat struct {
	ID         int64
	Name       string
	TotalUsers int
}

// RolesStore abstracts role storage operations
type RolesStore interface {
	// ListRoles returns every role ordered by id
	ListRoles(ctx context.Context) ([]Role, error)

	// RoleStats returns every role with the number of accounts holding it
	RoleStats(ctx context.Context) ([]RoleStat, error)

	// FetchRole returns a role and its persisted permission entries.
	// Returns ErrRoleNotFound if the role doesn't exist.
	FetchRole(ctx context.Context, id int64) (*Role, []permission.Entry, error)

	// CreateRole creates a role with the given entries and returns its id.
	// Returns ErrRoleNameTaken if the name is used.
	CreateRole(ctx context.Context, name string, entries []permission.Entry) (int64, error)

	// UpdateRole renames a role and replaces its entries in one transaction.
	UpdateRole(ctx context.Context, id int64, name string, entries []permission.Entry) error

	// MissingRoles returns the ids among the given ones that do not exist
	MissingRoles(ctx context.Context, ids []int64) ([]int64, error)
}
