package store

import (
	"context"
	"errors"
	"time"

	"github.com/doodlesbykumbi/tablegrant/pkg/permission"
)

// ErrTableNotFound is returned when a table is not in the catalog
var ErrTableNotFound = errors.New("table not found")

// UnknownRolesError lists role names that do not exist
type UnknownRolesError struct {
	Names []string
}

func (e *UnknownRolesError) Error() string {
	return "unknown roles"
}

// TableGrants is a catalog table with the roles holding any capability on
// it. Entry is the union of their capabilities.
type TableGrants struct {
	Table     permission.Table
	Roles     []string
	Entry     permission.Entry
	CreatedAt time.Time
}

// TableGrantsFilter selects a page of catalog tables. An empty Search does
// not filter.
type TableGrantsFilter struct {
	Search string
	Limit  int
	Offset int
}

// TablesStore abstracts the table catalog
type TablesStore interface {
	// ListTables returns the catalog in display order
	ListTables(ctx context.Context) ([]permission.Table, error)

	// UpsertTable adds a table at the end of the catalog, or updates the
	// description of an existing one
	UpsertTable(ctx context.Context, table permission.Table) error

	// DeleteTable removes a table from the catalog. Role permissions on it
	// are kept until the role is next saved.
	DeleteTable(ctx context.Context, name string) error

	// ListTableGrants returns one page of the catalog with the roles
	// granted on each table, and the number of matching tables
	ListTableGrants(ctx context.Context, f TableGrantsFilter) ([]TableGrants, int64, error)

	// SetTableGrants upserts the table and gives exactly the named roles
	// the capabilities of entry on it. Other roles lose their grants on the
	// table. Returns *UnknownRolesError if a name does not exist.
	SetTableGrants(ctx context.Context, table permission.Table, roles []string, entry permission.Entry) error

	// UpdateTableDescription changes the description of a catalog table.
	// Returns ErrTableNotFound if it is not in the catalog.
	UpdateTableDescription(ctx context.Context, name, description string) error

	// PurgeTable removes a table from the catalog together with every
	// role's grants on it. Returns ErrTableNotFound if it is not in the
	// catalog.
	PurgeTable(ctx context.Context, name string) error

	// UnconfiguredTables returns the database tables that are neither in
	// the catalog nor owned by tablegrant
	UnconfiguredTables(ctx context.Context) ([]permission.Table, error)
}
