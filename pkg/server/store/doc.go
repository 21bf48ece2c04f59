// Package store provides storage abstractions for the tablegrant server.
//
// Endpoints depend on these interfaces only; the gorm subpackage provides
// the PostgreSQL implementations and tests substitute mocks.
//
// # Available Stores
//
//   - TablesStore: the table catalog
//   - RolesStore: roles and their permission sets
//   - AccountsStore: accounts and their role assignments
//   - HealthStore: database connectivity
//
// # Usage
//
//	roles := gormstore.NewRolesStore(db)
//	role, entries, err := roles.FetchRole(ctx, 7)
//	if errors.Is(err, store.ErrRoleNotFound) {
//	    // Handle not found
//	}
package store
