// Package permission models the table-level access matrix of a role.
//
// A role grants a fixed set of capabilities (read, create, update, delete)
// on every table of the table catalog. The catalog is owned by the server;
// this package only holds one role's view of it while it is being edited.
//
// # Matrix
//
// A Matrix is an ordered list of entries addressed by position:
//
//	m := permission.DefaultMatrix(catalog)
//	_ = m.SetCapability(0, permission.CapabilityRead, true)
//	m.SetCapabilityForAll(permission.CapabilityDelete, false)
//
// # Merge
//
// Merge left-joins the catalog against a role's persisted entries. The
// result always holds exactly one entry per catalog table, in catalog
// order:
//
//	res := permission.Merge(catalog, detail.Permissions)
//	m := permission.NewMatrix(res.Entries)
//	for _, name := range res.Dropped {
//	    // persisted grant for a table that left the catalog
//	}
//
// # Columns
//
// Column state (none, partial, full) is derived from the entries on every
// call and drives the "select all" and indeterminate checkboxes.
package permission
