// Package console holds the view state behind the role and account
// screens: the role editor with its permission matrix, and the account
// list with its keyword, role and page filters.
//
// Controllers talk to the server only through the narrow gateway
// interfaces declared here; *client.Client satisfies all of them.
//
// # Role editor
//
// Open fetches the table catalog on every call, and for an existing role the
// role detail in parallel. The persisted permissions are merged into the
// catalog; permissions for tables that left the catalog are dropped and
// reported by Warnings. Close discards everything, including the results
// of a fetch that is still in flight.
//
// # Account list
//
// Each filter change issues exactly one fetch carrying all current filters.
// Keyword changes are debounced. Responses of superseded fetches are
// discarded, so the list always reflects the latest filters.
package console
