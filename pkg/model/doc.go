// Package model defines the database models for tablegrant.
//
// # Models
//
//   - CatalogTable: a grantable table of the catalog (table_catalog)
//   - Role: a named permission set (roles)
//   - RolePermission: a role's capabilities on one table (role_permissions)
//   - Account: a console user (accounts)
//   - AccountRole: account to role assignment (account_roles)
//
// Passwords are stored as bcrypt hashes only; GenerateInitialPassword
// produces the one-time password handed out on account creation.
package model
