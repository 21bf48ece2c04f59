// Package audit records security-relevant console operations.
//
// Events are written as RFC5424 syslog lines and, when an audit database is
// configured, persisted to its messages table.
//
// # Event Types
//
//   - LoginEvent: login success or failure
//   - RoleEvent: role created or its permission set replaced
//   - AccountCreateEvent: account created with its roles
//
// # Usage
//
//	trail := audit.NewTrail()
//	trail.Store, _ = audit.NewStore(os.Getenv("AUDIT_DATABASE_URL"))
//	trail.Log(audit.LoginEvent{Email: email, ClientIP: ip, Success: true})
package audit
