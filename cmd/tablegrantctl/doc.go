// Command tablegrantctl runs and administers the tablegrant server.
//
// tablegrant keeps a catalog of database tables and lets operators define
// roles that hold read, create, update and delete capabilities on each of
// them, and console accounts that hold roles.
//
// # Quick Start
//
//	# Create the schema
//	tablegrantctl db migrate
//
//	# Register the tables roles can be granted on
//	tablegrantctl tables add orders --comment "Customer orders"
//
//	# Bootstrap the first console account
//	tablegrantctl account create --name Admin --email admin@example.com
//
//	# Start the server
//	tablegrantctl server
//
//	# Log in and manage roles through the API
//	export TABLEGRANT_TOKEN=$(tablegrantctl login --email admin@example.com)
//	tablegrantctl role create Auditor --grant orders=read
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - AUDIT_DATABASE_URL: database the audit trail is saved to (default DATABASE_URL)
//   - TABLEGRANT_TOKEN_KEY: HMAC key for login tokens, at least 32 bytes
//   - TABLEGRANT_CONFIG_PATH: directory holding tablegrant.yml
//   - TABLEGRANT_LOG_LEVEL: Log level (debug, info, warn, error)
//   - TABLEGRANT_URL: server URL used by console commands
//   - TABLEGRANT_TOKEN: bearer token used by console commands
//   - BIND_ADDRESS, PORT: server listen address (default 0.0.0.0:8000)
package main
