// Package config provides configuration management for tablegrant.
//
// Settings are layered: built-in defaults, then the YAML file at
// $TABLEGRANT_CONFIG_PATH/tablegrant.yml, then TABLEGRANT_* environment
// variables. Every attribute remembers which layer set it.
//
// # Attributes
//
//   - token_ttl: login token lifetime in seconds
//   - default_page_size, max_page_size: account list paging
//   - initial_password_length: generated account passwords
//   - cors_allowed_origins: browser origins allowed to call the API
//   - audit_enabled: persist audit events to AUDIT_DATABASE_URL
//   - metrics_enabled: serve /metrics
//
// # Environment Variables
//
// Connection settings and secrets are read from the environment only:
//
//   - DATABASE_URL: Database connection
//   - AUDIT_DATABASE_URL: Audit database connection
//   - TABLEGRANT_TOKEN_KEY: Token signing key
//   - TABLEGRANT_LOG_LEVEL: Logging verbosity
//   - BIND_ADDRESS, PORT: Server listen address
package config
