// Package server provides the HTTP server for the tablegrant API.
//
// The server owns the gorilla/mux router, the stores the endpoints use, the
// token issuer and the audit trail. Handlers are registered by the endpoints
// subpackage.
//
// # Server Setup
//
//	tokens, _ := middleware.NewTokens(key, cfg.TokenLifetime())
//	srv := server.NewServer(db, tokens, cfg, "0.0.0.0", "8000")
//	endpoints.RegisterAll(srv)
//	log.Fatal(srv.Start())
//
// # Components
//
// The Server struct holds:
//
//   - Router: HTTP request router
//   - DB: Database connection
//   - TablesStore, RolesStore, AccountsStore, HealthStore: storage
//   - Tokens, JWTMiddleware: login token issuing and verification
//   - Metrics, Registry: Prometheus request metrics
//   - Audit: RFC5424 audit trail
//
// # Endpoints
//
//   - /account/login/ - Exchange email and password for a token
//   - /account/table-list/ - Table catalog
//   - /account/role-detail/{id}/ - Role with its permission set
//   - /account/role-stats/ - Role member counts, role create and update
//   - /account/roles/ - Role list
//   - /account/accounts/ - Paginated account list
//   - /account/create/ - Account creation
//   - /status - Health check
//   - /metrics - Prometheus metrics
package server
