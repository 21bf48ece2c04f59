package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/doodlesbykumbi/tablegrant/pkg/api"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterLoginEndpoint(srv)
	RegisterTablesEndpoints(srv)
	RegisterRolesEndpoints(srv)
	RegisterAccountsEndpoints(srv)
	RegisterProfileEndpoints(srv)
	RegisterLogsEndpoint(srv)
	RegisterStatusEndpoints(srv)
	RegisterMetricsEndpoint(srv)

	srv.Router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, api.CodeNotFound, "Not found")
	})
	srv.Router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})
}

// protectedRouter returns a subrouter under basePath that requires a
// bearer token
func protectedRouter(s *server.Server) *mux.Router {
	r := s.Router.PathPrefix(basePath).Subrouter()
	r.Use(s.JWTMiddleware.Middleware)
	return r
}
