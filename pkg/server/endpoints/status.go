package endpoints

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
)

// StatusResponse is the data of GET /status
type StatusResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the health check (no auth required)
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/status", handleStatus(s.HealthStore, s.Logger)).Methods("GET")
}

// RegisterMetricsEndpoint serves the Prometheus registry when metrics are
// enabled (no auth required)
func RegisterMetricsEndpoint(s *server.Server) {
	if !s.Config().IsMetricsEnabled() {
		return
	}
	s.Router.Handle("/metrics", promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})).Methods("GET")
}

func handleStatus(health store.HealthStore, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := health.CheckConnectivity(r.Context()); err != nil {
			logger.WithError(err).Warn("database health check failed")
			respond(w, http.StatusServiceUnavailable, "Database unavailable", StatusResponse{Status: "degraded", Database: "unreachable"})
			return
		}
		respondSuccess(w, StatusResponse{Status: "ok", Database: "ok"})
	}
}
