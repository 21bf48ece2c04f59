package server

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tablegrant/pkg/audit"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/middleware"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/store"
	gormstore "github.com/doodlesbykumbi/tablegrant/pkg/server/store/gorm"
)

type Server struct {
	Router *mux.Router
	DB     *gorm.DB

	TablesStore   store.TablesStore
	RolesStore    store.RolesStore
	AccountsStore store.AccountsStore
	HealthStore   store.HealthStore
	// LogsStore reads back persisted audit records. Nil when audit
	// persistence is disabled.
	LogsStore store.LogsStore

	Tokens        *middleware.Tokens
	JWTMiddleware *middleware.JWTAuthenticator
	Metrics       *middleware.Metrics
	Registry      *prometheus.Registry

	Audit  *audit.Trail
	Logger *logrus.Logger

	configMu sync.RWMutex
	cfg      *config.TablegrantConfig

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	tokens *middleware.Tokens,
	cfg *config.TablegrantConfig,
	host string,
	port string,
) *Server {
	router := mux.NewRouter().UseEncodedPath()
	registry := prometheus.NewRegistry()

	s := &Server{
		Router:        router,
		DB:            db,
		TablesStore:   gormstore.NewTablesStore(db),
		RolesStore:    gormstore.NewRolesStore(db),
		AccountsStore: gormstore.NewAccountsStore(db),
		HealthStore:   gormstore.NewHealthStore(db),
		Tokens:        tokens,
		JWTMiddleware: middleware.NewJWTAuthenticator(tokens),
		Metrics:       middleware.NewMetrics(registry),
		Registry:      registry,
		Audit:         audit.NewTrail(),
		Logger:        logrus.StandardLogger(),
		cfg:           cfg,
	}
	if cfg.IsMetricsEnabled() {
		router.Use(s.Metrics.Middleware)
	}

	s.srv = &http.Server{
		Handler:      s.Handler(),
		Addr:         host + ":" + port,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
	return s
}

// Handler returns the router wrapped with access logging and, when origins
// are configured, CORS
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.Router
	if origins := s.Config().CORSAllowedOrigins; len(origins) > 0 {
		h = handlers.CORS(
			handlers.AllowedOrigins(origins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(h)
	}
	return handlers.LoggingHandler(os.Stdout, h)
}

// Config returns the configuration currently in effect
func (s *Server) Config() *config.TablegrantConfig {
	s.configMu.RLock()
	defer s.configMu.RUnlock()
	return s.cfg
}

// SetConfig replaces the configuration. Page limits and password length
// apply from the next request; token lifetime, CORS and metrics are fixed at
// startup.
func (s *Server) SetConfig(cfg *config.TablegrantConfig) {
	s.configMu.Lock()
	s.cfg = cfg
	s.configMu.Unlock()
}

func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
