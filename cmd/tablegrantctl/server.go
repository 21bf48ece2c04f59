package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/doodlesbykumbi/tablegrant/pkg/audit"
	"github.com/doodlesbykumbi/tablegrant/pkg/config"
	"github.com/doodlesbykumbi/tablegrant/pkg/db"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/endpoints"
	"github.com/doodlesbykumbi/tablegrant/pkg/server/middleware"
)

func defaultBindAddress() string {
	if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
		return addr
	}
	return "0.0.0.0"
}

func defaultPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8000"
}

func defaultPortInt() int {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			return p
		}
	}
	return 8000
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the tablegrant application server",
	Long: `Run the tablegrant application server.

The server requires the environment variables DATABASE_URL and
TABLEGRANT_TOKEN_KEY.

By default, database migrations are run on startup. Use --no-migrate to skip.

The configuration file is watched; page limits and the initial password
length apply to the next request after it changes. SIGHUP reloads it too.`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		noMigrate, _ := cmd.Flags().GetBool("no-migrate")

		if err := runServer(host, port, !noMigrate); err != nil {
			log.WithError(err).Error("server stopped")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)
	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}

func tokenKey() ([]byte, error) {
	key, ok := os.LookupEnv("TABLEGRANT_TOKEN_KEY")
	if !ok || key == "" {
		return nil, errors.New("TABLEGRANT_TOKEN_KEY environment variable is required")
	}
	return []byte(key), nil
}

func runServer(host, port string, migrate bool) error {
	// Fail fast on missing environment
	key, err := tokenKey()
	if err != nil {
		return err
	}
	if db.URL() == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	if err := config.Reload(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg := config.Get()

	if migrate {
		log.Info("Running database migrations...")
		if err := runMigrations(); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	database, err := db.Connect(db.Config{})
	if err != nil {
		return err
	}

	tokens, err := middleware.NewTokens(key, cfg.TokenLifetime())
	if err != nil {
		return err
	}

	s := server.NewServer(database, tokens, cfg, host, port)
	s.Logger = log

	if cfg.IsAuditEnabled() {
		auditURL := os.Getenv("AUDIT_DATABASE_URL")
		if auditURL == "" {
			auditURL = db.URL()
		}
		auditStore, err := audit.NewStore(auditURL)
		if err != nil {
			return fmt.Errorf("failed to open audit database: %w", err)
		}
		defer func() { _ = auditStore.Close() }()
		s.Audit.Store = auditStore
		s.LogsStore = auditStore
		s.Audit.OnError = func(err error) { log.WithError(err).Warn("audit event not saved") }
	}

	endpoints.RegisterAll(s)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Infof("Running server at http://%s:%s...", host, port)
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := config.Watch(ctx, func(c *config.TablegrantConfig) {
			s.SetConfig(c)
			log.WithField("path", c.ConfigFilePath()).Info("configuration reloaded")
		}, func(err error) {
			log.WithError(err).Warn("configuration not reloaded")
		})
		if err != nil {
			log.WithError(err).Warn("configuration file is not watched")
		}
		return nil
	})
	g.Go(func() error {
		hup := make(chan os.Signal, 1)
		signal.Notify(hup, syscall.SIGHUP)
		defer signal.Stop(hup)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-hup:
				if err := config.Reload(); err != nil {
					log.WithError(err).Warn("configuration not reloaded")
					continue
				}
				s.SetConfig(config.Get())
				log.Info("configuration reloaded on SIGHUP")
			}
		}
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Info("Shutting down...")
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
