package integration

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/doodlesbykumbi/tablegrant/db"
	tgdb "github.com/doodlesbykumbi/tablegrant/pkg/db"
	"github.com/doodlesbykumbi/tablegrant/pkg/server"
)

// TestContext holds all the resources needed for integration tests
type TestContext struct {
	DB          *gorm.DB
	RawDB       *sql.DB
	Container   testcontainers.Container
	DatabaseURL string
	Server      *server.Server
	HTTP        *httptest.Server
	ServerURL   string
}

// NewTestContext starts PostgreSQL in a container, migrates it and serves
// the API in-process
func NewTestContext(ctx context.Context) (*TestContext, error) {
	pgContainer, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("tablegrant_test"),
		tcpostgres.WithUsername("tablegrant"),
		tcpostgres.WithPassword("tablegrant"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	if err := migrateUp(connStr); err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	gdb, err := tgdb.Connect(tgdb.Config{URL: connStr})
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, err
	}
	rawDB, err := gdb.DB()
	if err != nil {
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to get raw db: %w", err)
	}

	s, ts, err := startInlineServer(gdb)
	if err != nil {
		_ = rawDB.Close()
		_ = pgContainer.Terminate(ctx)
		return nil, fmt.Errorf("failed to start inline server: %w", err)
	}
	log.Printf("Serving tablegrant at %s", ts.URL)

	return &TestContext{
		DB:          gdb,
		RawDB:       rawDB,
		Container:   pgContainer,
		DatabaseURL: connStr,
		Server:      s,
		HTTP:        ts,
		ServerURL:   ts.URL,
	}, nil
}

func migrateUp(connStr string) error {
	src, err := iofs.New(db.Migrations, "migrations")
	if err != nil {
		return err
	}
	sep := "?"
	if strings.Contains(connStr, "?") {
		sep = "&"
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, connStr+sep+"x-migrations-table=tablegrant_schema_migrations")
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return err
	}
	return nil
}

// Reset empties every table between scenarios
func (tc *TestContext) Reset() error {
	return tc.DB.Exec(`TRUNCATE account_roles, accounts, role_permissions, roles, table_catalog, messages RESTART IDENTITY CASCADE`).Error
}

// Close cleans up all test resources
func (tc *TestContext) Close(ctx context.Context) {
	if tc.HTTP != nil {
		tc.HTTP.Close()
	}
	if tc.RawDB != nil {
		_ = tc.RawDB.Close()
	}
	if tc.Container != nil {
		_ = tc.Container.Terminate(ctx)
	}
}
