// Package testutil starts the shared PostgreSQL container used by the
// integration tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/natovichat/rent-management-app/api/internal/config"
	"github.com/natovichat/rent-management-app/api/internal/database"
)

const (
	postgresImage    = "postgres:16-alpine"
	postgresUser     = "postgres"
	postgresPassword = "postgres"
	postgresDB       = "rentals_test"
)

var (
	pgOnce      sync.Once
	pgContainer *PostgresContainer
	pgError     error
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	host      string
	port      string
}

// StartPostgres starts one PostgreSQL container per test process.
// Integration tests are skipped under -short.
func StartPostgres(t *testing.T) *PostgresContainer {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	pgOnce.Do(func() {
		ctx := context.Background()

		req := testcontainers.ContainerRequest{
			Image:        postgresImage,
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     postgresUser,
				"POSTGRES_PASSWORD": postgresPassword,
				"POSTGRES_DB":       postgresDB,
			},
			WaitingFor: wait.ForAll(
				wait.ForListeningPort("5432/tcp"),
				wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
			).WithDeadline(60 * time.Second),
		}

		container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if err != nil {
			pgError = fmt.Errorf("start PostgreSQL container: %w", err)
			return
		}

		host, err := container.Host(ctx)
		if err != nil {
			container.Terminate(ctx)
			pgError = fmt.Errorf("get PostgreSQL host: %w", err)
			return
		}

		mappedPort, err := container.MappedPort(ctx, "5432/tcp")
		if err != nil {
			container.Terminate(ctx)
			pgError = fmt.Errorf("get PostgreSQL port: %w", err)
			return
		}

		pgContainer = &PostgresContainer{
			container: container,
			host:      host,
			port:      mappedPort.Port(),
		}
	})

	if pgError != nil {
		t.Fatalf("PostgreSQL container failed: %v", pgError)
	}

	return pgContainer
}

// Config returns connection settings for the container.
func (c *PostgresContainer) Config() config.DatabaseConfig {
	return config.DatabaseConfig{
		Host:     c.host,
		Port:     c.port,
		Name:     postgresDB,
		User:     postgresUser,
		Password: postgresPassword,
		SSLMode:  "disable",
		PoolMin:  1,
		PoolMax:  5,
	}
}

// Cleanup terminates the container. Call from TestMain if needed.
func (c *PostgresContainer) Cleanup() {
	if c != nil && c.container != nil {
		c.container.Terminate(context.Background())
	}
}

// NewDatabase connects to the shared container, applies the schema and
// closes the pool when the test finishes.
func NewDatabase(t *testing.T) *database.Database {
	t.Helper()

	pg := StartPostgres(t)
	ctx := context.Background()

	db, err := database.NewPostgresPool(ctx, pg.Config())
	if err != nil {
		t.Fatalf("Failed to create database connection: %v", err)
	}
	t.Cleanup(db.Close)

	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}
