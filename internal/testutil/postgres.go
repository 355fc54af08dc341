// Package testutil provides test helpers for PostgreSQL-backed integration tests.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/cory-johannsen/mealmax/internal/config"
	"github.com/cory-johannsen/mealmax/internal/storage/postgres"
	"github.com/cory-johannsen/mealmax/migrations"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance.
type PostgresContainer struct {
	container testcontainers.Container
	Pool      *postgres.Pool
	RawPool   *pgxpool.Pool
	Config    config.DatabaseConfig
}

// startPostgres launches postgres:16-alpine and connects a pool to it.
func startPostgres(ctx context.Context) (*PostgresContainer, error) {
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("starting postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("getting container host: %w", err)
	}
	mappedPort, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("getting mapped port: %w", err)
	}

	dbCfg := config.DatabaseConfig{
		Driver:          config.DriverPostgres,
		Host:            host,
		Port:            mappedPort.Int(),
		User:            "test",
		Password:        "test",
		Name:            "test",
		SSLMode:         "disable",
		MaxConns:        5,
		MinConns:        1,
		MaxConnLifetime: 5 * time.Minute,
	}

	pool, err := postgres.NewPool(ctx, dbCfg)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, fmt.Errorf("connecting to test postgres: %w", err)
	}

	return &PostgresContainer{
		container: container,
		Pool:      pool,
		RawPool:   pool.DB(),
		Config:    dbCfg,
	}, nil
}

// NewPostgresContainer starts a dedicated PostgreSQL test container and
// returns a connected Pool. The container is terminated on test cleanup.
//
// Precondition: Docker must be available. Skipped under -short.
// Postcondition: Returns a running container with a connected pool,
// or fails the test.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	ctx := context.Background()
	start := time.Now()

	pc, err := startPostgres(ctx)
	if err != nil {
		t.Fatalf("%v [%s]", err, time.Since(start))
	}
	t.Logf("postgres container started [%s]", time.Since(start))

	t.Cleanup(func() {
		pc.Pool.Close()
		_ = pc.container.Terminate(ctx)
	})
	return pc
}

// ApplyMigrations runs the embedded schema migrations with golang-migrate.
//
// Precondition: Pool must be connected.
// Postcondition: The meals table exists in the test database.
func (pc *PostgresContainer) ApplyMigrations(t *testing.T) {
	t.Helper()
	start := time.Now()
	if err := migrateUp(pc.DSN()); err != nil {
		t.Fatalf("applying migrations: %v", err)
	}
	t.Logf("migrations applied [%s]", time.Since(start))
}

func migrateUp(dsn string) error {
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("opening embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, dsn)
	if err != nil {
		return fmt.Errorf("creating migrator: %w", err)
	}
	defer m.Close()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}

// DSN returns the connection string for the test database.
func (pc *PostgresContainer) DSN() string {
	return pc.Config.DSN()
}

var shared struct {
	once sync.Once
	pc   *PostgresContainer
	err  error
}

// NewPool returns a pool on a container shared by the whole test binary, with
// migrations applied and the meals table emptied.
//
// Precondition: Docker must be available. Skipped under -short.
// Postcondition: Returns a pool whose meals table has no rows and whose id
// sequence restarts at 1.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres container in short mode")
	}
	shared.once.Do(func() {
		pc, err := startPostgres(context.Background())
		if err != nil {
			shared.err = err
			return
		}
		if err := migrateUp(pc.DSN()); err != nil {
			shared.err = fmt.Errorf("applying migrations: %w", err)
			return
		}
		shared.pc = pc
	})
	if shared.err != nil {
		t.Fatalf("shared postgres: %v", shared.err)
	}

	if _, err := shared.pc.RawPool.Exec(context.Background(), `TRUNCATE meals RESTART IDENTITY`); err != nil {
		t.Fatalf("truncating meals: %v", err)
	}
	return shared.pc.RawPool
}
