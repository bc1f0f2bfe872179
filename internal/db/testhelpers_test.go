package db

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// testPool is the shared pool for repository tests; nil under -short.
var testPool *pgxpool.Pool

// TestMain starts a PostgreSQL container unless running with -short.
func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}
	os.Exit(runWithPostgres(m))
}

func runWithPostgres(m *testing.M) int {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("starting postgres container: %v", err)
	}
	defer func() {
		_ = container.Terminate(ctx)
	}()

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("getting container host: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		log.Fatalf("getting container port: %v", err)
	}
	dsn := fmt.Sprintf("postgres://test:test@%s:%s/testdb?sslmode=disable", host, port.Port())

	if err := RunMigrations(ctx, dsn); err != nil {
		log.Fatalf("running migrations: %v", err)
	}

	database, err := New(ctx, dsn)
	if err != nil {
		log.Fatalf("connecting to test db: %v", err)
	}
	defer database.Close()
	testPool = database.Pool()

	return m.Run()
}

// setupTestDB returns the shared pool with an empty journal.
func setupTestDB(tb testing.TB) *pgxpool.Pool {
	tb.Helper()
	if testPool == nil {
		tb.Skip("postgres tests disabled in -short mode")
	}
	if _, err := testPool.Exec(context.Background(), "TRUNCATE market_appearances"); err != nil {
		tb.Fatalf("truncating market_appearances: %v", err)
	}
	return testPool
}
