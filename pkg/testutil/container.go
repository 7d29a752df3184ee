// Package testutil provides testing utilities for GemFlow backend services.
// It includes testcontainers for PostgreSQL, mock factories, and common
// test fixtures.
package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// PostgresContainer wraps a testcontainers PostgreSQL instance
type PostgresContainer struct {
	*postgres.PostgresContainer
	DSN string
}

// PostgresContainerConfig configures the test PostgreSQL container
type PostgresContainerConfig struct {
	Database string
	Username string
	Password string
	Image    string // Optional: defaults to postgres:15-alpine
}

// DefaultPostgresConfig returns sensible defaults for test containers
func DefaultPostgresConfig() PostgresContainerConfig {
	return PostgresContainerConfig{
		Database: "gemflow_test",
		Username: "test",
		Password: "test",
		Image:    "postgres:15-alpine",
	}
}

// NewPostgresContainer creates a new PostgreSQL test container.
//
// Usage:
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//	    container, err := testutil.NewPostgresContainer(ctx, testutil.DefaultPostgresConfig())
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer container.Terminate(ctx)
//
//	    code := m.Run()
//	    os.Exit(code)
//	}
func NewPostgresContainer(ctx context.Context, cfg PostgresContainerConfig) (*PostgresContainer, error) {
	if cfg.Image == "" {
		cfg.Image = "postgres:15-alpine"
	}
	if cfg.Database == "" {
		cfg.Database = "gemflow_test"
	}
	if cfg.Username == "" {
		cfg.Username = "test"
	}
	if cfg.Password == "" {
		cfg.Password = "test"
	}

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage(cfg.Image),
		postgres.WithDatabase(cfg.Database),
		postgres.WithUsername(cfg.Username),
		postgres.WithPassword(cfg.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		container.Terminate(ctx)
		return nil, fmt.Errorf("failed to get connection string: %w", err)
	}

	return &PostgresContainer{
		PostgresContainer: container,
		DSN:               dsn,
	}, nil
}

// Connect returns a sqlx.DB connection to the container
func (c *PostgresContainer) Connect(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", c.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}
	return db, nil
}

// Terminate stops and removes the container
func (c *PostgresContainer) Terminate(ctx context.Context) error {
	return c.PostgresContainer.Terminate(ctx)
}

// CreateInventorySchema creates the purchase ledger tables used by the
// inventory service.
func (c *PostgresContainer) CreateInventorySchema(ctx context.Context, db *sqlx.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS suppliers (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			name VARCHAR(255) NOT NULL,
			contact VARCHAR(255),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS purchase_batches (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			batch_code VARCHAR(100) NOT NULL,
			name VARCHAR(255) NOT NULL,
			category VARCHAR(50) NOT NULL,
			bead_diameter NUMERIC(6,2),
			specification NUMERIC(8,2),
			quality VARCHAR(20),
			quantity INTEGER,
			piece_count INTEGER,
			total_beads INTEGER,
			price_per_bead NUMERIC(12,2),
			price_per_gram NUMERIC(12,2),
			unit_price NUMERIC(12,2),
			total_price NUMERIC(12,2),
			supplier_id UUID REFERENCES suppliers(id),
			photos TEXT,
			purchased_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			min_stock_alert INTEGER,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT purchase_batches_batch_code_key UNIQUE (batch_code),
			CONSTRAINT category_valid CHECK (category IN ('LOOSE_BEADS', 'BRACELET', 'ACCESSORY', 'FINISHED')),
			CONSTRAINT quality_valid CHECK (quality IS NULL OR quality IN ('AA', 'A', 'AB', 'B', 'C'))
		);

		CREATE TABLE IF NOT EXISTS usage_records (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			batch_id UUID NOT NULL REFERENCES purchase_batches(id),
			quantity INTEGER NOT NULL,
			product_id UUID,
			used_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT quantity_non_negative CHECK (quantity >= 0)
		);

		CREATE TABLE IF NOT EXISTS inventory_alerts (
			id UUID PRIMARY KEY,
			batch_id UUID NOT NULL,
			batch_code VARCHAR(100) NOT NULL,
			batch_name VARCHAR(255) NOT NULL,
			alert_type VARCHAR(50) NOT NULL DEFAULT 'low_stock',
			remaining_quantity INTEGER NOT NULL,
			min_stock_alert INTEGER NOT NULL,
			acknowledged BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			resolved_at TIMESTAMPTZ
		);

		CREATE INDEX IF NOT EXISTS idx_usage_records_batch ON usage_records(batch_id);
		CREATE INDEX IF NOT EXISTS idx_alerts_batch_active ON inventory_alerts(batch_id) WHERE resolved_at IS NULL;
	`

	_, err := db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create inventory schema: %w", err)
	}

	return nil
}
