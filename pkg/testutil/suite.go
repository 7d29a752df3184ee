package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
	"github.com/gemflow/gemflow-backend/pkg/database"
	"github.com/gemflow/gemflow-backend/pkg/logger"
)

var (
	// Global test container (shared across all integration tests)
	globalContainer *PostgresContainer
	globalDB        *sqlx.DB
	containerOnce   sync.Once
	containerErr    error
)

// IntegrationSuite provides a base for integration tests with real PostgreSQL
type IntegrationSuite struct {
	Container *PostgresContainer
	RawDB     *sqlx.DB
	DB        *database.DB
	Fixtures  *FixtureFactory
	Logger    *logger.Logger
}

// NewIntegrationSuite creates a new integration test suite.
// Call this in TestMain to set up shared test infrastructure.
//
// Usage:
//
//	var suite *testutil.IntegrationSuite
//
//	func TestMain(m *testing.M) {
//	    ctx := context.Background()
//
//	    suite, err := testutil.NewIntegrationSuite(ctx)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer testutil.TerminateContainer(ctx)
//
//	    os.Exit(m.Run())
//	}
func NewIntegrationSuite(ctx context.Context) (*IntegrationSuite, error) {
	container, db, err := getOrCreateContainer(ctx)
	if err != nil {
		return nil, err
	}

	log := logger.New("test", "test")
	wrappedDB, err := database.NewWithDSN(container.DSN, log)
	if err != nil {
		return nil, err
	}

	if err := container.CreateInventorySchema(ctx, db); err != nil {
		return nil, err
	}

	return &IntegrationSuite{
		Container: container,
		RawDB:     db,
		DB:        wrappedDB,
		Fixtures:  NewFixtureFactory(),
		Logger:    log,
	}, nil
}

// getOrCreateContainer returns the shared test container
func getOrCreateContainer(ctx context.Context) (*PostgresContainer, *sqlx.DB, error) {
	containerOnce.Do(func() {
		globalContainer, containerErr = NewPostgresContainer(ctx, DefaultPostgresConfig())
		if containerErr != nil {
			return
		}
		globalDB, containerErr = globalContainer.Connect(ctx)
	})

	return globalContainer, globalDB, containerErr
}

// TerminateContainer terminates the shared container.
// Only call this in TestMain after all tests have completed.
func TerminateContainer(ctx context.Context) {
	if globalContainer != nil {
		globalContainer.Terminate(ctx)
	}
}

// InsertBatch writes a batch fixture into the ledger
func (s *IntegrationSuite) InsertBatch(t *testing.T, ctx context.Context, b *domain.Batch) {
	t.Helper()

	_, err := s.RawDB.ExecContext(ctx, `
		INSERT INTO purchase_batches (
			id, batch_code, name, category,
			bead_diameter, specification, quality,
			quantity, piece_count, total_beads,
			price_per_bead, price_per_gram, unit_price, total_price,
			supplier_id, photos, purchased_at, min_stock_alert
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		b.ID, b.Code, b.Name, b.Category,
		b.BeadDiameter, b.Specification, b.Quality,
		b.Quantity, b.PieceCount, b.TotalBeads,
		b.PricePerBead, b.PricePerGram, b.UnitPrice, b.TotalPrice,
		b.SupplierID, photosValue(b.Photos), b.PurchasedAt, b.MinStockAlert,
	)
	if err != nil {
		t.Fatalf("failed to insert batch fixture: %v", err)
	}

	t.Cleanup(func() {
		s.RawDB.ExecContext(ctx, `DELETE FROM usage_records WHERE batch_id = $1`, b.ID)
		s.RawDB.ExecContext(ctx, `DELETE FROM inventory_alerts WHERE batch_id = $1`, b.ID)
		s.RawDB.ExecContext(ctx, `DELETE FROM purchase_batches WHERE id = $1`, b.ID)
	})
}

// InsertUsage writes a usage record fixture
func (s *IntegrationSuite) InsertUsage(t *testing.T, ctx context.Context, u *domain.UsageRecord) {
	t.Helper()

	_, err := s.RawDB.ExecContext(ctx, `
		INSERT INTO usage_records (id, batch_id, quantity, product_id, used_at)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.BatchID, u.Quantity, u.ProductID, u.UsedAt,
	)
	if err != nil {
		t.Fatalf("failed to insert usage fixture: %v", err)
	}
}

// InsertSupplier writes a supplier row and returns its id
func (s *IntegrationSuite) InsertSupplier(t *testing.T, ctx context.Context, id, name string) {
	t.Helper()

	_, err := s.RawDB.ExecContext(ctx, `INSERT INTO suppliers (id, name) VALUES ($1, $2)`, id, name)
	if err != nil {
		t.Fatalf("failed to insert supplier fixture: %v", err)
	}

	t.Cleanup(func() {
		s.RawDB.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	})
}

// photosValue renders the JSON array string the purchase workflow writes.
func photosValue(photos []string) *string {
	if len(photos) == 0 {
		return nil
	}
	raw, _ := json.Marshal(photos)
	s := string(raw)
	return &s
}
