package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
	"github.com/gemflow/gemflow-backend/internal/inventory/repository"
	"github.com/gemflow/gemflow-backend/pkg/logger"
	"github.com/gemflow/gemflow-backend/pkg/messaging"
	"github.com/gemflow/gemflow-backend/pkg/testutil"
)

// fakeAlertStore keeps the active-alert set in memory.
type fakeAlertStore struct {
	active   map[string]bool
	created  []*repository.InventoryAlert
	resolved []string
}

func newFakeAlertStore() *fakeAlertStore {
	return &fakeAlertStore{active: make(map[string]bool)}
}

func (f *fakeAlertStore) Create(ctx context.Context, alert *repository.InventoryAlert) error {
	f.created = append(f.created, alert)
	f.active[alert.BatchID] = true
	return nil
}

func (f *fakeAlertStore) ExistsActive(ctx context.Context, batchID string) (bool, error) {
	return f.active[batchID], nil
}

func (f *fakeAlertStore) ResolveForBatch(ctx context.Context, batchID string) (bool, error) {
	if !f.active[batchID] {
		return false, nil
	}
	delete(f.active, batchID)
	f.resolved = append(f.resolved, batchID)
	return true, nil
}

func newTestScanner(t *testing.T, batches *fakeBatchStore, usage *fakeUsageStore) (*AlertScanner, *fakeAlertStore, *testutil.MockLowStockPublisher, *testutil.MockDB) {
	svc, mockDB := newTestService(t, batches, usage)
	alerts := newFakeAlertStore()
	publisher := testutil.NewMockLowStockPublisher()
	scanner := NewAlertScanner(svc, alerts, publisher, logger.New("test", "test"))
	return scanner, alerts, publisher, mockDB
}

func expectScan(mockDB *testutil.MockDB) {
	mockDB.ExpectSnapshot()
	mockDB.Mock.ExpectCommit()
}

func TestAlertScanner_RaisesOnce(t *testing.T) {
	batches := &fakeBatchStore{batches: []*domain.Batch{
		{
			ID:            "b1",
			Code:          "PB-0001",
			Name:          "8mm Freshwater Pearls",
			Category:      domain.CategoryLooseBeads,
			PieceCount:    intPtr(100),
			MinStockAlert: intPtr(30),
		},
	}}
	usage := &fakeUsageStore{totals: map[string]int{"b1": 80}}
	scanner, alerts, publisher, mockDB := newTestScanner(t, batches, usage)
	ctx := context.Background()

	expectScan(mockDB)
	require.NoError(t, scanner.Scan(ctx))

	require.Len(t, alerts.created, 1)
	alert := alerts.created[0]
	assert.Equal(t, "b1", alert.BatchID)
	assert.Equal(t, "low_stock", alert.AlertType)
	assert.Equal(t, 20, alert.RemainingQuantity)
	assert.Equal(t, 30, alert.MinStockAlert)

	require.Len(t, publisher.Detected, 1)
	assert.Equal(t, messaging.LowStockEvent{
		BatchID:           "b1",
		BatchCode:         "PB-0001",
		BatchName:         "8mm Freshwater Pearls",
		Category:          "LOOSE_BEADS",
		RemainingQuantity: 20,
		MinStockAlert:     30,
	}, publisher.Detected[0])

	// A second scan with unchanged stock must not duplicate the alert.
	expectScan(mockDB)
	require.NoError(t, scanner.Scan(ctx))

	assert.Len(t, alerts.created, 1)
	assert.Len(t, publisher.Detected, 1)
	mockDB.ExpectationsWereMet(t)
}

func TestAlertScanner_ResolvesOnRecovery(t *testing.T) {
	batches := &fakeBatchStore{batches: []*domain.Batch{
		{
			ID:            "b1",
			Code:          "PB-0001",
			Category:      domain.CategoryLooseBeads,
			PieceCount:    intPtr(100),
			MinStockAlert: intPtr(30),
		},
	}}
	usage := &fakeUsageStore{totals: map[string]int{"b1": 80}}
	scanner, alerts, publisher, mockDB := newTestScanner(t, batches, usage)
	ctx := context.Background()

	expectScan(mockDB)
	require.NoError(t, scanner.Scan(ctx))
	require.Len(t, alerts.created, 1)

	// Restock: a corrective usage adjustment brings the batch back up.
	usage.totals["b1"] = 10

	expectScan(mockDB)
	require.NoError(t, scanner.Scan(ctx))

	assert.Equal(t, []string{"b1"}, alerts.resolved)
	require.Len(t, publisher.Cleared, 1)
	assert.Equal(t, 90, publisher.Cleared[0].RemainingQuantity)
	mockDB.ExpectationsWereMet(t)
}

func TestAlertScanner_IgnoresBatchesWithoutThreshold(t *testing.T) {
	batches := &fakeBatchStore{batches: []*domain.Batch{
		{
			ID:         "b1",
			Category:   domain.CategoryLooseBeads,
			PieceCount: intPtr(10),
		},
	}}
	// Fully consumed, but no threshold configured.
	usage := &fakeUsageStore{totals: map[string]int{"b1": 10}}
	scanner, alerts, publisher, mockDB := newTestScanner(t, batches, usage)

	expectScan(mockDB)
	require.NoError(t, scanner.Scan(context.Background()))

	assert.Empty(t, alerts.created)
	assert.Empty(t, publisher.Detected)
	assert.Empty(t, publisher.Cleared)
	mockDB.ExpectationsWereMet(t)
}
