package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemflow/gemflow-backend/pkg/errors"
	"github.com/gemflow/gemflow-backend/pkg/testutil"
)

func TestAlertCreate_FillsDefaults(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	created := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	mockDB.ExpectQuery("INSERT INTO inventory_alerts").
		WithArgs(testutil.AnyUUID{}, "b1", "PB-0001", "8mm Pearls", "low_stock", 20, 30).
		WillReturnRows(testutil.MockRows("created_at").AddRow(created))

	repo := NewAlertRepository(mockDB.DB)
	alert := &InventoryAlert{
		BatchID:           "b1",
		BatchCode:         "PB-0001",
		BatchName:         "8mm Pearls",
		RemainingQuantity: 20,
		MinStockAlert:     30,
	}

	require.NoError(t, repo.Create(context.Background(), alert))

	assert.NotEmpty(t, alert.ID)
	assert.Equal(t, "low_stock", alert.AlertType)
	assert.Equal(t, created, alert.CreatedAt)

	mockDB.ExpectationsWereMet(t)
}

func TestAlertExistsActive(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("SELECT EXISTS").
		WithArgs("b1").
		WillReturnRows(testutil.MockRows("exists").AddRow(true))

	repo := NewAlertRepository(mockDB.DB)
	exists, err := repo.ExistsActive(context.Background(), "b1")
	require.NoError(t, err)
	assert.True(t, exists)

	mockDB.ExpectationsWereMet(t)
}

func TestAlertAcknowledge(t *testing.T) {
	t.Run("acknowledges active alert", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()

		mockDB.ExpectExec("UPDATE inventory_alerts SET acknowledged = true").
			WithArgs("a1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewAlertRepository(mockDB.DB)
		require.NoError(t, repo.Acknowledge(context.Background(), "a1"))
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("missing or resolved alert is not found", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()

		mockDB.ExpectExec("UPDATE inventory_alerts SET acknowledged = true").
			WithArgs("gone").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewAlertRepository(mockDB.DB)
		err := repo.Acknowledge(context.Background(), "gone")
		require.Error(t, err)

		var appErr *errors.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, 404, appErr.StatusCode)
		mockDB.ExpectationsWereMet(t)
	})
}

func TestAlertResolveForBatch(t *testing.T) {
	t.Run("reports resolution", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()

		mockDB.ExpectExec("UPDATE inventory_alerts SET resolved_at = NOW()").
			WithArgs("b1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		repo := NewAlertRepository(mockDB.DB)
		resolved, err := repo.ResolveForBatch(context.Background(), "b1")
		require.NoError(t, err)
		assert.True(t, resolved)
		mockDB.ExpectationsWereMet(t)
	})

	t.Run("nothing to resolve", func(t *testing.T) {
		mockDB := testutil.NewMockDB(t)
		defer mockDB.Close()

		mockDB.ExpectExec("UPDATE inventory_alerts SET resolved_at = NOW()").
			WithArgs("b2").
			WillReturnResult(sqlmock.NewResult(0, 0))

		repo := NewAlertRepository(mockDB.DB)
		resolved, err := repo.ResolveForBatch(context.Background(), "b2")
		require.NoError(t, err)
		assert.False(t, resolved)
		mockDB.ExpectationsWereMet(t)
	})
}
