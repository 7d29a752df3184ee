package repository

import (
	"context"
	"time"

	"github.com/gemflow/gemflow-backend/pkg/database"
	"github.com/gemflow/gemflow-backend/pkg/errors"
	"github.com/google/uuid"
)

// InventoryAlert is one low-stock alert row maintained by the scanner.
// An alert stays active until the batch recovers or a user acknowledges it.
type InventoryAlert struct {
	ID                string     `db:"id" json:"id"`
	BatchID           string     `db:"batch_id" json:"batch_id"`
	BatchCode         string     `db:"batch_code" json:"batch_code"`
	BatchName         string     `db:"batch_name" json:"batch_name"`
	AlertType         string     `db:"alert_type" json:"alert_type"`
	RemainingQuantity int        `db:"remaining_quantity" json:"remaining_quantity"`
	MinStockAlert     int        `db:"min_stock_alert" json:"min_stock_alert"`
	Acknowledged      bool       `db:"acknowledged" json:"acknowledged"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	ResolvedAt        *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
}

// AlertRepository handles low-stock alert persistence
type AlertRepository struct {
	db *database.DB
}

// NewAlertRepository creates a new alert repository
func NewAlertRepository(db *database.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// Create creates a new alert
func (r *AlertRepository) Create(ctx context.Context, alert *InventoryAlert) error {
	if alert.ID == "" {
		alert.ID = uuid.New().String()
	}
	if alert.AlertType == "" {
		alert.AlertType = "low_stock"
	}

	query := `
		INSERT INTO inventory_alerts (
			id, batch_id, batch_code, batch_name, alert_type,
			remaining_quantity, min_stock_alert, acknowledged
		) VALUES ($1, $2, $3, $4, $5, $6, $7, false)
		RETURNING created_at
	`

	err := r.db.QueryRowxContext(ctx, query,
		alert.ID, alert.BatchID, alert.BatchCode, alert.BatchName,
		alert.AlertType, alert.RemainingQuantity, alert.MinStockAlert,
	).Scan(&alert.CreatedAt)
	if err != nil {
		if appErr := database.MapPQError(err); appErr != nil {
			return appErr
		}
		return err
	}
	return nil
}

// ListActive lists unresolved alerts, newest first
func (r *AlertRepository) ListActive(ctx context.Context) ([]*InventoryAlert, error) {
	var alerts []*InventoryAlert
	query := `
		SELECT * FROM inventory_alerts
		WHERE resolved_at IS NULL
		ORDER BY created_at DESC
	`
	if err := r.db.SelectContext(ctx, &alerts, query); err != nil {
		return nil, err
	}
	return alerts, nil
}

// ExistsActive reports whether the batch already has an unresolved alert.
// Used by the scanner to avoid duplicate alerts across scan cycles.
func (r *AlertRepository) ExistsActive(ctx context.Context, batchID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM inventory_alerts
			WHERE batch_id = $1 AND resolved_at IS NULL
		)
	`
	if err := r.db.GetContext(ctx, &exists, query, batchID); err != nil {
		return false, err
	}
	return exists, nil
}

// Acknowledge marks an alert as acknowledged
func (r *AlertRepository) Acknowledge(ctx context.Context, id string) error {
	query := `UPDATE inventory_alerts SET acknowledged = true WHERE id = $1 AND resolved_at IS NULL`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return errors.NotFound("alert")
	}
	return nil
}

// ResolveForBatch resolves any active alert for the batch, returning true
// when a row was actually resolved.
func (r *AlertRepository) ResolveForBatch(ctx context.Context, batchID string) (bool, error) {
	query := `
		UPDATE inventory_alerts SET resolved_at = NOW()
		WHERE batch_id = $1 AND resolved_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, batchID)
	if err != nil {
		return false, err
	}

	affected, _ := result.RowsAffected()
	return affected > 0, nil
}
