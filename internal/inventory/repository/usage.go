package repository

import (
	"context"
	"database/sql"

	"github.com/gemflow/gemflow-backend/pkg/database"
	"github.com/jmoiron/sqlx"
)

// UsageRepository reads the consumption ledger. Usage rows are written by
// the finished-goods assembly workflow; this service only ever aggregates
// them.
type UsageRepository struct {
	db *database.DB
}

// NewUsageRepository creates a new usage repository
func NewUsageRepository(db *database.DB) *UsageRepository {
	return &UsageRepository{db: db}
}

// TotalsByBatch returns the summed consumed quantity per batch id. Batches
// with no usage rows are absent from the map; callers treat that as zero.
func (r *UsageRepository) TotalsByBatch(ctx context.Context, q sqlx.ExtContext) (map[string]int, error) {
	type row struct {
		BatchID string `db:"batch_id"`
		Total   int    `db:"total"`
	}

	query := `
		SELECT batch_id, COALESCE(SUM(quantity), 0) AS total
		FROM usage_records
		GROUP BY batch_id
	`

	var rows []row
	if err := sqlx.SelectContext(ctx, q, &rows, query); err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, r := range rows {
		totals[r.BatchID] = r.Total
	}
	return totals, nil
}

// TotalForBatch returns the summed consumed quantity for one batch, zero if
// it has no usage rows.
func (r *UsageRepository) TotalForBatch(ctx context.Context, q sqlx.ExtContext, batchID string) (int, error) {
	var total sql.NullInt64
	query := `SELECT SUM(quantity) FROM usage_records WHERE batch_id = $1`
	if err := sqlx.GetContext(ctx, q, &total, query, batchID); err != nil {
		return 0, err
	}
	if !total.Valid {
		return 0, nil
	}
	return int(total.Int64), nil
}
