package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
	"github.com/gemflow/gemflow-backend/pkg/database"
	"github.com/gemflow/gemflow-backend/pkg/errors"
	"github.com/jmoiron/sqlx"
)

// batchColumns is the select list shared by all batch queries. Supplier
// display name comes from the join; photos come back raw and are normalized
// on scan.
const batchColumns = `
	b.id, b.batch_code, b.name, b.category,
	b.bead_diameter, b.specification, b.quality,
	b.quantity, b.piece_count, b.total_beads,
	b.price_per_bead, b.price_per_gram, b.unit_price, b.total_price,
	b.supplier_id, s.name AS supplier_name,
	b.photos, b.purchased_at, b.min_stock_alert
`

// batchRow carries the raw photo value alongside the domain batch.
type batchRow struct {
	domain.Batch
	PhotosRaw sql.NullString `db:"photos"`
}

func (r batchRow) toBatch() *domain.Batch {
	b := r.Batch
	var raw any
	if r.PhotosRaw.Valid {
		raw = r.PhotosRaw.String
	}
	b.Photos = domain.NormalizePhotoList(raw)
	return &b
}

// BatchRepository reads the purchase batch ledger
type BatchRepository struct {
	db *database.DB
}

// NewBatchRepository creates a new batch repository
func NewBatchRepository(db *database.DB) *BatchRepository {
	return &BatchRepository{db: db}
}

// predicate accumulates parameterized WHERE conditions. Values only ever
// travel through the args slice.
type predicate struct {
	conds []string
	args  []interface{}
}

func (p *predicate) bind(v interface{}) string {
	p.args = append(p.args, v)
	return fmt.Sprintf("$%d", len(p.args))
}

func (p *predicate) add(cond string) {
	p.conds = append(p.conds, cond)
}

func (p *predicate) where() string {
	if len(p.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.conds, " AND ")
}

// buildCriteria translates filter criteria into parameterized conditions.
func buildCriteria(p *predicate, c domain.Criteria) {
	if c.Search != "" {
		p.add("b.name ILIKE " + p.bind("%"+c.Search+"%"))
	}

	if c.Categories != nil {
		if len(c.Categories) == 0 {
			// An explicitly empty category set matches nothing. Callers
			// normally short-circuit before reaching the store; this keeps
			// the translation faithful either way.
			p.add("FALSE")
		} else {
			marks := make([]string, len(c.Categories))
			for i, cat := range c.Categories {
				marks[i] = p.bind(string(cat))
			}
			p.add("b.category IN (" + strings.Join(marks, ", ") + ")")
		}
	}

	if len(c.Qualities) > 0 {
		var parts []string
		var known []string
		includeUnknown := false
		for _, q := range c.Qualities {
			if q == domain.QualityUnknown {
				includeUnknown = true
			} else {
				known = append(known, q)
			}
		}
		if len(known) > 0 {
			marks := make([]string, len(known))
			for i, q := range known {
				marks[i] = p.bind(q)
			}
			parts = append(parts, "b.quality IN ("+strings.Join(marks, ", ")+")")
		}
		if includeUnknown {
			// Ungraded means NULL or empty, matching Batch.QualityOrUnknown.
			parts = append(parts, "(b.quality IS NULL OR b.quality = '')")
		}
		p.add("(" + strings.Join(parts, " OR ") + ")")
	}

	// Range bounds only exclude batches that have the dimension recorded.
	if c.DiameterMin != nil {
		p.add("(b.bead_diameter IS NULL OR b.bead_diameter >= " + p.bind(*c.DiameterMin) + ")")
	}
	if c.DiameterMax != nil {
		p.add("(b.bead_diameter IS NULL OR b.bead_diameter <= " + p.bind(*c.DiameterMax) + ")")
	}
	if c.SpecificationMin != nil {
		p.add("(b.specification IS NULL OR b.specification >= " + p.bind(*c.SpecificationMin) + ")")
	}
	if c.SpecificationMax != nil {
		p.add("(b.specification IS NULL OR b.specification <= " + p.bind(*c.SpecificationMax) + ")")
	}
}

// ListFiltered returns the batches matching the criteria's store-level
// predicates, ordered by purchase time then id so aggregation output is
// stable across identical snapshots.
//
// The queryer is passed in so callers can run this inside a snapshot
// transaction together with the usage sums.
func (r *BatchRepository) ListFiltered(ctx context.Context, q sqlx.ExtContext, c domain.Criteria) ([]*domain.Batch, error) {
	p := &predicate{}
	buildCriteria(p, c)

	query := `SELECT ` + batchColumns + `
		FROM purchase_batches b
		LEFT JOIN suppliers s ON s.id = b.supplier_id` +
		p.where() + `
		ORDER BY b.purchased_at, b.id`

	var rows []batchRow
	if err := sqlx.SelectContext(ctx, q, &rows, query, p.args...); err != nil {
		return nil, err
	}

	batches := make([]*domain.Batch, len(rows))
	for i, row := range rows {
		batches[i] = row.toBatch()
	}
	return batches, nil
}

// GetByID gets a single batch with its supplier name
func (r *BatchRepository) GetByID(ctx context.Context, q sqlx.ExtContext, id string) (*domain.Batch, error) {
	query := `SELECT ` + batchColumns + `
		FROM purchase_batches b
		LEFT JOIN suppliers s ON s.id = b.supplier_id
		WHERE b.id = $1`

	var row batchRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("batch")
		}
		return nil, err
	}
	return row.toBatch(), nil
}
