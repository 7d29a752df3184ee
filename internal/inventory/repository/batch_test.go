package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
	"github.com/gemflow/gemflow-backend/pkg/errors"
	"github.com/gemflow/gemflow-backend/pkg/testutil"
)

func floatPtr(v float64) *float64 { return &v }

func TestBuildCriteria(t *testing.T) {
	t.Run("no criteria yields no where clause", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{})

		assert.Equal(t, "", p.where())
		assert.Empty(t, p.args)
	})

	t.Run("search binds a wrapped pattern", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{Search: "pearl"})

		assert.Equal(t, " WHERE b.name ILIKE $1", p.where())
		assert.Equal(t, []interface{}{"%pearl%"}, p.args)
	})

	t.Run("category membership", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{
			Categories: []domain.Category{domain.CategoryLooseBeads, domain.CategoryBracelet},
		})

		assert.Equal(t, " WHERE b.category IN ($1, $2)", p.where())
		assert.Equal(t, []interface{}{"LOOSE_BEADS", "BRACELET"}, p.args)
	})

	t.Run("empty category set matches nothing", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{Categories: []domain.Category{}})

		assert.Equal(t, " WHERE FALSE", p.where())
		assert.Empty(t, p.args)
	})

	t.Run("quality with unknown sentinel selects ungraded rows", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{Qualities: []string{"A", domain.QualityUnknown}})

		assert.Equal(t, " WHERE (b.quality IN ($1) OR (b.quality IS NULL OR b.quality = ''))", p.where())
		assert.Equal(t, []interface{}{"A"}, p.args)
	})

	t.Run("unknown alone matches null and empty grades", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{Qualities: []string{domain.QualityUnknown}})

		assert.Equal(t, " WHERE ((b.quality IS NULL OR b.quality = ''))", p.where())
		assert.Empty(t, p.args)
	})

	t.Run("range bounds pass rows without the dimension", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{
			DiameterMin: floatPtr(6),
			DiameterMax: floatPtr(10),
		})

		assert.Equal(t,
			" WHERE (b.bead_diameter IS NULL OR b.bead_diameter >= $1) AND (b.bead_diameter IS NULL OR b.bead_diameter <= $2)",
			p.where())
		assert.Equal(t, []interface{}{6.0, 10.0}, p.args)
	})

	t.Run("specification bounds", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{SpecificationMin: floatPtr(12)})

		assert.Equal(t, " WHERE (b.specification IS NULL OR b.specification >= $1)", p.where())
	})

	t.Run("predicates compose with AND in fixed order", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{
			Search:      "jade",
			Categories:  []domain.Category{domain.CategoryAccessory},
			DiameterMin: floatPtr(4),
		})

		assert.Equal(t,
			" WHERE b.name ILIKE $1 AND b.category IN ($2) AND (b.bead_diameter IS NULL OR b.bead_diameter >= $3)",
			p.where())
		assert.Equal(t, []interface{}{"%jade%", "ACCESSORY", 4.0}, p.args)
	})

	t.Run("low stock only adds no store predicate", func(t *testing.T) {
		p := &predicate{}
		buildCriteria(p, domain.Criteria{LowStockOnly: true})

		assert.Equal(t, "", p.where())
	})
}

var batchTestColumns = []string{
	"id", "batch_code", "name", "category",
	"bead_diameter", "specification", "quality",
	"quantity", "piece_count", "total_beads",
	"price_per_bead", "price_per_gram", "unit_price", "total_price",
	"supplier_id", "supplier_name",
	"photos", "purchased_at", "min_stock_alert",
}

func TestListFiltered_ScansAndNormalizesPhotos(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	purchased := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	rows := testutil.MockRows(batchTestColumns...).
		AddRow("b1", "PB-0001", "8mm Pearls", "LOOSE_BEADS",
			8.0, nil, "A",
			nil, 100, nil,
			10.0, nil, nil, nil,
			"s1", "Guangzhou Pearl Trading",
			`["https://cdn.gemflow.io/a.jpg","https://cdn.gemflow.io/b.jpg"]`, purchased, 20).
		AddRow("b2", "PB-0002", "Old Stock", "LOOSE_BEADS",
			6.0, nil, nil,
			nil, 50, nil,
			nil, nil, nil, nil,
			nil, nil,
			"https://cdn.gemflow.io/legacy.jpg", purchased, nil).
		AddRow("b3", "PB-0003", "No Photos", "LOOSE_BEADS",
			6.0, nil, nil,
			nil, 10, nil,
			nil, nil, nil, nil,
			nil, nil,
			nil, purchased, nil)

	mockDB.ExpectQuery("FROM purchase_batches b").
		WithArgs("%pearl%").
		WillReturnRows(rows)

	repo := NewBatchRepository(mockDB.DB)
	batches, err := repo.ListFiltered(context.Background(), mockDB.DB.DB, domain.Criteria{Search: "pearl"})
	require.NoError(t, err)
	require.Len(t, batches, 3)

	assert.Equal(t, []string{"https://cdn.gemflow.io/a.jpg", "https://cdn.gemflow.io/b.jpg"}, batches[0].Photos)
	require.NotNil(t, batches[0].SupplierName)
	assert.Equal(t, "Guangzhou Pearl Trading", *batches[0].SupplierName)

	// Bare URL rows normalize to a single-element list.
	assert.Equal(t, []string{"https://cdn.gemflow.io/legacy.jpg"}, batches[1].Photos)
	assert.Nil(t, batches[1].Quality)

	// Null photos normalize to an empty, non-nil list.
	assert.Equal(t, []string{}, batches[2].Photos)

	mockDB.ExpectationsWereMet(t)
}

func TestGetByID_NotFound(t *testing.T) {
	mockDB := testutil.NewMockDB(t)
	defer mockDB.Close()

	mockDB.ExpectQuery("FROM purchase_batches b").
		WithArgs("missing").
		WillReturnRows(testutil.MockRows(batchTestColumns...))

	repo := NewBatchRepository(mockDB.DB)
	_, err := repo.GetByID(context.Background(), mockDB.DB.DB, "missing")
	require.Error(t, err)

	var appErr *errors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, 404, appErr.StatusCode)

	mockDB.ExpectationsWereMet(t)
}
