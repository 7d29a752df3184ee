package service

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func looseBeadsStock(id string, diameter float64, quality string, pieces int, pricePerBead float64, used int) domain.BatchStock {
	b := &domain.Batch{
		ID:           id,
		Code:         "PB-" + id,
		Name:         "Beads " + id,
		Category:     domain.CategoryLooseBeads,
		BeadDiameter: &diameter,
		Quality:      &quality,
		PieceCount:   &pieces,
		PricePerBead: &pricePerBead,
		Photos:       []string{},
		PurchasedAt:  time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	return domain.ComputeStock(b, used)
}

func TestBuildHierarchy_WeightedAverage(t *testing.T) {
	// Two batches in the same leaf: 100 pieces at 10.00 and 50 pieces at
	// 16.00. The average weighs by original quantity, so usage on the first
	// batch must not shift it.
	stocks := []domain.BatchStock{
		looseBeadsStock("b1", 8, "A", 100, 10.00, 40),
		looseBeadsStock("b2", 8, "A", 50, 16.00, 0),
	}

	nodes := buildHierarchy(stocks)
	require.Len(t, nodes, 1)

	cat := nodes[0]
	assert.Equal(t, domain.CategoryLooseBeads, cat.Category)
	assert.Equal(t, 110, cat.TotalQuantity) // 60 + 50 remaining
	assert.Equal(t, 1, cat.TotalVariants)

	require.Len(t, cat.Specifications, 1)
	spec := cat.Specifications[0]
	assert.Equal(t, 8.0, spec.SpecificationValue)
	assert.Equal(t, "mm", spec.SpecificationUnit)

	require.Len(t, spec.Qualities, 1)
	leaf := spec.Qualities[0]
	assert.Equal(t, "A", leaf.Quality)
	assert.Equal(t, 110, leaf.RemainingQuantity)
	assert.Equal(t, 2, leaf.BatchCount)
	require.NotNil(t, leaf.PricePerUnit)
	assert.Equal(t, 12.00, *leaf.PricePerUnit) // (100*10 + 50*16) / 150
	assert.Nil(t, leaf.PricePerGram)
}

func TestBuildHierarchy_PriceAverageSkipsUnpriced(t *testing.T) {
	unpriced := domain.ComputeStock(&domain.Batch{
		ID:           "b3",
		Category:     domain.CategoryLooseBeads,
		BeadDiameter: floatPtr(8),
		Quality:      strPtr("A"),
		PieceCount:   intPtr(30),
	}, 0)

	stocks := []domain.BatchStock{
		looseBeadsStock("b1", 8, "A", 100, 10.00, 0),
		unpriced,
	}

	nodes := buildHierarchy(stocks)
	leaf := nodes[0].Specifications[0].Qualities[0]

	// The unpriced batch contributes quantity but not price weight.
	assert.Equal(t, 130, leaf.RemainingQuantity)
	require.NotNil(t, leaf.PricePerUnit)
	assert.Equal(t, 10.00, *leaf.PricePerUnit)
}

func TestBuildHierarchy_NilPriceOnZeroWeight(t *testing.T) {
	stocks := []domain.BatchStock{
		domain.ComputeStock(&domain.Batch{
			ID:           "b1",
			Category:     domain.CategoryLooseBeads,
			BeadDiameter: floatPtr(6),
			Quality:      strPtr("B"),
		}, 0),
	}

	nodes := buildHierarchy(stocks)
	leaf := nodes[0].Specifications[0].Qualities[0]

	assert.Nil(t, leaf.PricePerUnit)
	assert.Nil(t, leaf.PricePerGram)
}

func TestBuildHierarchy_Rounding(t *testing.T) {
	// 3 pieces at 0.10 and 3 at 0.15: exact average 0.125 rounds half up.
	stocks := []domain.BatchStock{
		looseBeadsStock("b1", 8, "A", 3, 0.10, 0),
		looseBeadsStock("b2", 8, "A", 3, 0.15, 0),
	}

	leaf := buildHierarchy(stocks)[0].Specifications[0].Qualities[0]
	require.NotNil(t, leaf.PricePerUnit)
	assert.Equal(t, 0.13, *leaf.PricePerUnit)
}

func TestBuildHierarchy_GroupingAndOrdering(t *testing.T) {
	unknownQuality := domain.ComputeStock(&domain.Batch{
		ID:           "b4",
		Category:     domain.CategoryLooseBeads,
		BeadDiameter: floatPtr(10),
		PieceCount:   intPtr(5),
	}, 0)

	stocks := []domain.BatchStock{
		looseBeadsStock("b1", 10, "B", 20, 1, 0),
		looseBeadsStock("b2", 6, "A", 30, 1, 0),
		looseBeadsStock("b3", 10, "AA", 10, 1, 0),
		unknownQuality,
	}

	nodes := buildHierarchy(stocks)
	require.Len(t, nodes, 1)

	specs := nodes[0].Specifications
	require.Len(t, specs, 2)
	// Specifications ascend by value regardless of input order.
	assert.Equal(t, 6.0, specs[0].SpecificationValue)
	assert.Equal(t, 10.0, specs[1].SpecificationValue)

	// Qualities order by grade rank, unknown last.
	qualities := specs[1].Qualities
	require.Len(t, qualities, 3)
	assert.Equal(t, "AA", qualities[0].Quality)
	assert.Equal(t, "B", qualities[1].Quality)
	assert.Equal(t, domain.QualityUnknown, qualities[2].Quality)

	assert.Equal(t, 4, nodes[0].TotalVariants)
	assert.Equal(t, 65, nodes[0].TotalQuantity)
}

func TestBuildHierarchy_LowStockRollsUp(t *testing.T) {
	low := domain.ComputeStock(&domain.Batch{
		ID:            "b1",
		Category:      domain.CategoryBracelet,
		BeadDiameter:  floatPtr(8),
		Quality:       strPtr("A"),
		TotalBeads:    intPtr(100),
		MinStockAlert: intPtr(50),
	}, 60)
	require.True(t, low.IsLowStock)

	fine := looseBeadsStock("b2", 8, "A", 100, 1, 0)

	nodes := buildHierarchy([]domain.BatchStock{low, fine})
	require.Len(t, nodes, 2)

	for _, cat := range nodes {
		if cat.Category == domain.CategoryBracelet {
			assert.True(t, cat.HasLowStock)
			assert.True(t, cat.Specifications[0].HasLowStock)
			assert.True(t, cat.Specifications[0].Qualities[0].IsLowStock)
		} else {
			assert.False(t, cat.HasLowStock)
		}
	}
}

func TestBuildHierarchy_Empty(t *testing.T) {
	nodes := buildHierarchy(nil)
	assert.Empty(t, nodes)
}

func TestBuildHierarchy_Deterministic(t *testing.T) {
	// The same snapshot must render byte-identical output on every run.
	// The input spreads over enough categories, specifications, and grades
	// that any unordered map iteration inside the builder would reshuffle it.
	stocks := func() []domain.BatchStock {
		var out []domain.BatchStock
		for i, q := range []string{"AA", "A", "AB", "B", "C"} {
			for _, d := range []float64{4, 6, 8, 10, 12} {
				out = append(out,
					looseBeadsStock("lb-"+q+"-"+strconv.Itoa(int(d)), d, q, 10+i, 2.5, i),
					domain.ComputeStock(&domain.Batch{
						ID:            "ac-" + q + "-" + strconv.Itoa(int(d)),
						Category:      domain.CategoryAccessory,
						Specification: floatPtr(d),
						Quality:       strPtr(q),
						PieceCount:    intPtr(20 + i),
						UnitPrice:     floatPtr(8),
					}, 0),
				)
			}
		}
		out = append(out, domain.ComputeStock(&domain.Batch{
			ID:           "lb-ungraded",
			Category:     domain.CategoryLooseBeads,
			BeadDiameter: floatPtr(8),
			PieceCount:   intPtr(7),
		}, 0))
		return out
	}

	first, err := json.Marshal(buildHierarchy(stocks()))
	require.NoError(t, err)
	second, err := json.Marshal(buildHierarchy(stocks()))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestSortCategories(t *testing.T) {
	build := func() []*CategoryNode {
		return []*CategoryNode{
			{Category: domain.CategoryFinished, TotalQuantity: 30},
			{Category: domain.CategoryAccessory, TotalQuantity: 10},
			{Category: domain.CategoryBracelet, TotalQuantity: 30},
			{Category: domain.CategoryLooseBeads, TotalQuantity: 20},
		}
	}

	t.Run("total quantity descending keeps tie order", func(t *testing.T) {
		nodes := build()
		sortCategories(nodes, SortByTotalQuantity, SortDesc)

		assert.Equal(t, domain.CategoryFinished, nodes[0].Category)
		assert.Equal(t, domain.CategoryBracelet, nodes[1].Category)
		assert.Equal(t, domain.CategoryLooseBeads, nodes[2].Category)
		assert.Equal(t, domain.CategoryAccessory, nodes[3].Category)
	})

	t.Run("total quantity ascending", func(t *testing.T) {
		nodes := build()
		sortCategories(nodes, SortByTotalQuantity, SortAsc)

		assert.Equal(t, domain.CategoryAccessory, nodes[0].Category)
		assert.Equal(t, domain.CategoryLooseBeads, nodes[1].Category)
		assert.Equal(t, domain.CategoryFinished, nodes[2].Category)
		assert.Equal(t, domain.CategoryBracelet, nodes[3].Category)
	})

	t.Run("category name ascending", func(t *testing.T) {
		nodes := build()
		sortCategories(nodes, SortByCategory, SortAsc)

		assert.Equal(t, domain.CategoryAccessory, nodes[0].Category)
		assert.Equal(t, domain.CategoryBracelet, nodes[1].Category)
		assert.Equal(t, domain.CategoryFinished, nodes[2].Category)
		assert.Equal(t, domain.CategoryLooseBeads, nodes[3].Category)
	})
}

func TestPaginate(t *testing.T) {
	nodes := []*CategoryNode{
		{Category: domain.CategoryLooseBeads},
		{Category: domain.CategoryBracelet},
		{Category: domain.CategoryAccessory},
	}

	t.Run("limit one yields three pages", func(t *testing.T) {
		page, p := paginate(nodes, 2, 1)
		require.Len(t, page, 1)
		assert.Equal(t, domain.CategoryBracelet, page[0].Category)
		assert.Equal(t, Pagination{Page: 2, Limit: 1, Total: 3, Pages: 3}, p)
	})

	t.Run("last partial page", func(t *testing.T) {
		page, p := paginate(nodes, 2, 2)
		require.Len(t, page, 1)
		assert.Equal(t, domain.CategoryAccessory, page[0].Category)
		assert.Equal(t, 2, p.Pages)
	})

	t.Run("offset beyond data is empty", func(t *testing.T) {
		page, p := paginate(nodes, 5, 2)
		assert.Empty(t, page)
		assert.Equal(t, 3, p.Total)
	})

	t.Run("no data", func(t *testing.T) {
		page, p := paginate(nil, 1, 20)
		assert.Empty(t, page)
		assert.Equal(t, Pagination{Page: 1, Limit: 20, Total: 0, Pages: 0}, p)
	})
}

func TestRedactCosts(t *testing.T) {
	stocks := []domain.BatchStock{
		looseBeadsStock("b1", 8, "A", 100, 10.00, 25),
	}
	stocks[0].Batch.PricePerGram = floatPtr(4.5)
	stocks[0].Batch.SupplierName = strPtr("Guangzhou Pearl Trading")

	nodes := buildHierarchy(stocks)
	redactCosts(nodes)

	leaf := nodes[0].Specifications[0].Qualities[0]
	assert.Nil(t, leaf.PricePerUnit)
	assert.Nil(t, leaf.PricePerGram)

	view := leaf.Batches[0]
	assert.Nil(t, view.PricePerUnit)
	assert.Nil(t, view.PricePerGram)
	assert.Nil(t, view.SupplierName)

	// Quantities stay intact for everyone.
	assert.Equal(t, 75, view.RemainingQuantity)
	assert.Equal(t, 75, leaf.RemainingQuantity)
}
