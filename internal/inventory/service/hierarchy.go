package service

import (
	"math"
	"sort"
	"time"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
)

// CategoryNode is a level-1 node of the stock hierarchy
type CategoryNode struct {
	Category       domain.Category      `json:"category"`
	TotalQuantity  int                  `json:"total_quantity"`
	TotalVariants  int                  `json:"total_variants"`
	HasLowStock    bool                 `json:"has_low_stock"`
	Specifications []*SpecificationNode `json:"specifications"`
}

// SpecificationNode is a level-2 node grouping by size dimension
type SpecificationNode struct {
	SpecificationValue float64        `json:"specification_value"`
	SpecificationUnit  string         `json:"specification_unit"`
	TotalQuantity      int            `json:"total_quantity"`
	TotalVariants      int            `json:"total_variants"`
	HasLowStock        bool           `json:"has_low_stock"`
	Qualities          []*QualityNode `json:"qualities"`
}

// QualityNode is a level-3 leaf grouping by quality grade
type QualityNode struct {
	Quality           string       `json:"quality"`
	RemainingQuantity int          `json:"remaining_quantity"`
	IsLowStock        bool         `json:"is_low_stock"`
	PricePerUnit      *float64     `json:"price_per_unit"`
	PricePerGram      *float64     `json:"price_per_gram"`
	BatchCount        int          `json:"batch_count"`
	Batches           []*BatchView `json:"batches"`
}

// BatchView is the per-batch payload inside a leaf node
type BatchView struct {
	ID                string          `json:"id"`
	Code              string          `json:"batch_code"`
	Name              string          `json:"name"`
	Category          domain.Category `json:"category"`
	BeadDiameter      *float64        `json:"bead_diameter,omitempty"`
	Specification     *float64        `json:"specification,omitempty"`
	Quality           string          `json:"quality"`
	OriginalQuantity  int             `json:"original_quantity"`
	UsedQuantity      int             `json:"used_quantity"`
	RemainingQuantity int             `json:"remaining_quantity"`
	IsLowStock        bool            `json:"is_low_stock"`
	MinStockAlert     *int            `json:"min_stock_alert,omitempty"`
	PricePerUnit      *float64        `json:"price_per_unit"`
	PricePerGram      *float64        `json:"price_per_gram"`
	SupplierName      *string         `json:"supplier_name"`
	Photos            []string        `json:"photos"`
	PurchasedAt       time.Time       `json:"purchased_at"`
}

func newBatchView(st domain.BatchStock) *BatchView {
	b := st.Batch
	return &BatchView{
		ID:                b.ID,
		Code:              b.Code,
		Name:              b.Name,
		Category:          b.Category,
		BeadDiameter:      b.BeadDiameter,
		Specification:     b.Specification,
		Quality:           b.QualityOrUnknown(),
		OriginalQuantity:  st.OriginalQuantity,
		UsedQuantity:      st.UsedQuantity,
		RemainingQuantity: st.RemainingQuantity,
		IsLowStock:        st.IsLowStock,
		MinStockAlert:     b.MinStockAlert,
		PricePerUnit:      st.UnitPrice,
		PricePerGram:      b.PricePerGram,
		SupplierName:      b.SupplierName,
		Photos:            b.Photos,
		PurchasedAt:       b.PurchasedAt,
	}
}

// weightedPrice accumulates a price average weighted by original acquired
// quantity. Weighting by remaining quantity would bias the average toward
// older, more depleted batches.
type weightedPrice struct {
	sum    float64
	weight int
}

func (w *weightedPrice) add(price *float64, originalQty int) {
	if price == nil || originalQty <= 0 {
		return
	}
	w.sum += *price * float64(originalQty)
	w.weight += originalQty
}

func (w *weightedPrice) average() *float64 {
	if w.weight == 0 {
		return nil
	}
	avg := math.Round(w.sum/float64(w.weight)*100) / 100
	return &avg
}

type leafAcc struct {
	node      *QualityNode
	unitPrice weightedPrice
	gramPrice weightedPrice
}

type specAcc struct {
	node   *SpecificationNode
	leaves []*leafAcc
	index  map[string]*leafAcc
}

type categoryAcc struct {
	node  *CategoryNode
	specs []*specAcc
	index map[float64]*specAcc
}

// buildHierarchy folds batch stock records into the three-level tree in a
// single pass, then freezes the accumulators into nodes. Every slice is
// ordered deterministically: categories keep first-touch order (callers
// sort them), specifications sort ascending by value, qualities sort by
// grade rank, and leaf batch lists keep store order.
func buildHierarchy(stocks []domain.BatchStock) []*CategoryNode {
	var cats []*categoryAcc
	catIndex := make(map[domain.Category]*categoryAcc)

	for _, st := range stocks {
		b := st.Batch

		cat, ok := catIndex[b.Category]
		if !ok {
			cat = &categoryAcc{
				node:  &CategoryNode{Category: b.Category},
				index: make(map[float64]*specAcc),
			}
			catIndex[b.Category] = cat
			cats = append(cats, cat)
		}

		specValue := b.SpecValue()
		spec, ok := cat.index[specValue]
		if !ok {
			spec = &specAcc{
				node: &SpecificationNode{
					SpecificationValue: specValue,
					SpecificationUnit:  b.Category.SpecificationUnit(),
				},
				index: make(map[string]*leafAcc),
			}
			cat.index[specValue] = spec
			cat.specs = append(cat.specs, spec)
		}

		quality := b.QualityOrUnknown()
		leaf, ok := spec.index[quality]
		if !ok {
			leaf = &leafAcc{node: &QualityNode{Quality: quality}}
			spec.index[quality] = leaf
			spec.leaves = append(spec.leaves, leaf)
		}

		leaf.node.Batches = append(leaf.node.Batches, newBatchView(st))
		leaf.node.RemainingQuantity += st.RemainingQuantity
		if st.IsLowStock {
			leaf.node.IsLowStock = true
		}
		leaf.unitPrice.add(st.UnitPrice, st.OriginalQuantity)
		leaf.gramPrice.add(b.PricePerGram, st.OriginalQuantity)
	}

	nodes := make([]*CategoryNode, 0, len(cats))
	for _, cat := range cats {
		nodes = append(nodes, freezeCategory(cat))
	}
	return nodes
}

func freezeCategory(cat *categoryAcc) *CategoryNode {
	sort.SliceStable(cat.specs, func(i, j int) bool {
		return cat.specs[i].node.SpecificationValue < cat.specs[j].node.SpecificationValue
	})

	for _, spec := range cat.specs {
		sort.SliceStable(spec.leaves, func(i, j int) bool {
			return domain.QualityRank(spec.leaves[i].node.Quality) < domain.QualityRank(spec.leaves[j].node.Quality)
		})

		for _, leaf := range spec.leaves {
			leaf.node.PricePerUnit = leaf.unitPrice.average()
			leaf.node.PricePerGram = leaf.gramPrice.average()
			leaf.node.BatchCount = len(leaf.node.Batches)

			spec.node.Qualities = append(spec.node.Qualities, leaf.node)
			spec.node.TotalQuantity += leaf.node.RemainingQuantity
			if leaf.node.IsLowStock {
				spec.node.HasLowStock = true
			}
		}
		spec.node.TotalVariants = len(spec.node.Qualities)

		cat.node.Specifications = append(cat.node.Specifications, spec.node)
		cat.node.TotalQuantity += spec.node.TotalQuantity
		cat.node.TotalVariants += spec.node.TotalVariants
		if spec.node.HasLowStock {
			cat.node.HasLowStock = true
		}
	}

	return cat.node
}

// Sort fields and directions for the level-1 nodes
const (
	SortByTotalQuantity = "total_quantity"
	SortByCategory      = "category"

	SortAsc  = "asc"
	SortDesc = "desc"
)

// sortCategories orders the level-1 nodes in place. Ties keep input order.
func sortCategories(nodes []*CategoryNode, sortBy, order string) {
	asc := order == SortAsc

	sort.SliceStable(nodes, func(i, j int) bool {
		var less bool
		switch sortBy {
		case SortByCategory:
			if nodes[i].Category == nodes[j].Category {
				return false
			}
			less = nodes[i].Category < nodes[j].Category
		default:
			if nodes[i].TotalQuantity == nodes[j].TotalQuantity {
				return false
			}
			less = nodes[i].TotalQuantity < nodes[j].TotalQuantity
		}
		if asc {
			return less
		}
		return !less
	})
}

// Pagination describes the level-1 page window of a hierarchy response
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

// paginate slices the level-1 nodes. Levels 2 and 3 always travel whole
// with their category.
func paginate(nodes []*CategoryNode, page, limit int) ([]*CategoryNode, Pagination) {
	total := len(nodes)
	pages := 0
	if total > 0 {
		pages = (total + limit - 1) / limit
	}

	offset := (page - 1) * limit
	if offset >= total {
		nodes = []*CategoryNode{}
	} else {
		end := offset + limit
		if end > total {
			end = total
		}
		nodes = nodes[offset:end]
	}

	return nodes, Pagination{
		Page:  page,
		Limit: limit,
		Total: total,
		Pages: pages,
	}
}
