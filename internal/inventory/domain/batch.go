package domain

import "time"

// Batch is one acquisition record in the purchase ledger. Batches are
// immutable once written; stock is derived by subtracting usage.
//
// Category decides which quantity and price fields are meaningful; the
// unused ones stay null.
type Batch struct {
	ID       string   `db:"id" json:"id"`
	Code     string   `db:"batch_code" json:"batch_code"`
	Name     string   `db:"name" json:"name"`
	Category Category `db:"category" json:"category"`

	// Grouping dimensions
	BeadDiameter  *float64 `db:"bead_diameter" json:"bead_diameter,omitempty"`
	Specification *float64 `db:"specification" json:"specification,omitempty"`
	Quality       *string  `db:"quality" json:"quality,omitempty"`

	// Per-category quantity fields
	Quantity   *int `db:"quantity" json:"quantity,omitempty"`
	PieceCount *int `db:"piece_count" json:"piece_count,omitempty"`
	TotalBeads *int `db:"total_beads" json:"total_beads,omitempty"`

	// Per-category price fields
	PricePerBead *float64 `db:"price_per_bead" json:"price_per_bead,omitempty"`
	PricePerGram *float64 `db:"price_per_gram" json:"price_per_gram,omitempty"`
	UnitPrice    *float64 `db:"unit_price" json:"unit_price,omitempty"`
	TotalPrice   *float64 `db:"total_price" json:"total_price,omitempty"`

	SupplierID   *string `db:"supplier_id" json:"supplier_id,omitempty"`
	SupplierName *string `db:"supplier_name" json:"supplier_name,omitempty"`

	// Photos is normalized from the stored raw value, which may be a JSON
	// array string or a bare URL. See NormalizePhotoList.
	Photos []string `db:"-" json:"photos"`

	PurchasedAt   time.Time `db:"purchased_at" json:"purchased_at"`
	MinStockAlert *int      `db:"min_stock_alert" json:"min_stock_alert,omitempty"`
}

// QualityOrUnknown returns the batch's grade, or the unknown sentinel when
// no grade was recorded.
func (b *Batch) QualityOrUnknown() string {
	if b.Quality == nil || *b.Quality == "" {
		return QualityUnknown
	}
	return *b.Quality
}

// SpecValue returns the grouping dimension for the batch: bead diameter for
// loose beads and bracelets, the generic specification otherwise. Missing
// values group under 0.
func (b *Batch) SpecValue() float64 {
	var v *float64
	if b.Category.UsesDiameter() {
		v = b.BeadDiameter
	} else {
		v = b.Specification
	}
	if v == nil {
		return 0
	}
	return *v
}

// UsageRecord is one consumption event against a batch, written by the
// finished-goods assembly workflow. Records are immutable and only ever
// appended.
type UsageRecord struct {
	ID        string    `db:"id" json:"id"`
	BatchID   string    `db:"batch_id" json:"batch_id"`
	Quantity  int       `db:"quantity" json:"quantity"`
	ProductID string    `db:"product_id" json:"product_id"`
	UsedAt    time.Time `db:"used_at" json:"used_at"`
}
