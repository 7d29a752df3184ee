package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gemflow/gemflow-backend/internal/inventory/domain"
)

// FixtureFactory creates test fixtures with sensible defaults
type FixtureFactory struct {
	sequence int
}

// NewFixtureFactory creates a new fixture factory
func NewFixtureFactory() *FixtureFactory {
	return &FixtureFactory{sequence: 0}
}

// nextSeq returns the next sequence number for unique values
func (f *FixtureFactory) nextSeq() int {
	f.sequence++
	return f.sequence
}

// Batch creates a purchase batch fixture. Defaults are a loose-bead batch
// with a diameter, quality grade and per-bead price.
func (f *FixtureFactory) Batch(opts ...func(*domain.Batch)) *domain.Batch {
	seq := f.nextSeq()

	b := &domain.Batch{
		ID:           uuid.New().String(),
		Code:         fmt.Sprintf("PB-%04d", seq),
		Name:         fmt.Sprintf("Test Batch %d", seq),
		Category:     domain.CategoryLooseBeads,
		BeadDiameter: Float(8.0),
		Quality:      String(domain.QualityA),
		PieceCount:   Int(100),
		PricePerBead: Float(10.0),
		Photos:       []string{},
		PurchasedAt:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Hour),
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// WithCategory sets the batch category
func WithCategory(c domain.Category) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.Category = c
	}
}

// WithQuality sets the quality grade
func WithQuality(q string) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.Quality = &q
	}
}

// WithoutQuality clears the quality grade
func WithoutQuality() func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.Quality = nil
	}
}

// WithDiameter sets the bead diameter
func WithDiameter(d float64) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.BeadDiameter = &d
	}
}

// WithSpecification sets the generic specification dimension
func WithSpecification(s float64) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.Specification = &s
	}
}

// WithPieceCount sets the piece count
func WithPieceCount(n int) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.PieceCount = &n
	}
}

// WithTotalBeads sets the total bead count
func WithTotalBeads(n int) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.TotalBeads = &n
	}
}

// WithPricePerBead sets the per-bead price
func WithPricePerBead(p float64) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.PricePerBead = &p
	}
}

// WithUnitPrice sets the unit price
func WithUnitPrice(p float64) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.UnitPrice = &p
	}
}

// WithTotalPrice sets the total price
func WithTotalPrice(p float64) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.TotalPrice = &p
	}
}

// WithMinStockAlert sets the low-stock threshold
func WithMinStockAlert(n int) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.MinStockAlert = &n
	}
}

// WithSupplier sets the supplier id and display name
func WithSupplier(id, name string) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.SupplierID = &id
		b.SupplierName = &name
	}
}

// WithBatchName sets the batch display name
func WithBatchName(name string) func(*domain.Batch) {
	return func(b *domain.Batch) {
		b.Name = name
	}
}

// UsageRecord creates a usage record fixture against the given batch
func (f *FixtureFactory) UsageRecord(batchID string, quantity int) *domain.UsageRecord {
	seq := f.nextSeq()
	return &domain.UsageRecord{
		ID:        uuid.New().String(),
		BatchID:   batchID,
		Quantity:  quantity,
		ProductID: uuid.New().String(),
		UsedAt:    time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(seq) * time.Hour),
	}
}

// Int returns a pointer to the given int
func Int(v int) *int {
	return &v
}

// Float returns a pointer to the given float64
func Float(v float64) *float64 {
	return &v
}

// String returns a pointer to the given string
func String(v string) *string {
	return &v
}
