package domain

// Criteria is the predicate set a caller may apply to the batch ledger
// before aggregation. The repository translates it into a parameterized
// query; values are never interpolated into SQL text.
//
// All predicates compose with logical AND.
type Criteria struct {
	// Search matches the batch name as a case-insensitive substring.
	Search string

	// Categories restricts by category membership. nil means no restriction;
	// an explicitly empty set means match nothing. Callers must preserve
	// that asymmetry.
	Categories []Category

	// Qualities restricts by grade membership. QualityUnknown selects
	// batches with no recorded grade. Empty means no restriction.
	Qualities []string

	// Inclusive numeric bounds. A bound only excludes batches that have the
	// dimension recorded; batches without a diameter pass any diameter
	// bound, and likewise for specification.
	DiameterMin      *float64
	DiameterMax      *float64
	SpecificationMin *float64
	SpecificationMax *float64

	// LowStockOnly keeps only batches whose derived stock is low. It is
	// applied after stock derivation, not in the store query.
	LowStockOnly bool
}

// MatchesNothing reports whether the criteria can be answered without
// touching the stores: an explicitly empty category set excludes every
// batch by definition.
func (c Criteria) MatchesNothing() bool {
	return c.Categories != nil && len(c.Categories) == 0
}
