package domain

// ResolveQuantity maps a batch onto its original acquired quantity and the
// unit price used for weighted averaging. The mapping is fixed per category:
//
//	LOOSE_BEADS  quantity = piece_count          price = price_per_bead
//	BRACELET     quantity = total_beads,         price = price_per_bead,
//	             else piece_count                else total_price/total_beads
//	ACCESSORY    quantity = piece_count          price = unit_price,
//	FINISHED     (same as ACCESSORY)             else total_price/piece_count
//	other        quantity = quantity             price = price_per_bead
//
// Missing fields never raise an error; absence propagates as zero quantity
// or nil price through the fallback chain.
func ResolveQuantity(b *Batch) (original int, unitPrice *float64) {
	switch b.Category {
	case CategoryLooseBeads:
		return intOrZero(b.PieceCount), b.PricePerBead

	case CategoryBracelet:
		original = intOrZero(b.TotalBeads)
		if b.TotalBeads == nil {
			original = intOrZero(b.PieceCount)
		}
		if b.PricePerBead != nil {
			return original, b.PricePerBead
		}
		if b.TotalPrice != nil && b.TotalBeads != nil && *b.TotalBeads > 0 {
			return original, ptr(*b.TotalPrice / float64(*b.TotalBeads))
		}
		return original, nil

	case CategoryAccessory, CategoryFinished:
		original = intOrZero(b.PieceCount)
		if b.UnitPrice != nil {
			return original, b.UnitPrice
		}
		if b.TotalPrice != nil && b.PieceCount != nil && *b.PieceCount > 0 {
			return original, ptr(*b.TotalPrice / float64(*b.PieceCount))
		}
		return original, nil

	default:
		return intOrZero(b.Quantity), b.PricePerBead
	}
}

// BatchStock is the derived stock position of one batch. It is computed
// fresh per query and never persisted.
type BatchStock struct {
	Batch *Batch

	OriginalQuantity  int
	UsedQuantity      int
	RemainingQuantity int

	// UnitPrice is the per-unit price resolved for weighted averaging.
	UnitPrice *float64

	IsLowStock bool
}

// ComputeStock combines a batch with its total recorded usage. Remaining
// quantity may go negative when usage exceeds the recorded acquisition;
// it is surfaced as-is for manual reconciliation, not clamped.
//
// A batch without an alert threshold is never low-stock, regardless of how
// far its remaining quantity has fallen.
func ComputeStock(b *Batch, used int) BatchStock {
	original, price := ResolveQuantity(b)
	remaining := original - used

	return BatchStock{
		Batch:             b,
		OriginalQuantity:  original,
		UsedQuantity:      used,
		RemainingQuantity: remaining,
		UnitPrice:         price,
		IsLowStock:        b.MinStockAlert != nil && remaining <= *b.MinStockAlert,
	}
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

func ptr[T any](v T) *T {
	return &v
}
