package domain

// Category classifies a purchase batch. It is fixed for the lifetime of a
// batch and decides which quantity and price fields carry meaning.
type Category string

const (
	CategoryLooseBeads Category = "LOOSE_BEADS"
	CategoryBracelet   Category = "BRACELET"
	CategoryAccessory  Category = "ACCESSORY"
	CategoryFinished   Category = "FINISHED"
)

// Categories lists the four known categories in display order.
var Categories = []Category{
	CategoryLooseBeads,
	CategoryBracelet,
	CategoryAccessory,
	CategoryFinished,
}

// Valid reports whether c is one of the four known categories. Stored data
// may carry other values; those fall back to the generic quantity rules.
func (c Category) Valid() bool {
	switch c {
	case CategoryLooseBeads, CategoryBracelet, CategoryAccessory, CategoryFinished:
		return true
	}
	return false
}

// UsesDiameter reports whether the category groups by bead diameter.
// Accessory and finished goods group by the generic specification field.
func (c Category) UsesDiameter() bool {
	return c == CategoryLooseBeads || c == CategoryBracelet
}

// SpecificationUnit returns the unit label for the category's grouping
// dimension: millimeters for bead-diameter categories, unlabeled otherwise.
func (c Category) SpecificationUnit() string {
	if c.UsesDiameter() {
		return "mm"
	}
	return ""
}

// Quality grades, best to lowest.
const (
	QualityAA = "AA"
	QualityA  = "A"
	QualityAB = "AB"
	QualityB  = "B"
	QualityC  = "C"

	// QualityUnknown is the bucket for batches without a recorded grade.
	// It participates in quality filtering like any other grade.
	QualityUnknown = "unknown"
)

// ValidQualityFilter reports whether q is a grade a caller may filter by.
func ValidQualityFilter(q string) bool {
	switch q {
	case QualityAA, QualityA, QualityAB, QualityB, QualityC, QualityUnknown:
		return true
	}
	return false
}

// QualityRank orders grades for deterministic output: AA first, unknown last.
// Unrecognized grades sort after the known ones but before unknown.
func QualityRank(q string) int {
	switch q {
	case QualityAA:
		return 0
	case QualityA:
		return 1
	case QualityAB:
		return 2
	case QualityB:
		return 3
	case QualityC:
		return 4
	case QualityUnknown:
		return 6
	default:
		return 5
	}
}
