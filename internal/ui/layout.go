package ui

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which calendar cells drop
	// the parent name.
	LayoutCompactWidth = 80

	// LayoutYearColumns is the number of month blocks per row in year view.
	LayoutYearColumns = 3
)

// Cell and bar sizes.
const (
	// CellWidth is the width of one day cell in month view.
	CellWidth = 11

	// CompactCellWidth is used below LayoutCompactWidth.
	CompactCellWidth = 5

	// YearBarWidth is the width of the per-month split bar in year view.
	YearBarWidth = 20

	// ModalWidth is the width of edit, share and confirm dialogs.
	ModalWidth = 56
)
