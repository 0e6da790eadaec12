package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the width below which panels stack vertically.
	LayoutCompactWidth = 100

	// LayoutDescriptionWidth is the minimum width to show descriptions in
	// the product table.
	LayoutDescriptionWidth = 120
)

// Activity log limits.
const (
	// ActivityLineLimit is how many log lines the activity view keeps.
	ActivityLineLimit = 500
)

// Timing constants.
const (
	// DefaultUIInterval drives the clock in the header and the activity
	// view refresh.
	DefaultUIInterval = time.Second

	// FlashDuration is how long transient notices stay in the footer.
	FlashDuration = 3 * time.Second
)
