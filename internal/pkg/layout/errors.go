package layout

import "errors"

// Input validation errors. They are deterministic data-contract violations, returned before any
// geometry is produced.
var (
	// ErrInconsistentKeyKind is returned when temporal and categorical keys are mixed.
	ErrInconsistentKeyKind = errors.New("inconsistent key kind")

	// ErrUnsupportedTemporalBars is returned when bars carry temporal keys, or when bars are
	// registered along with time-scaled lines.
	ErrUnsupportedTemporalBars = errors.New("unsupported temporal bars")

	// ErrNoSeries is returned when the engine is run without any series.
	ErrNoSeries = errors.New("no series to lay out")
)
