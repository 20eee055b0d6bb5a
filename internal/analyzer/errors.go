package analyzer

import (
	"errors"
	"fmt"
)

// ErrMissingData marks an expected, recoverable absence: a symbol lacking
// sufficient history or a price point at a probed date. It gates eligibility
// and per-symbol computation; it never aborts a pipeline run on its own.
var ErrMissingData = errors.New("missing data")

// InvalidWindowError reports window parameters whose derived calendar
// boundaries would violate past_start ≤ past_end ≤ future_start ≤ future_end.
// Raised at construction, before any data access.
type InvalidWindowError struct {
	X float64
	Y float64
	Z float64
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid window parameters x=%g y=%g z=%g: window lengths must be non-negative", e.X, e.Y, e.Z)
}

// EmptyResultError reports that zero symbols survived filtering for a
// window. Fatal for that window's pipeline run; a combination batch catches
// it per tuple.
type EmptyResultError struct {
	Variant string
	Window  WindowSpec
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("%s selection is empty for window x=%g y=%g z=%g: no symbols survived filtering",
		e.Variant, e.Window.X, e.Window.Y, e.Window.Z)
}
