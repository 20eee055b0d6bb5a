package analyzer

import (
	"math"
	"time"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// WindowSpec is a fully derived pair of evaluation windows: a "past" window
// of y years followed by a "future" window of x years ending at the
// reference date, which is today shifted back by z years.
//
// Invariant, guaranteed by PlanWindows:
//
//	PastStart ≤ PastEnd ≤ FutureStart ≤ FutureEnd
type WindowSpec struct {
	X float64
	Y float64
	Z float64

	ReferenceDate time.Time
	PastStart     time.Time
	PastEnd       time.Time
	FutureStart   time.Time
	FutureEnd     time.Time
}

// YearsToDays converts a year count to calendar days using the fixed
// 365-day-year convention. No leap-year precision: the result feeds cache
// keys and persisted tables, so it must stay byte-stable across dates.
func YearsToDays(years float64) int {
	return int(math.Floor(365 * years))
}

// PlanWindows derives the four window boundaries from (x, y, z) and today.
// x and y are window lengths in years; z shifts the reference date back from
// today. Negative x or y would break the boundary ordering and fail with
// InvalidWindowError.
func PlanWindows(x, y, z float64, today time.Time) (WindowSpec, error) {
	if x < 0 || y < 0 {
		return WindowSpec{}, &InvalidWindowError{X: x, Y: y, Z: z}
	}

	reference := types.Day(today).AddDate(0, 0, -YearsToDays(z))

	spec := WindowSpec{
		X:             x,
		Y:             y,
		Z:             z,
		ReferenceDate: reference,
		FutureEnd:     reference,
		FutureStart:   reference.AddDate(0, 0, -YearsToDays(x)),
	}
	spec.PastEnd = spec.FutureStart
	spec.PastStart = spec.PastEnd.AddDate(0, 0, -YearsToDays(y))

	if spec.PastStart.After(spec.PastEnd) || spec.PastEnd.After(spec.FutureStart) || spec.FutureStart.After(spec.FutureEnd) {
		return WindowSpec{}, &InvalidWindowError{X: x, Y: y, Z: z}
	}

	return spec, nil
}
