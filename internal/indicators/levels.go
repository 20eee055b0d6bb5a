package indicators

import (
	"math"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// SupportResistance holds rolling support and resistance level series.
type SupportResistance struct {
	Support    []float64
	Resistance []float64
}

// Levels returns rolling support (lowest low) and resistance (highest high)
// over the period.
func Levels(bars []types.PriceBar, period int) SupportResistance {
	support := nanSlice(len(bars))
	resistance := nanSlice(len(bars))

	for i := period - 1; i < len(bars); i++ {
		low := math.Inf(1)
		high := math.Inf(-1)
		for j := i - period + 1; j <= i; j++ {
			if bars[j].Low < low {
				low = bars[j].Low
			}
			if bars[j].High > high {
				high = bars[j].High
			}
		}
		support[i] = low
		resistance[i] = high
	}

	return SupportResistance{Support: support, Resistance: resistance}
}

// FibonacciLevels holds retracement prices between a swing low and high.
type FibonacciLevels struct {
	High     float64
	Low      float64
	Level236 float64
	Level382 float64
	Level500 float64
	Level618 float64
}

// Fibonacci computes retracement levels from the highest high and lowest
// low of the final lookback bars. Returns false when no bars fall in the
// lookback.
func Fibonacci(bars []types.PriceBar, lookback int) (FibonacciLevels, bool) {
	if len(bars) == 0 || lookback <= 0 {
		return FibonacciLevels{}, false
	}

	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}

	low := math.Inf(1)
	high := math.Inf(-1)
	for _, bar := range bars[start:] {
		if bar.Low < low {
			low = bar.Low
		}
		if bar.High > high {
			high = bar.High
		}
	}

	span := high - low
	return FibonacciLevels{
		High:     high,
		Low:      low,
		Level236: high - 0.236*span,
		Level382: high - 0.382*span,
		Level500: high - 0.500*span,
		Level618: high - 0.618*span,
	}, true
}
