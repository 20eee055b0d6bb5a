// Package indicators computes technical indicator series over daily price
// history. Every function returns one value per input bar; positions before
// an indicator's warmup period hold NaN.
package indicators

import (
	"math"

	"github.com/niftylab/stock-analyzer/pkg/types"
)

// SMA returns the simple moving average of closes over the period.
func SMA(bars []types.PriceBar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 {
		return out
	}

	var sum float64
	for i, bar := range bars {
		sum += bar.Close
		if i >= period {
			sum -= bars[i-period].Close
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// EMA returns the exponential moving average of closes with smoothing
// factor 2/(period+1), seeded from the first close.
func EMA(bars []types.PriceBar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	ema := bars[0].Close
	out[0] = ema
	for i := 1; i < len(bars); i++ {
		ema = alpha*bars[i].Close + (1-alpha)*ema
		out[i] = ema
	}
	return out
}

// RSI returns the relative strength index over the period, using simple
// rolling means of gains and losses. The first bar has no delta and stays
// NaN; subsequent bars average over however many deltas exist, so early
// values are usable before a full period accumulates.
func RSI(bars []types.PriceBar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 || len(bars) < 2 {
		return out
	}

	gains := make([]float64, len(bars))
	losses := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		delta := bars[i].Close - bars[i-1].Close
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	for i := 1; i < len(bars); i++ {
		start := i - period + 1
		if start < 1 {
			start = 1
		}
		n := float64(i - start + 1)

		var gain, loss float64
		for j := start; j <= i; j++ {
			gain += gains[j]
			loss += losses[j]
		}
		gain /= n
		loss /= n

		if loss == 0 {
			out[i] = 100
			continue
		}
		rs := gain / loss
		out[i] = 100 - 100/(1+rs)
	}
	return out
}

// MACDResult holds the MACD line, its signal line, and their difference.
type MACDResult struct {
	Line      []float64
	Signal    []float64
	Histogram []float64
}

// MACD returns the moving average convergence/divergence with the
// conventional 12/26/9 parameterization unless overridden.
func MACD(bars []types.PriceBar, fast, slow, signal int) MACDResult {
	fastEMA := EMA(bars, fast)
	slowEMA := EMA(bars, slow)

	line := make([]float64, len(bars))
	for i := range line {
		line[i] = fastEMA[i] - slowEMA[i]
	}

	sig := emaOf(line, signal)

	hist := make([]float64, len(bars))
	for i := range hist {
		hist[i] = line[i] - sig[i]
	}

	return MACDResult{Line: line, Signal: sig, Histogram: hist}
}

// BollingerResult holds the middle band and its upper and lower envelopes.
type BollingerResult struct {
	Middle []float64
	Upper  []float64
	Lower  []float64
}

// Bollinger returns period-SMA bands at stdDevs standard deviations. The
// standard deviation is the sample deviation over the same window as the
// middle band.
func Bollinger(bars []types.PriceBar, period int, stdDevs float64) BollingerResult {
	middle := SMA(bars, period)
	upper := nanSlice(len(bars))
	lower := nanSlice(len(bars))

	for i := period - 1; i < len(bars); i++ {
		mean := middle[i]
		var variance float64
		for j := i - period + 1; j <= i; j++ {
			d := bars[j].Close - mean
			variance += d * d
		}
		if period > 1 {
			variance /= float64(period - 1)
		}
		sd := math.Sqrt(variance)
		upper[i] = mean + stdDevs*sd
		lower[i] = mean - stdDevs*sd
	}

	return BollingerResult{Middle: middle, Upper: upper, Lower: lower}
}

// VolumeMA returns the simple moving average of volume over the period.
func VolumeMA(bars []types.PriceBar, period int) []float64 {
	out := nanSlice(len(bars))
	if period <= 0 {
		return out
	}

	var sum float64
	for i, bar := range bars {
		sum += bar.Volume
		if i >= period {
			sum -= bars[i-period].Volume
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

func emaOf(values []float64, period int) []float64 {
	out := nanSlice(len(values))
	if period <= 0 || len(values) == 0 {
		return out
	}

	alpha := 2.0 / float64(period+1)
	ema := values[0]
	out[0] = ema
	for i := 1; i < len(values); i++ {
		ema = alpha*values[i] + (1-alpha)*ema
		out[i] = ema
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
