package indicators

import "github.com/niftylab/stock-analyzer/pkg/types"

// Default indicator parameters.
const (
	DefaultShortSMA        = 20
	DefaultLongSMA         = 50
	DefaultEMAPeriod       = 20
	DefaultRSIPeriod       = 14
	DefaultMACDFast        = 12
	DefaultMACDSlow        = 26
	DefaultMACDSignal      = 9
	DefaultBollingerPeriod = 20
	DefaultBollingerStdDev = 2
	DefaultVolumePeriod    = 20
	DefaultLevelPeriod     = 20
)

// Snapshot carries the standard indicator set aligned with its source bars.
type Snapshot struct {
	Bars []types.PriceBar

	SMAShort  []float64
	SMALong   []float64
	EMA       []float64
	RSI       []float64
	MACD      MACDResult
	Bollinger BollingerResult
	VolumeMA  []float64
	Levels    SupportResistance
}

// Enrich computes the standard indicator set over a price series.
func Enrich(bars []types.PriceBar) Snapshot {
	return Snapshot{
		Bars:      bars,
		SMAShort:  SMA(bars, DefaultShortSMA),
		SMALong:   SMA(bars, DefaultLongSMA),
		EMA:       EMA(bars, DefaultEMAPeriod),
		RSI:       RSI(bars, DefaultRSIPeriod),
		MACD:      MACD(bars, DefaultMACDFast, DefaultMACDSlow, DefaultMACDSignal),
		Bollinger: Bollinger(bars, DefaultBollingerPeriod, DefaultBollingerStdDev),
		VolumeMA:  VolumeMA(bars, DefaultVolumePeriod),
		Levels:    Levels(bars, DefaultLevelPeriod),
	}
}
