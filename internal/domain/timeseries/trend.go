package timeseries

import "github.com/storepulse/storepulse/internal/types"

const (
	trendThreshold      = 0.05
	volatilityThreshold = 0.5
	minVolatilitySample = 3
)

// TrendAnalysis summarises the period-over-period rates of a series.
type TrendAnalysis struct {
	Direction  types.TrendDirection `json:"direction"`
	MedianRate float64              `json:"median_rate"`
	MeanRate   float64              `json:"mean_rate"`
	Volatility float64              `json:"volatility"`
	Samples    int                  `json:"samples"`
}

// ClassifyTrend labels values as increasing, decreasing, stable or volatile.
// Volatility wins over direction once enough rates exist.
func ClassifyTrend(values []float64) TrendAnalysis {
	rates := PeriodRates(values)
	if len(rates) == 0 {
		return TrendAnalysis{Direction: types.TrendStable}
	}

	median := Median(rates)
	analysis := TrendAnalysis{
		MedianRate: LongHorizonGrowthBounds.Clamp(median),
		MeanRate:   mean(rates),
		Volatility: stdDev(rates),
		Samples:    len(rates),
	}

	switch {
	case len(rates) >= minVolatilitySample && analysis.Volatility > volatilityThreshold:
		analysis.Direction = types.TrendVolatile
	case median > trendThreshold:
		analysis.Direction = types.TrendIncreasing
	case median < -trendThreshold:
		analysis.Direction = types.TrendDecreasing
	default:
		analysis.Direction = types.TrendStable
	}
	return analysis
}
