package timeseries

import (
	"math"
	"sort"
)

// GrowthBounds clamps an estimated growth rate and supplies the fallback used
// when the history is too thin to estimate anything.
type GrowthBounds struct {
	Min     float64
	Max     float64
	Default float64
}

var (
	// ProjectionGrowthBounds applies to the short range projection path.
	ProjectionGrowthBounds = GrowthBounds{Min: -0.2, Max: 0.2, Default: 0.02}
	// LongHorizonGrowthBounds applies to trend analysis and multi-year projections.
	LongHorizonGrowthBounds = GrowthBounds{Min: -0.5, Max: 0.5, Default: 0.01}
)

// Clamp forces v into [Min, Max]; NaN falls back to the clamped default.
func (b GrowthBounds) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		v = b.Default
	}
	return math.Max(b.Min, math.Min(b.Max, v))
}

// PeriodRates returns the fractional change between consecutive non-zero
// values. Zero buckets are dropped first so empty periods never produce
// division by zero or explosive rates.
func PeriodRates(values []float64) []float64 {
	nonZero := make([]float64, 0, len(values))
	for _, v := range values {
		if v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0) {
			nonZero = append(nonZero, v)
		}
	}
	if len(nonZero) < 2 {
		return nil
	}

	rates := make([]float64, 0, len(nonZero)-1)
	for i := 1; i < len(nonZero); i++ {
		prev := nonZero[i-1]
		rate := (nonZero[i] - prev) / math.Abs(prev)
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			continue
		}
		rates = append(rates, rate)
	}
	return rates
}

// EstimateGrowth is the median period-over-period rate clamped to bounds.
// The median keeps a single spike from dominating the estimate.
func EstimateGrowth(values []float64, bounds GrowthBounds) float64 {
	rates := PeriodRates(values)
	if len(rates) == 0 {
		return bounds.Clamp(bounds.Default)
	}
	return bounds.Clamp(Median(rates))
}

// Median of xs; zero for an empty slice. xs is not modified.
func Median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func stdDev(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	m := mean(xs)
	var sum float64
	for _, x := range xs {
		sum += (x - m) * (x - m)
	}
	return math.Sqrt(sum / float64(len(xs)))
}
