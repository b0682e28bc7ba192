package timeseries

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateGrowthStaysInBounds(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0.02},
		{name: "all zero", values: []float64{0, 0, 0, 0}, want: 0.02},
		{name: "single point", values: []float64{0, 150, 0}, want: 0.02},
		{name: "flat", values: []float64{100, 100, 100, 100}, want: 0},
		{name: "exponential spike", values: []float64{1, 10, 100, 1000, 10000}, want: 0.2},
		{name: "collapse", values: []float64{1000, 100, 10, 1}, want: -0.2},
		{name: "one outlier", values: []float64{100, 100, 100, 5000, 100, 100}, want: 0},
		{name: "non finite", values: []float64{math.NaN(), math.Inf(1), 100, 110}, want: 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EstimateGrowth(tt.values, ProjectionGrowthBounds)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, ProjectionGrowthBounds.Min)
			assert.LessOrEqual(t, got, ProjectionGrowthBounds.Max)

			long := EstimateGrowth(tt.values, LongHorizonGrowthBounds)
			assert.GreaterOrEqual(t, long, LongHorizonGrowthBounds.Min)
			assert.LessOrEqual(t, long, LongHorizonGrowthBounds.Max)
		})
	}
}

func TestPeriodRatesSkipZeroBuckets(t *testing.T) {
	rates := PeriodRates([]float64{100, 0, 0, 150, 0, 75})
	assert.Equal(t, []float64{0.5, -0.5}, rates)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 2.0, Median([]float64{3, 1, 2}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))

	in := []float64{3, 1, 2}
	Median(in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestClampHandlesNaN(t *testing.T) {
	assert.Equal(t, 0.01, LongHorizonGrowthBounds.Clamp(math.NaN()))
	assert.Equal(t, 0.5, LongHorizonGrowthBounds.Clamp(3))
}
