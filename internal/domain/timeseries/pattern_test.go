package timeseries

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeWeekdayPattern(t *testing.T) {
	// two weeks starting Wednesday May 1st; Saturdays sell triple
	entries := make([]Entry, 0, 14)
	for i := 0; i < 14; i++ {
		ts := day(1).AddDate(0, 0, i)
		amount := int64(100)
		if ts.Weekday() == time.Saturday {
			amount = 300
		}
		entries = append(entries, Entry{Timestamp: ts, Amount: decimal.NewFromInt(amount)})
	}
	points := Aggregate(entries, types.ResolutionDaily, types.DateRange{Start: day(1), End: day(14)}, time.UTC)

	pattern := AnalyzePattern(points, types.CycleUnitWeekday)
	require.Len(t, pattern.Indices, 7)
	assert.True(t, pattern.Detected)
	assert.Equal(t, "Saturday", pattern.Strongest)
	assert.InDelta(t, 300.0/(1800.0/14.0), pattern.StrongestIndex, 1e-9)
	assert.Equal(t, "Sunday", pattern.Labels[0])
	assert.InDelta(t, pattern.StrongestIndex, pattern.Factor(day(4)), 1e-9)
}

func TestAnalyzePatternNeutralCases(t *testing.T) {
	t.Run("flat series", func(t *testing.T) {
		pattern := AnalyzePattern(flatDaily(14, 50), types.CycleUnitWeekday)
		assert.False(t, pattern.Detected)
		for _, idx := range pattern.Indices {
			assert.InDelta(t, 1, idx, 1e-9)
		}
	})

	t.Run("unobserved months stay neutral", func(t *testing.T) {
		start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
		points := Aggregate([]Entry{
			{Timestamp: start, Amount: decimal.NewFromInt(10)},
			{Timestamp: start.AddDate(0, 1, 0), Amount: decimal.NewFromInt(30)},
		}, types.ResolutionMonthly, types.DateRange{Start: start, End: start.AddDate(0, 2, -1)}, time.UTC)

		pattern := AnalyzePattern(points, types.CycleUnitMonth)
		require.Len(t, pattern.Indices, 12)
		assert.InDelta(t, 0.5, pattern.Indices[0], 1e-9)
		assert.InDelta(t, 1.5, pattern.Indices[1], 1e-9)
		assert.Equal(t, 1.0, pattern.Indices[11])
		assert.Equal(t, "February", pattern.Strongest)
		assert.Equal(t, "January", pattern.Weakest)
	})

	t.Run("all zero", func(t *testing.T) {
		pattern := AnalyzePattern(flatDaily(7, 0), types.CycleUnitWeekday)
		assert.False(t, pattern.Detected)
		assert.Empty(t, pattern.Strongest)
	})

	t.Run("empty", func(t *testing.T) {
		pattern := AnalyzePattern(nil, types.CycleUnitMonth)
		assert.Equal(t, 1.0, pattern.Factor(day(1)))
	})
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   types.TrendDirection
	}{
		{name: "empty", values: nil, want: types.TrendStable},
		{name: "flat", values: []float64{100, 100, 100, 100}, want: types.TrendStable},
		{name: "growing", values: []float64{100, 110, 121, 133.1}, want: types.TrendIncreasing},
		{name: "shrinking", values: []float64{100, 90, 81, 72.9}, want: types.TrendDecreasing},
		{name: "volatile", values: []float64{100, 300, 50, 400, 20}, want: types.TrendVolatile},
		{name: "two rates are not enough for volatility", values: []float64{100, 300, 50}, want: types.TrendIncreasing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyTrend(tt.values)
			assert.Equal(t, tt.want, got.Direction)
			assert.GreaterOrEqual(t, got.MedianRate, LongHorizonGrowthBounds.Min)
			assert.LessOrEqual(t, got.MedianRate, LongHorizonGrowthBounds.Max)
		})
	}
}
