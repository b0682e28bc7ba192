// Package timeseries turns timestamped amounts into gap-free period buckets and
// derives growth, seasonality, trend and projections from them.
package timeseries

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/types"
)

// Entry is one timestamped amount fed into the aggregator.
type Entry struct {
	Timestamp time.Time
	Amount    decimal.Decimal
}

// Point is a single bucket of an actual or projected series.
type Point struct {
	Period      string          `json:"period"`
	PeriodStart time.Time       `json:"period_start"`
	PeriodEnd   time.Time       `json:"period_end"`
	Value       decimal.Decimal `json:"value"`
	IsProjected bool            `json:"is_projected"`
	SampleCount *int            `json:"sample_count,omitempty"`

	Bucket types.Period `json:"-"`
}

func newPoint(p types.Period, value decimal.Decimal, projected bool) Point {
	return Point{
		Period:      p.Key(),
		PeriodStart: p.Start,
		PeriodEnd:   p.End,
		Value:       value,
		IsProjected: projected,
		Bucket:      p,
	}
}

// Values extracts the float values used by the statistical helpers.
func Values(points []Point) []float64 {
	return lo.Map(points, func(p Point, _ int) float64 {
		return types.ToFloat(p.Value)
	})
}

// Keys returns the period labels in series order.
func Keys(points []Point) []string {
	return lo.Map(points, func(p Point, _ int) string {
		return p.Period
	})
}

// NonEmpty counts buckets that received at least one record.
func NonEmpty(points []Point) int {
	return lo.CountBy(points, func(p Point) bool {
		return p.SampleCount != nil && *p.SampleCount > 0
	})
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	return lo.Sum(xs) / float64(len(xs))
}

func trailing(xs []float64, n int) []float64 {
	if n >= len(xs) {
		return xs
	}
	return xs[len(xs)-n:]
}
