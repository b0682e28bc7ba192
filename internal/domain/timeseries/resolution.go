package timeseries

import (
	"time"

	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
)

// DefaultMaxBuckets bounds how many buckets the adaptive aggregator will
// materialise before stepping to a coarser resolution.
const DefaultMaxBuckets = 1000

// SelectProjectionResolution maps a range length in days to the three-level
// scheme used for projections. 0 means all-time.
func SelectProjectionResolution(days int) types.Resolution {
	switch {
	case days <= 0:
		return types.ResolutionMonthly
	case days <= 14:
		return types.ResolutionDaily
	case days <= 90:
		return types.ResolutionWeekly
	default:
		return types.ResolutionMonthly
	}
}

// SelectTrendResolution maps a range length in days to the six-level scheme
// used for historical trend analysis. All-time callers pass the span between
// the oldest and newest sale.
func SelectTrendResolution(days int) types.Resolution {
	switch {
	case days <= 0:
		return types.ResolutionMonthly
	case days <= 2:
		return types.ResolutionHourly
	case days <= 31:
		return types.ResolutionDaily
	case days <= 180:
		return types.ResolutionWeekly
	case days <= 730:
		return types.ResolutionMonthly
	case days <= 1825:
		return types.ResolutionQuarterly
	default:
		return types.ResolutionYearly
	}
}

// SpanDays is the number of calendar days touched by window, at least 1.
func SpanDays(window types.DateRange) int {
	if window.End.Before(window.Start) {
		return 1
	}
	days := int(window.End.Sub(window.Start)/(24*time.Hour)) + 1
	if days < 1 {
		return 1
	}
	return days
}

// AggregateAdaptive aggregates at res and coarsens while the window would need
// more than maxBuckets buckets or no bucket received data. It fails with
// ErrInsufficientData only when yearly buckets are still empty.
func AggregateAdaptive(entries []Entry, res types.Resolution, window types.DateRange, loc *time.Location, maxBuckets int) ([]Point, types.Resolution, error) {
	if err := res.Validate(); err != nil {
		return nil, res, err
	}
	if maxBuckets <= 0 {
		maxBuckets = DefaultMaxBuckets
	}
	if loc == nil {
		loc = time.UTC
	}

	current := res
	for {
		count := types.CountPeriods(window.Start.In(loc), window.End.In(loc), current)
		if count > 0 && count <= maxBuckets {
			points := Aggregate(entries, current, window, loc)
			if NonEmpty(points) > 0 {
				return points, current, nil
			}
		}

		next, ok := current.Coarser()
		if !ok {
			break
		}
		current = next
	}

	return nil, current, ierr.NewError("no sales found at any resolution").
		WithHint("Not enough sales data for this time range. Import more sales to see trends.").
		WithReportableDetails(map[string]interface{}{
			"requested_resolution": res,
			"window_start":         window.Start,
			"window_end":           window.End,
		}).
		Mark(ierr.ErrInsufficientData)
}
