package timeseries

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/storepulse/storepulse/internal/types"
)

type bucketAcc struct {
	sum   decimal.Decimal
	count int
}

// Aggregate buckets entries at resolution res over window. Every period in the
// window is present exactly once, in order; periods without entries carry
// zero. Entries with a zero timestamp or outside the window are skipped.
func Aggregate(entries []Entry, res types.Resolution, window types.DateRange, loc *time.Location) []Point {
	if loc == nil {
		loc = time.UTC
	}
	start := window.Start.In(loc)
	end := window.End.In(loc)

	periods := types.PeriodsBetween(start, end, res)
	if len(periods) == 0 {
		return nil
	}

	accs := make(map[string]*bucketAcc, len(periods))
	for _, e := range entries {
		if e.Timestamp.IsZero() {
			continue
		}
		ts := e.Timestamp.In(loc)
		if ts.Before(start) || ts.After(end) {
			continue
		}
		key := types.PeriodOf(ts, res).Key()
		acc, ok := accs[key]
		if !ok {
			acc = &bucketAcc{}
			accs[key] = acc
		}
		acc.sum = acc.sum.Add(e.Amount)
		acc.count++
	}

	points := make([]Point, 0, len(periods))
	for _, p := range periods {
		value := decimal.Zero
		count := 0
		if acc, ok := accs[p.Key()]; ok {
			value = acc.sum
			count = acc.count
		}
		point := newPoint(p, value, false)
		point.SampleCount = &count
		points = append(points, point)
	}
	return points
}
