package timeseries

import (
	"testing"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/shopspring/decimal"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateIsGapFree(t *testing.T) {
	window := types.DateRange{Start: day(1), End: day(10).Add(23 * time.Hour)}
	entries := []Entry{
		{Timestamp: day(2).Add(3 * time.Hour), Amount: decimal.NewFromFloat(10.25)},
		{Timestamp: day(2).Add(20 * time.Hour), Amount: decimal.NewFromFloat(4.75)},
		{Timestamp: day(7), Amount: decimal.NewFromInt(30)},
		{Timestamp: time.Time{}, Amount: decimal.NewFromInt(999)},
		{Timestamp: day(20), Amount: decimal.NewFromInt(999)},
	}

	points := Aggregate(entries, types.ResolutionDaily, window, time.UTC)
	require.Len(t, points, 10, spew.Sdump(Keys(points)))

	for i, p := range points {
		assert.Equal(t, day(i+1).Format("2006-01-02"), p.Period)
		assert.False(t, p.IsProjected)
		require.NotNil(t, p.SampleCount)
	}

	assert.True(t, points[1].Value.Equal(decimal.NewFromInt(15)), points[1].Value.String())
	assert.Equal(t, 2, *points[1].SampleCount)
	assert.True(t, points[6].Value.Equal(decimal.NewFromInt(30)))
	assert.True(t, points[0].Value.IsZero())
	assert.Equal(t, 2, NonEmpty(points))
}

func TestAggregateWeeklyUsesMondayBuckets(t *testing.T) {
	window := types.DateRange{Start: day(1), End: day(31)}
	entries := []Entry{
		{Timestamp: day(5), Amount: decimal.NewFromInt(5)}, // Sunday
		{Timestamp: day(6), Amount: decimal.NewFromInt(7)}, // Monday
	}

	points := Aggregate(entries, types.ResolutionWeekly, window, time.UTC)
	require.NotEmpty(t, points)
	assert.Equal(t, "2024-04-29 to 2024-05-05", points[0].Period)
	assert.True(t, points[0].Value.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "2024-05-06 to 2024-05-12", points[1].Period)
	assert.True(t, points[1].Value.Equal(decimal.NewFromInt(7)))

	for i := 1; i < len(points); i++ {
		assert.True(t, points[i].PeriodStart.Equal(points[i-1].PeriodEnd), "gap before %s", points[i].Period)
	}
}

func TestAggregateHonoursLocation(t *testing.T) {
	loc := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC on May 1st is already May 2nd in IST
	entries := []Entry{{Timestamp: time.Date(2024, time.May, 1, 20, 0, 0, 0, time.UTC), Amount: decimal.NewFromInt(1)}}
	window := types.DateRange{Start: time.Date(2024, time.May, 1, 0, 0, 0, 0, loc), End: time.Date(2024, time.May, 3, 0, 0, 0, 0, loc)}

	points := Aggregate(entries, types.ResolutionDaily, window, loc)
	require.Len(t, points, 3)
	assert.Equal(t, "2024-05-02", points[1].Period)
	assert.True(t, points[1].Value.Equal(decimal.NewFromInt(1)))
}

func TestAggregateAdaptive(t *testing.T) {
	window := types.DateRange{Start: day(1), End: day(1).AddDate(0, 3, 0)}
	entries := []Entry{{Timestamp: day(15), Amount: decimal.NewFromInt(12)}}

	t.Run("coarsens past the bucket cap", func(t *testing.T) {
		points, res, err := AggregateAdaptive(entries, types.ResolutionHourly, window, time.UTC, DefaultMaxBuckets)
		require.NoError(t, err)
		assert.Equal(t, types.ResolutionDaily, res)
		assert.Equal(t, types.CountPeriods(window.Start, window.End, types.ResolutionDaily), len(points))
	})

	t.Run("keeps requested resolution when it fits", func(t *testing.T) {
		_, res, err := AggregateAdaptive(entries, types.ResolutionWeekly, window, time.UTC, 0)
		require.NoError(t, err)
		assert.Equal(t, types.ResolutionWeekly, res)
	})

	t.Run("empty data is insufficient", func(t *testing.T) {
		points, _, err := AggregateAdaptive(nil, types.ResolutionDaily, window, time.UTC, DefaultMaxBuckets)
		require.Error(t, err)
		assert.Nil(t, points)
		assert.True(t, ierr.IsInsufficientData(err))
	})

	t.Run("rejects unknown resolution", func(t *testing.T) {
		_, _, err := AggregateAdaptive(entries, types.Resolution("fortnightly"), window, time.UTC, 0)
		require.Error(t, err)
		assert.True(t, ierr.IsValidation(err))
	})
}

func TestSelectResolution(t *testing.T) {
	projection := map[int]types.Resolution{
		0:   types.ResolutionMonthly,
		7:   types.ResolutionDaily,
		14:  types.ResolutionDaily,
		15:  types.ResolutionWeekly,
		90:  types.ResolutionWeekly,
		91:  types.ResolutionMonthly,
		365: types.ResolutionMonthly,
	}
	for days, want := range projection {
		assert.Equal(t, want, SelectProjectionResolution(days), "projection days=%d", days)
	}

	trend := map[int]types.Resolution{
		0:    types.ResolutionMonthly,
		1:    types.ResolutionHourly,
		2:    types.ResolutionHourly,
		31:   types.ResolutionDaily,
		180:  types.ResolutionWeekly,
		730:  types.ResolutionMonthly,
		1825: types.ResolutionQuarterly,
		1826: types.ResolutionYearly,
	}
	for days, want := range trend {
		assert.Equal(t, want, SelectTrendResolution(days), "trend days=%d", days)
	}
}
