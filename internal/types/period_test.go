package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPeriodKeys(t *testing.T) {
	ts := time.Date(2024, time.May, 15, 13, 45, 0, 0, time.UTC) // Wednesday

	tests := []struct {
		res  Resolution
		want string
	}{
		{ResolutionHourly, "2024-05-15 13:00"},
		{ResolutionDaily, "2024-05-15"},
		{ResolutionWeekly, "2024-05-13 to 2024-05-19"},
		{ResolutionMonthly, "2024-05"},
		{ResolutionQuarterly, "2024-Q2"},
		{ResolutionYearly, "2024"},
	}

	for _, tt := range tests {
		t.Run(string(tt.res), func(t *testing.T) {
			p := PeriodOf(ts, tt.res)
			assert.Equal(t, tt.want, p.Key())
			assert.True(t, p.Contains(ts))
			assert.False(t, p.Contains(p.End))

			parsed, err := ParsePeriod(tt.res, tt.want, time.UTC)
			require.NoError(t, err)
			assert.True(t, parsed.Start.Equal(p.Start))
			assert.True(t, parsed.End.Equal(p.End))
		})
	}
}

func TestParsePeriodRejectsMisaligned(t *testing.T) {
	_, err := ParsePeriod(ResolutionWeekly, "2024-05-14 to 2024-05-20", time.UTC)
	assert.Error(t, err)

	_, err = ParsePeriod(ResolutionWeekly, "2024-05-13", time.UTC)
	assert.Error(t, err)

	_, err = ParsePeriod(ResolutionQuarterly, "2024-Q5", time.UTC)
	assert.Error(t, err)

	_, err = ParsePeriod(Resolution("fortnightly"), "2024-05", time.UTC)
	assert.Error(t, err)
}

func TestPeriodsBetweenIsGapFree(t *testing.T) {
	start := time.Date(2023, time.November, 28, 10, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.March, 3, 18, 0, 0, 0, time.UTC)

	for _, res := range Resolutions() {
		t.Run(string(res), func(t *testing.T) {
			periods := PeriodsBetween(start, end, res)
			require.NotEmpty(t, periods)
			assert.Len(t, periods, CountPeriods(start, end, res))
			assert.True(t, periods[0].Contains(start))
			assert.True(t, periods[len(periods)-1].Contains(end))

			seen := map[string]bool{}
			for i, p := range periods {
				assert.False(t, seen[p.Key()], "duplicate key %s", p.Key())
				seen[p.Key()] = true
				if i > 0 {
					assert.True(t, periods[i-1].End.Equal(p.Start), "gap before %s", p.Key())
				}
			}
		})
	}
}

func TestCountPeriods(t *testing.T) {
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, 366, CountPeriods(start, end, ResolutionDaily))
	assert.Equal(t, 12, CountPeriods(start, end, ResolutionMonthly))
	assert.Equal(t, 4, CountPeriods(start, end, ResolutionQuarterly))
	assert.Equal(t, 1, CountPeriods(start, end, ResolutionYearly))
	assert.Equal(t, 0, CountPeriods(end, start, ResolutionDaily))
}

func TestResolutionCoarser(t *testing.T) {
	next, ok := ResolutionHourly.Coarser()
	assert.True(t, ok)
	assert.Equal(t, ResolutionDaily, next)

	_, ok = ResolutionYearly.Coarser()
	assert.False(t, ok)

	assert.True(t, ResolutionWeekly.Rank() < ResolutionMonthly.Rank())
	assert.Error(t, Resolution("minutely").Validate())
}
