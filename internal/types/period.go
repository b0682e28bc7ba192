package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	ierr "github.com/storepulse/storepulse/internal/errors"
)

const (
	hourlyKeyLayout  = "2006-01-02 15:00"
	dailyKeyLayout   = "2006-01-02"
	monthlyKeyLayout = "2006-01"
	yearlyKeyLayout  = "2006"
	weeklyKeySep     = " to "
)

// Period is a tagged bucket: the resolution travels with the raw bounds so the
// label never has to be guessed from its shape. Start is inclusive, End is
// exclusive and both are expressed in the bucketing location.
type Period struct {
	Resolution Resolution
	Start      time.Time
	End        time.Time
}

// PeriodOf returns the period of resolution res containing t. The location of
// t decides calendar boundaries.
func PeriodOf(t time.Time, res Resolution) Period {
	start := truncate(t, res)
	return Period{Resolution: res, Start: start, End: advance(start, res)}
}

func truncate(t time.Time, res Resolution) time.Time {
	loc := t.Location()
	y, m, d := t.Date()
	switch res {
	case ResolutionHourly:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, loc)
	case ResolutionWeekly:
		// weeks start on Monday
		offset := (int(t.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
	case ResolutionMonthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, loc)
	case ResolutionQuarterly:
		q := (int(m) - 1) / 3
		return time.Date(y, time.Month(q*3+1), 1, 0, 0, 0, 0, loc)
	case ResolutionYearly:
		return time.Date(y, time.January, 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, loc)
	}
}

func advance(start time.Time, res Resolution) time.Time {
	switch res {
	case ResolutionHourly:
		return start.Add(time.Hour)
	case ResolutionWeekly:
		return start.AddDate(0, 0, 7)
	case ResolutionMonthly:
		return start.AddDate(0, 1, 0)
	case ResolutionQuarterly:
		return start.AddDate(0, 3, 0)
	case ResolutionYearly:
		return start.AddDate(1, 0, 0)
	default:
		return start.AddDate(0, 0, 1)
	}
}

// Next returns the period immediately after p.
func (p Period) Next() Period {
	return Period{Resolution: p.Resolution, Start: p.End, End: advance(p.End, p.Resolution)}
}

// Contains reports whether t falls inside [Start, End).
func (p Period) Contains(t time.Time) bool {
	t = t.In(p.Start.Location())
	return !t.Before(p.Start) && t.Before(p.End)
}

// Key is the canonical label of the period.
func (p Period) Key() string {
	switch p.Resolution {
	case ResolutionHourly:
		return p.Start.Format(hourlyKeyLayout)
	case ResolutionWeekly:
		last := p.End.AddDate(0, 0, -1)
		return p.Start.Format(dailyKeyLayout) + weeklyKeySep + last.Format(dailyKeyLayout)
	case ResolutionMonthly:
		return p.Start.Format(monthlyKeyLayout)
	case ResolutionQuarterly:
		return fmt.Sprintf("%d-Q%d", p.Start.Year(), (int(p.Start.Month())-1)/3+1)
	case ResolutionYearly:
		return p.Start.Format(yearlyKeyLayout)
	default:
		return p.Start.Format(dailyKeyLayout)
	}
}

func (p Period) String() string {
	return p.Key()
}

// ParsePeriod rebuilds a period from its canonical label. The resolution is
// always supplied by the caller.
func ParsePeriod(res Resolution, key string, loc *time.Location) (Period, error) {
	if loc == nil {
		loc = time.UTC
	}

	var (
		start time.Time
		err   error
	)

	switch res {
	case ResolutionHourly:
		start, err = time.ParseInLocation(hourlyKeyLayout, key, loc)
	case ResolutionDaily:
		start, err = time.ParseInLocation(dailyKeyLayout, key, loc)
	case ResolutionWeekly:
		bounds := strings.SplitN(key, weeklyKeySep, 2)
		if len(bounds) != 2 {
			err = fmt.Errorf("weekly key must contain %q", strings.TrimSpace(weeklyKeySep))
			break
		}
		start, err = time.ParseInLocation(dailyKeyLayout, bounds[0], loc)
		if err == nil {
			var last time.Time
			last, err = time.ParseInLocation(dailyKeyLayout, bounds[1], loc)
			if err == nil && !last.Equal(start.AddDate(0, 0, 6)) {
				err = fmt.Errorf("weekly key must span 7 days")
			}
		}
	case ResolutionMonthly:
		start, err = time.ParseInLocation(monthlyKeyLayout, key, loc)
	case ResolutionQuarterly:
		start, err = parseQuarter(key, loc)
	case ResolutionYearly:
		start, err = time.ParseInLocation(yearlyKeyLayout, key, loc)
	default:
		return Period{}, res.Validate()
	}

	if err != nil {
		return Period{}, ierr.WithError(err).
			WithHintf("Invalid %s period %q", res, key).
			Mark(ierr.ErrValidation)
	}

	p := PeriodOf(start, res)
	if !p.Start.Equal(start) {
		return Period{}, ierr.NewErrorf("period %q is not aligned to a %s boundary", key, res).
			WithHint("Period label is not aligned to its resolution").
			Mark(ierr.ErrValidation)
	}
	return p, nil
}

func parseQuarter(key string, loc *time.Location) (time.Time, error) {
	parts := strings.SplitN(key, "-Q", 2)
	if len(parts) != 2 {
		return time.Time{}, fmt.Errorf("quarter key must look like 2006-Q1")
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, err
	}
	q, err := strconv.Atoi(parts[1])
	if err != nil || q < 1 || q > 4 {
		return time.Time{}, fmt.Errorf("quarter must be between 1 and 4")
	}
	return time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, loc), nil
}

// CountPeriods returns how many periods of res cover [start, end], both ends
// inclusive. It is computed arithmetically so callers can check bucket caps
// before materialising anything.
func CountPeriods(start, end time.Time, res Resolution) int {
	if end.Before(start) {
		return 0
	}
	first := truncate(start, res)
	last := truncate(end.In(start.Location()), res)

	switch res {
	case ResolutionHourly:
		return int(last.Sub(first)/time.Hour) + 1
	case ResolutionDaily:
		return daysBetween(first, last) + 1
	case ResolutionWeekly:
		return daysBetween(first, last)/7 + 1
	case ResolutionMonthly:
		return (last.Year()-first.Year())*12 + int(last.Month()) - int(first.Month()) + 1
	case ResolutionQuarterly:
		return (last.Year()-first.Year())*4 + (int(last.Month())-1)/3 - (int(first.Month())-1)/3 + 1
	case ResolutionYearly:
		return last.Year() - first.Year() + 1
	default:
		return 0
	}
}

// PeriodsBetween returns the ordered, gap-free list of periods covering
// [start, end].
func PeriodsBetween(start, end time.Time, res Resolution) []Period {
	n := CountPeriods(start, end, res)
	if n <= 0 {
		return nil
	}
	periods := make([]Period, 0, n)
	p := PeriodOf(start, res)
	for i := 0; i < n; i++ {
		periods = append(periods, p)
		p = p.Next()
	}
	return periods
}

func daysBetween(a, b time.Time) int {
	return int(math.Round(b.Sub(a).Hours() / 24))
}
