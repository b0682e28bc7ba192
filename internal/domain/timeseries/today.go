package timeseries

import "time"

// TodayIndex locates the actual bucket containing now. When now lies outside
// the series the last index is returned; an empty series yields -1.
func TodayIndex(points []Point, now time.Time) int {
	if len(points) == 0 {
		return -1
	}
	for i, p := range points {
		if !now.Before(p.PeriodStart) && now.Before(p.PeriodEnd) {
			return i
		}
	}
	return len(points) - 1
}
