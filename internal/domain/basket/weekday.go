package basket

import (
	"sort"
	"time"

	"github.com/storepulse/storepulse/internal/domain/sale"
)

// DefaultMinWeekdayUnits is the unit floor for a product to get a weekday trend.
const DefaultMinWeekdayUnits = 3

type WeekdaySales struct {
	Day              string  `json:"day"`
	Sales            int     `json:"sales"`
	PercentOfAverage float64 `json:"percent_of_average"`
}

// DayOfWeekTrend shows how a product's units spread across the week.
type DayOfWeekTrend struct {
	ProductID         string         `json:"product_id"`
	ProductName       string         `json:"product_name"`
	BestDay           string         `json:"best_day"`
	BestDayIndex      int            `json:"best_day_index"`
	AverageDailySales float64        `json:"average_daily_sales"`
	TotalUnits        int            `json:"total_units"`
	Days              []WeekdaySales `json:"days"`
}

func (t *DayOfWeekTrend) peakPercent() float64 {
	return t.Days[t.BestDayIndex].PercentOfAverage
}

// AnalyzeDayOfWeek buckets the units of every live product by weekday in loc.
// Products selling fewer than minUnits units are left out.
func AnalyzeDayOfWeek(sales []*sale.Sale, loc *time.Location, minUnits int) []*DayOfWeekTrend {
	if loc == nil {
		loc = time.UTC
	}
	if minUnits <= 0 {
		minUnits = DefaultMinWeekdayUnits
	}

	units := make(map[string]*[7]int)
	names := make(map[string]string)
	for _, s := range sales {
		if s == nil || s.CreatedAt.IsZero() {
			continue
		}
		weekday := s.CreatedAt.In(loc).Weekday()
		for _, item := range s.ValidItems() {
			id := item.Product.ID
			counts, ok := units[id]
			if !ok {
				counts = &[7]int{}
				units[id] = counts
			}
			counts[weekday] += item.Quantity
			if item.Product.Name != "" {
				names[id] = item.Product.Name
			}
		}
	}

	trends := make([]*DayOfWeekTrend, 0, len(units))
	for id, counts := range units {
		total := 0
		for _, c := range counts {
			total += c
		}
		if total < minUnits {
			continue
		}

		name := names[id]
		if name == "" {
			name = id
		}
		avg := float64(total) / 7
		trend := &DayOfWeekTrend{
			ProductID:         id,
			ProductName:       name,
			AverageDailySales: avg,
			TotalUnits:        total,
			Days:              make([]WeekdaySales, 7),
		}
		for d := time.Sunday; d <= time.Saturday; d++ {
			trend.Days[d] = WeekdaySales{
				Day:              d.String(),
				Sales:            counts[d],
				PercentOfAverage: float64(counts[d]) / avg * 100,
			}
			if counts[d] > counts[trend.BestDayIndex] {
				trend.BestDayIndex = int(d)
			}
		}
		trend.BestDay = time.Weekday(trend.BestDayIndex).String()
		trends = append(trends, trend)
	}

	sort.Slice(trends, func(i, j int) bool {
		a, b := trends[i], trends[j]
		if a.peakPercent() != b.peakPercent() {
			return a.peakPercent() > b.peakPercent()
		}
		if a.TotalUnits != b.TotalUnits {
			return a.TotalUnits > b.TotalUnits
		}
		if a.ProductName != b.ProductName {
			return a.ProductName < b.ProductName
		}
		return a.ProductID < b.ProductID
	})
	return trends
}
