package export

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/storepulse/storepulse/internal/domain/basket"
	"github.com/storepulse/storepulse/internal/domain/timeseries"
	"github.com/storepulse/storepulse/internal/types"
)

const listSeparator = "|"

// PointRow is one bucket of an actual or projected series.
type PointRow struct {
	Period      string  `json:"period" csv:"period" parquet:"period"`
	PeriodStart string  `json:"period_start" csv:"period_start" parquet:"period_start"`
	PeriodEnd   string  `json:"period_end" csv:"period_end" parquet:"period_end"`
	Value       float64 `json:"value" csv:"value" parquet:"value"`
	Projected   bool    `json:"projected" csv:"projected" parquet:"projected"`
}

type BundleRow struct {
	ID              string  `json:"id" csv:"id" parquet:"id"`
	Name            string  `json:"name" csv:"name" parquet:"name"`
	ProductIDs      string  `json:"product_ids" csv:"product_ids" parquet:"product_ids"`
	BundlePrice     float64 `json:"bundle_price" csv:"bundle_price" parquet:"bundle_price"`
	IndividualPrice float64 `json:"individual_price" csv:"individual_price" parquet:"individual_price"`
	DiscountPercent float64 `json:"discount_percent" csv:"discount_percent" parquet:"discount_percent"`
	Tier            string  `json:"confidence_tier" csv:"confidence_tier" parquet:"confidence_tier"`
	Support         float64 `json:"support" csv:"support" parquet:"support"`
	Confidence      float64 `json:"confidence" csv:"confidence" parquet:"confidence"`
	Lift            float64 `json:"lift" csv:"lift" parquet:"lift"`
	Frequency       int64   `json:"frequency" csv:"frequency" parquet:"frequency"`
}

type DayOfWeekRow struct {
	ProductID         string  `json:"product_id" csv:"product_id" parquet:"product_id"`
	ProductName       string  `json:"product_name" csv:"product_name" parquet:"product_name"`
	BestDay           string  `json:"best_day" csv:"best_day" parquet:"best_day"`
	AverageDailySales float64 `json:"average_daily_sales" csv:"average_daily_sales" parquet:"average_daily_sales"`
	TotalUnits        int64   `json:"total_units" csv:"total_units" parquet:"total_units"`
}

type OptimalProductRow struct {
	Rank              int64   `json:"rank" csv:"rank" parquet:"rank"`
	ProductID         string  `json:"product_id" csv:"product_id" parquet:"product_id"`
	ProductName       string  `json:"product_name" csv:"product_name" parquet:"product_name"`
	Price             float64 `json:"price" csv:"price" parquet:"price"`
	Score             float64 `json:"score" csv:"score" parquet:"score"`
	BundleCount       int64   `json:"bundle_count" csv:"bundle_count" parquet:"bundle_count"`
	AverageConfidence float64 `json:"average_confidence" csv:"average_confidence" parquet:"average_confidence"`
	AverageLift       float64 `json:"average_lift" csv:"average_lift" parquet:"average_lift"`
	BestTier          string  `json:"best_tier" csv:"best_tier" parquet:"best_tier"`
}

// PointRows flattens the actual series followed by the projected one.
func PointRows(actual, projected []timeseries.Point) []PointRow {
	rows := make([]PointRow, 0, len(actual)+len(projected))
	for _, series := range [][]timeseries.Point{actual, projected} {
		for _, p := range series {
			rows = append(rows, PointRow{
				Period:      p.Period,
				PeriodStart: p.PeriodStart.Format(time.RFC3339),
				PeriodEnd:   p.PeriodEnd.Format(time.RFC3339),
				Value:       types.ToFloat(p.Value),
				Projected:   p.IsProjected,
			})
		}
	}
	return rows
}

func BundleRows(bundles []*basket.Bundle) []BundleRow {
	return lo.FilterMap(bundles, func(b *basket.Bundle, _ int) (BundleRow, bool) {
		if b == nil {
			return BundleRow{}, false
		}
		return BundleRow{
			ID:   b.ID,
			Name: b.Name,
			ProductIDs: strings.Join(lo.Map(b.Products, func(p basket.BundleProduct, _ int) string {
				return p.ID
			}), listSeparator),
			BundlePrice:     types.ToFloat(b.BundlePrice),
			IndividualPrice: types.ToFloat(b.IndividualPrice),
			DiscountPercent: types.ToFloat(b.DiscountPercent),
			Tier:            string(b.Tier),
			Support:         b.Support,
			Confidence:      b.Confidence,
			Lift:            b.Lift,
			Frequency:       int64(b.Frequency),
		}, true
	})
}

func DayOfWeekRows(trends []*basket.DayOfWeekTrend) []DayOfWeekRow {
	return lo.FilterMap(trends, func(t *basket.DayOfWeekTrend, _ int) (DayOfWeekRow, bool) {
		if t == nil {
			return DayOfWeekRow{}, false
		}
		return DayOfWeekRow{
			ProductID:         t.ProductID,
			ProductName:       t.ProductName,
			BestDay:           t.BestDay,
			AverageDailySales: t.AverageDailySales,
			TotalUnits:        int64(t.TotalUnits),
		}, true
	})
}

// OptimalProductRows keeps the ranking order; Rank starts at 1.
func OptimalProductRows(items []*basket.OptimalProduct) []OptimalProductRow {
	rows := make([]OptimalProductRow, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		rows = append(rows, OptimalProductRow{
			Rank:              int64(len(rows) + 1),
			ProductID:         item.ProductID,
			ProductName:       item.ProductName,
			Price:             types.ToFloat(item.Price),
			Score:             item.Score,
			BundleCount:       int64(item.BundleCount),
			AverageConfidence: item.AverageConfidence,
			AverageLift:       item.AverageLift,
			BestTier:          string(item.BestTier),
		})
	}
	return rows
}
