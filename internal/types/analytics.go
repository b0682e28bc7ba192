package types

import (
	"github.com/samber/lo"
	ierr "github.com/storepulse/storepulse/internal/errors"
)

// ConfidenceTier ranks association rules; bundles are filtered by a minimum tier.
type ConfidenceTier string

const (
	ConfidenceTierLow    ConfidenceTier = "low"
	ConfidenceTierMedium ConfidenceTier = "medium"
	ConfidenceTierHigh   ConfidenceTier = "high"
)

var confidenceTiers = []ConfidenceTier{
	ConfidenceTierLow,
	ConfidenceTierMedium,
	ConfidenceTierHigh,
}

func (t ConfidenceTier) Validate() error {
	if !lo.Contains(confidenceTiers, t) {
		return ierr.NewErrorf("invalid confidence tier: %s", t).
			WithHint("Confidence must be one of low, medium, high").
			WithReportableDetails(map[string]interface{}{
				"allowed": confidenceTiers,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Rank orders tiers: low < medium < high. Unknown tiers rank -1.
func (t ConfidenceTier) Rank() int {
	return lo.IndexOf(confidenceTiers, t)
}

// AtLeast reports whether t is as strict as min or stricter.
func (t ConfidenceTier) AtLeast(min ConfidenceTier) bool {
	return t.Rank() >= 0 && t.Rank() >= min.Rank()
}

// TrendDirection is the label produced by the trend classifier.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
	TrendVolatile   TrendDirection = "volatile"
)

// CycleUnit selects the seasonal cycle analysed by the pattern analyzer.
type CycleUnit string

const (
	CycleUnitWeekday CycleUnit = "weekday"
	CycleUnitMonth   CycleUnit = "month"
)

// ProjectionStrategy records which model produced the projected points.
type ProjectionStrategy string

const (
	ProjectionStrategySparse          ProjectionStrategy = "sparse_compounding"
	ProjectionStrategyDailySeasonal   ProjectionStrategy = "daily_seasonal"
	ProjectionStrategyWeeklyMovingAvg ProjectionStrategy = "weekly_moving_average"
	ProjectionStrategyMonthlySeasonal ProjectionStrategy = "monthly_seasonal"
	ProjectionStrategyMonthlyCAGR     ProjectionStrategy = "monthly_cagr"
)
