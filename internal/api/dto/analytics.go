package dto

import (
	"github.com/storepulse/storepulse/internal/domain/basket"
	"github.com/storepulse/storepulse/internal/domain/timeseries"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/storepulse/storepulse/internal/validator"
)

// MaxTimeRangeDays bounds the look back window of every analytics request.
const MaxTimeRangeDays = 3650

// DefaultConfidenceThreshold applies when an optimal products request omits one.
const DefaultConfidenceThreshold = 0.5

// RevenueProjectionRequest asks for the actual revenue series of the last
// TimeRangeDays days, or of all time when zero, plus its projection.
type RevenueProjectionRequest struct {
	TimeRangeDays int    `json:"time_range_days" form:"time_range_days" validate:"gte=0,lte=3650"`
	UserID        string `json:"user_id,omitempty" form:"user_id"`
}

func (r *RevenueProjectionRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type RevenueProjectionResponse struct {
	Actual     []timeseries.Point       `json:"actual"`
	Projected  []timeseries.Point       `json:"projected"`
	TodayIndex int                      `json:"today_index"`
	Resolution types.Resolution         `json:"resolution"`
	GrowthRate float64                  `json:"growth_rate"`
	Strategy   types.ProjectionStrategy `json:"strategy"`
	Window     types.DateRange          `json:"window"`
	AllTime    bool                     `json:"all_time"`
}

type SalesRecommendationsRequest struct {
	TimeRangeDays int                  `json:"time_range_days" form:"time_range_days" validate:"gte=0,lte=3650"`
	UserID        string               `json:"user_id,omitempty" form:"user_id"`
	MinConfidence types.ConfidenceTier `json:"min_confidence,omitempty" form:"min_confidence"`
}

func (r *SalesRecommendationsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.MinConfidence != "" {
		return r.MinConfidence.Validate()
	}
	return nil
}

// GetMinConfidence defaults to the loosest tier.
func (r *SalesRecommendationsRequest) GetMinConfidence() types.ConfidenceTier {
	if r.MinConfidence == "" {
		return types.ConfidenceTierLow
	}
	return r.MinConfidence
}

type SalesRecommendationsResponse struct {
	DayOfWeekTrends []*basket.DayOfWeekTrend `json:"day_of_week_trends"`
	ProductBundles  []*basket.Bundle         `json:"product_bundles"`
	Window          types.DateRange          `json:"window"`
}

type OptimalProductsRequest struct {
	TimeRangeDays       int      `json:"time_range_days" form:"time_range_days" validate:"gte=0,lte=3650"`
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty" form:"confidence_threshold"`
	UserID              string   `json:"user_id,omitempty" form:"user_id"`
	Limit               int      `json:"limit,omitempty" form:"limit" validate:"gte=0,lte=100"`
}

func (r *OptimalProductsRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ConfidenceThreshold != nil && (*r.ConfidenceThreshold < 0 || *r.ConfidenceThreshold > 1) {
		return ierr.NewError("confidence_threshold must be between 0 and 1").
			WithHint("Confidence threshold must be between 0 and 1").
			WithReportableDetails(map[string]interface{}{
				"confidence_threshold": *r.ConfidenceThreshold,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *OptimalProductsRequest) GetConfidenceThreshold() float64 {
	if r.ConfidenceThreshold == nil {
		return DefaultConfidenceThreshold
	}
	return *r.ConfidenceThreshold
}

type OptimalProductsResponse struct {
	Items               []*basket.OptimalProduct `json:"items"`
	ConfidenceThreshold float64                  `json:"confidence_threshold"`
	Window              types.DateRange          `json:"window"`
}

type SalesTrendRequest struct {
	TimeRangeDays int    `json:"time_range_days" form:"time_range_days" validate:"gte=0,lte=3650"`
	UserID        string `json:"user_id,omitempty" form:"user_id"`
}

func (r *SalesTrendRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type SalesTrendResponse struct {
	Actual         []timeseries.Point       `json:"actual"`
	Resolution     types.Resolution         `json:"resolution"`
	Trend          timeseries.TrendAnalysis `json:"trend"`
	WeekdayPattern timeseries.Pattern       `json:"weekday_pattern"`
	MonthPattern   timeseries.Pattern       `json:"month_pattern"`
	GrowthRate     float64                  `json:"growth_rate"`
	Window         types.DateRange          `json:"window"`
}
