package service

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/samber/lo"
	"github.com/storepulse/storepulse/internal/api/dto"
	"github.com/storepulse/storepulse/internal/domain/basket"
	"github.com/storepulse/storepulse/internal/domain/sale"
	"github.com/storepulse/storepulse/internal/domain/timeseries"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/interfaces"
	"github.com/storepulse/storepulse/internal/types"
)

type AnalyticsService = interfaces.AnalyticsService

type analyticsService struct {
	ServiceParams
}

func NewAnalyticsService(params ServiceParams) AnalyticsService {
	return &analyticsService{
		ServiceParams: params,
	}
}

// analysisWindow is the resolved time range of one request.
type analysisWindow struct {
	types.DateRange
	// actual ends at the earlier of the window end and now
	actual  types.DateRange
	allTime bool
	now     time.Time
}

func (s *analyticsService) ComputeRevenueProjection(ctx context.Context, req *dto.RevenueProjectionRequest) (*dto.RevenueProjectionResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ping(ctx); err != nil {
		return nil, err
	}

	window := s.resolveWindow(ctx, req.TimeRangeDays, req.UserID)
	sales, err := s.listSales(ctx, window, req.UserID)
	if err != nil {
		return nil, err
	}

	requested := timeseries.SelectProjectionResolution(req.TimeRangeDays)
	actual, resolution, err := timeseries.AggregateAdaptive(
		toEntries(sales), requested, window.actual, s.location(), s.maxBuckets(),
	)
	if err != nil {
		return nil, err
	}

	values := timeseries.Values(actual)
	growth := timeseries.EstimateGrowth(values, timeseries.ProjectionGrowthBounds)
	horizon := projectionHorizon(req.TimeRangeDays, resolution, len(actual))

	projection := timeseries.Project(timeseries.ProjectionInput{
		Actual:            actual,
		Resolution:        resolution,
		Horizon:           horizon,
		Growth:            growth,
		LongHorizonGrowth: timeseries.EstimateGrowth(values, timeseries.LongHorizonGrowthBounds),
		Rand:              s.rand(),
	})

	s.Logger.WithContext(ctx).Infow("computed revenue projection",
		"time_range_days", req.TimeRangeDays,
		"requested_resolution", requested,
		"resolution", resolution,
		"actual_points", len(actual),
		"projected_points", len(projection.Points),
		"growth_rate", growth,
		"strategy", projection.Strategy,
	)

	return &dto.RevenueProjectionResponse{
		Actual:     actual,
		Projected:  projection.Points,
		TodayIndex: timeseries.TodayIndex(actual, window.now),
		Resolution: resolution,
		GrowthRate: growth,
		Strategy:   projection.Strategy,
		Window:     window.DateRange,
		AllTime:    window.allTime,
	}, nil
}

func (s *analyticsService) ComputeSalesRecommendations(ctx context.Context, req *dto.SalesRecommendationsRequest) (*dto.SalesRecommendationsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ping(ctx); err != nil {
		return nil, err
	}

	window := s.resolveWindow(ctx, req.TimeRangeDays, req.UserID)
	sales, err := s.listSales(ctx, window, req.UserID)
	if err != nil {
		return nil, err
	}

	trends := basket.AnalyzeDayOfWeek(sales, s.location(), s.Config.Analytics.MinWeekdayUnits)
	bundles := basket.MineBundles(sales, basket.MineOptions{
		MinTier:    req.GetMinConfidence(),
		MaxBundles: s.Config.Analytics.MaxBundles,
	})

	if len(trends) == 0 && len(bundles) == 0 {
		return nil, ierr.NewError("no product trends or bundles found").
			WithHint("Not enough sales data to build recommendations. Try a longer time range.").
			WithReportableDetails(map[string]interface{}{
				"time_range_days": req.TimeRangeDays,
				"min_confidence":  req.GetMinConfidence(),
				"sales":           len(sales),
			}).
			Mark(ierr.ErrInsufficientData)
	}

	s.Logger.WithContext(ctx).Infow("computed sales recommendations",
		"time_range_days", req.TimeRangeDays,
		"sales", len(sales),
		"trends", len(trends),
		"bundles", len(bundles),
	)

	return &dto.SalesRecommendationsResponse{
		DayOfWeekTrends: trends,
		ProductBundles:  bundles,
		Window:          window.DateRange,
	}, nil
}

func (s *analyticsService) ComputeOptimalProducts(ctx context.Context, req *dto.OptimalProductsRequest) (*dto.OptimalProductsResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	threshold := req.GetConfidenceThreshold()
	recommendations, err := s.ComputeSalesRecommendations(ctx, &dto.SalesRecommendationsRequest{
		TimeRangeDays: req.TimeRangeDays,
		UserID:        req.UserID,
		MinConfidence: types.ConfidenceTierLow,
	})
	if err != nil {
		if !ierr.IsInsufficientData(err) {
			return nil, err
		}
		s.Logger.WithContext(ctx).Infow("no data for optimal products, returning empty list",
			"time_range_days", req.TimeRangeDays,
		)
		return &dto.OptimalProductsResponse{
			Items:               []*basket.OptimalProduct{},
			ConfidenceThreshold: threshold,
		}, nil
	}

	return &dto.OptimalProductsResponse{
		Items:               basket.RankOptimalProducts(recommendations.ProductBundles, threshold, req.Limit),
		ConfidenceThreshold: threshold,
		Window:              recommendations.Window,
	}, nil
}

func (s *analyticsService) ComputeSalesTrend(ctx context.Context, req *dto.SalesTrendRequest) (*dto.SalesTrendResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := s.ping(ctx); err != nil {
		return nil, err
	}

	window := s.resolveWindow(ctx, req.TimeRangeDays, req.UserID)
	sales, err := s.listSales(ctx, window, req.UserID)
	if err != nil {
		return nil, err
	}

	days := req.TimeRangeDays
	if window.allTime {
		days = timeseries.SpanDays(window.actual)
	}
	actual, resolution, err := timeseries.AggregateAdaptive(
		toEntries(sales), timeseries.SelectTrendResolution(days), window.actual, s.location(), s.maxBuckets(),
	)
	if err != nil {
		return nil, err
	}

	values := timeseries.Values(actual)
	trend := timeseries.ClassifyTrend(values)

	s.Logger.WithContext(ctx).Infow("computed sales trend",
		"time_range_days", req.TimeRangeDays,
		"resolution", resolution,
		"points", len(actual),
		"direction", trend.Direction,
	)

	return &dto.SalesTrendResponse{
		Actual:         actual,
		Resolution:     resolution,
		Trend:          trend,
		WeekdayPattern: timeseries.AnalyzePattern(actual, types.CycleUnitWeekday),
		MonthPattern:   timeseries.AnalyzePattern(actual, types.CycleUnitMonth),
		GrowthRate:     timeseries.EstimateGrowth(values, timeseries.LongHorizonGrowthBounds),
		Window:         window.DateRange,
	}, nil
}

func (s *analyticsService) ping(ctx context.Context) error {
	if err := s.SaleRepo.Ping(ctx); err != nil {
		s.Logger.WithContext(ctx).Errorw("sales repository unreachable", "error", err)
		return ierr.WithError(err).
			WithHint("Unable to reach the sales database. Please try again later.").
			Mark(ierr.ErrConnectivity)
	}
	return nil
}

// resolveWindow turns a day count into a window ending now. Zero means all
// time, sized by the oldest and newest sale; when those are unavailable the
// window falls back to twelve months either side of now.
func (s *analyticsService) resolveWindow(ctx context.Context, days int, userID string) analysisWindow {
	now := s.now().In(s.location())
	w := analysisWindow{now: now}

	if days > 0 {
		w.DateRange = types.DateRange{Start: now.AddDate(0, 0, -days), End: now}
	} else {
		w.allTime = true
		bounds, err := s.SaleRepo.GetTimeBounds(ctx, userID)
		switch {
		case err != nil:
			s.Logger.WithContext(ctx).Warnw("failed to read sale time bounds, using default all-time window",
				"error", err,
				"user_id", userID,
			)
			w.DateRange = fallbackWindow(now)
		case bounds.IsEmpty():
			s.Logger.WithContext(ctx).Warnw("no sales found, using default all-time window",
				"user_id", userID,
			)
			w.DateRange = fallbackWindow(now)
		default:
			w.DateRange = types.DateRange{Start: bounds.Oldest.In(now.Location()), End: bounds.Newest.In(now.Location())}
		}
	}

	w.actual = w.DateRange
	if w.actual.End.After(now) {
		w.actual.End = now
	}
	return w
}

func fallbackWindow(now time.Time) types.DateRange {
	return types.DateRange{Start: now.AddDate(0, -12, 0), End: now.AddDate(0, 12, 0)}
}

func (s *analyticsService) listSales(ctx context.Context, window analysisWindow, userID string) ([]*sale.Sale, error) {
	sales, err := s.SaleRepo.List(ctx, types.NewSaleFilter(window.DateRange, userID))
	if err != nil {
		return nil, err
	}
	return lo.Filter(sales, func(sl *sale.Sale, _ int) bool {
		return sl != nil
	}), nil
}

func (s *analyticsService) location() *time.Location {
	return types.LoadLocation(s.Config.Analytics.Timezone)
}

func (s *analyticsService) maxBuckets() int {
	if s.Config.Analytics.MaxBuckets > 0 {
		return s.Config.Analytics.MaxBuckets
	}
	return timeseries.DefaultMaxBuckets
}

func (s *analyticsService) rand() *rand.Rand {
	if s.RandFactory == nil {
		return nil
	}
	return s.RandFactory()
}

func toEntries(sales []*sale.Sale) []timeseries.Entry {
	return lo.Map(sales, func(sl *sale.Sale, _ int) timeseries.Entry {
		return timeseries.Entry{Timestamp: sl.CreatedAt, Amount: types.ToDecimal(sl.TotalAmount)}
	})
}

// projectionHorizon is the number of future periods to project: the request
// length expressed in resolution periods, or as many periods as the actual
// series for all-time requests.
func projectionHorizon(days int, res types.Resolution, actualLen int) int {
	if days <= 0 {
		return lo.Max([]int{actualLen, 1})
	}

	var horizon float64
	switch res {
	case types.ResolutionHourly:
		horizon = float64(days * 24)
	case types.ResolutionDaily:
		horizon = float64(days)
	case types.ResolutionWeekly:
		horizon = math.Ceil(float64(days) / 7)
	case types.ResolutionMonthly:
		horizon = math.Ceil(float64(days) / 30)
	case types.ResolutionQuarterly:
		horizon = math.Ceil(float64(days) / 91)
	default:
		horizon = math.Ceil(float64(days) / 365)
	}
	return lo.Max([]int{int(horizon), 1})
}
