package timeseries

import (
	"math"
	"math/rand/v2"

	"github.com/samber/lo"
	"github.com/storepulse/storepulse/internal/types"
)

const (
	dailyTrailingWindow   = 28
	weeklyTrailingWindow  = 4
	monthlyTrailingWindow = 12

	sparseJitter     = 0.05
	seasonalJitter   = 0.03
	cagrJitter       = 0.05
	cagrMin          = -0.10
	cagrMax          = 0.15
	cagrWaveDepth    = 0.40
	cagrWavePeriod   = 48.0
	longMonthlyRange = 24
)

// fixedSeed backs projections when the caller does not supply a generator.
const fixedSeed = 42

var minHistory = map[types.Resolution]int{
	types.ResolutionHourly:    24,
	types.ResolutionDaily:     7,
	types.ResolutionWeekly:    4,
	types.ResolutionMonthly:   6,
	types.ResolutionQuarterly: 4,
	types.ResolutionYearly:    3,
}

// MinHistory is the number of actual buckets needed before the seasonal
// strategies are trusted. Shorter histories use sparse compounding.
func MinHistory(res types.Resolution) int {
	if n, ok := minHistory[res]; ok {
		return n
	}
	return 6
}

// ProjectionInput carries everything a projection needs. Growth is the
// clamped short range rate and LongHorizonGrowth the long horizon one.
type ProjectionInput struct {
	Actual            []Point
	Resolution        types.Resolution
	Horizon           int
	Growth            float64
	LongHorizonGrowth float64
	Rand              *rand.Rand
}

// Projection is the projected tail of a series and the strategy that built it.
type Projection struct {
	Points   []Point                  `json:"points"`
	Strategy types.ProjectionStrategy `json:"strategy"`
}

// Project extends in.Actual by in.Horizon future periods. Projected values are
// never negative and their keys never repeat an actual key.
func Project(in ProjectionInput) Projection {
	if len(in.Actual) == 0 || in.Horizon <= 0 {
		return Projection{Strategy: strategyFor(in)}
	}
	if in.Rand == nil {
		in.Rand = rand.New(rand.NewPCG(fixedSeed, fixedSeed))
	}

	strategy := strategyFor(in)
	var values []float64
	switch strategy {
	case types.ProjectionStrategySparse:
		values = projectSparse(in)
	case types.ProjectionStrategyDailySeasonal:
		values = projectDailySeasonal(in)
	case types.ProjectionStrategyMonthlySeasonal:
		values = projectMonthlySeasonal(in)
	case types.ProjectionStrategyMonthlyCAGR:
		values = projectMonthlyCAGR(in)
	default:
		values = projectMovingAverage(in)
	}

	seen := lo.SliceToMap(in.Actual, func(p Point) (string, struct{}) {
		return p.Period, struct{}{}
	})

	points := make([]Point, 0, in.Horizon)
	period := in.Actual[len(in.Actual)-1].Bucket
	for _, v := range values {
		period = period.Next()
		if _, dup := seen[period.Key()]; dup {
			continue
		}
		seen[period.Key()] = struct{}{}
		points = append(points, newPoint(period, types.RoundMoney(math.Max(0, v)), true))
	}
	return Projection{Points: points, Strategy: strategy}
}

func strategyFor(in ProjectionInput) types.ProjectionStrategy {
	if len(in.Actual) < MinHistory(in.Resolution) {
		return types.ProjectionStrategySparse
	}
	switch in.Resolution {
	case types.ResolutionDaily:
		return types.ProjectionStrategyDailySeasonal
	case types.ResolutionMonthly:
		if in.Horizon > longMonthlyRange {
			return types.ProjectionStrategyMonthlyCAGR
		}
		return types.ProjectionStrategyMonthlySeasonal
	default:
		return types.ProjectionStrategyWeeklyMovingAvg
	}
}

// yearStep is the number of whole projected years before step k (1-based);
// every month of a projected year shares one growth factor.
func yearStep(k int) int {
	return (k - 1) / 12
}

func jitter(r *rand.Rand, spread float64) float64 {
	return 1 - spread + r.Float64()*2*spread
}

func projectSparse(in ProjectionInput) []float64 {
	values := Values(in.Actual)
	base, _ := lo.Find(lo.Reverse(append([]float64(nil), values...)), func(v float64) bool {
		return v != 0
	})

	out := make([]float64, in.Horizon)
	for k := 1; k <= in.Horizon; k++ {
		out[k-1] = base * math.Pow(1+in.Growth, float64(k)) * jitter(in.Rand, sparseJitter)
	}
	return out
}

func projectDailySeasonal(in ProjectionInput) []float64 {
	pattern := AnalyzePattern(in.Actual, types.CycleUnitWeekday)
	base := mean(trailing(Values(in.Actual), dailyTrailingWindow))
	h := float64(in.Horizon)

	out := make([]float64, in.Horizon)
	period := in.Actual[len(in.Actual)-1].Bucket
	for k := 1; k <= in.Horizon; k++ {
		period = period.Next()
		out[k-1] = pattern.Factor(period.Start) * base * (1 + in.Growth*float64(k)/h)
	}
	return out
}

func projectMovingAverage(in ProjectionInput) []float64 {
	base := mean(trailing(Values(in.Actual), weeklyTrailingWindow))
	h := float64(in.Horizon)

	out := make([]float64, in.Horizon)
	for k := 1; k <= in.Horizon; k++ {
		out[k-1] = base * (1 + in.Growth*float64(k)/h)
	}
	return out
}

func projectMonthlySeasonal(in ProjectionInput) []float64 {
	pattern := AnalyzePattern(in.Actual, types.CycleUnitMonth)
	base := mean(trailing(Values(in.Actual), monthlyTrailingWindow))

	out := make([]float64, in.Horizon)
	period := in.Actual[len(in.Actual)-1].Bucket
	for k := 1; k <= in.Horizon; k++ {
		period = period.Next()
		compound := math.Pow(1+in.Growth, float64(yearStep(k)+1))
		out[k-1] = pattern.Factor(period.Start) * base * compound * jitter(in.Rand, seasonalJitter)
	}
	return out
}

func projectMonthlyCAGR(in ProjectionInput) []float64 {
	yearSums := make(map[int]float64)
	yearCounts := make(map[int]int)
	for _, p := range in.Actual {
		y := p.PeriodStart.Year()
		yearSums[y] += types.ToFloat(p.Value)
		yearCounts[y]++
	}
	years := lo.Keys(yearCounts)
	first, last := lo.Min(years), lo.Max(years)
	firstAvg := yearSums[first] / float64(yearCounts[first])
	lastAvg := yearSums[last] / float64(yearCounts[last])

	cagr := in.LongHorizonGrowth
	if len(years) >= 2 && firstAvg > 0 {
		cagr = math.Pow(lastAvg/firstAvg, 1/float64(last-first)) - 1
		if math.IsNaN(cagr) || math.IsInf(cagr, 0) {
			cagr = in.LongHorizonGrowth
		}
	}
	cagr = math.Max(cagrMin, math.Min(cagrMax, cagr))

	phase := in.Rand.Float64() * 2 * math.Pi
	h := float64(in.Horizon)

	out := make([]float64, in.Horizon)
	for k := 1; k <= in.Horizon; k++ {
		fk := float64(k)
		compound := math.Pow(1+cagr, float64(yearStep(k)+1))
		wave := 1 + cagrWaveDepth*fk/h*math.Sin(2*math.Pi*fk/cagrWavePeriod+phase)
		out[k-1] = lastAvg * compound * wave * jitter(in.Rand, cagrJitter)
	}
	return out
}
