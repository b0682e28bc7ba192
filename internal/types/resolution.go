package types

import (
	"github.com/samber/lo"
	ierr "github.com/storepulse/storepulse/internal/errors"
)

// Resolution is the aggregation granularity of a time series. The declaration
// order of the constants is the coarsening order.
type Resolution string

const (
	ResolutionHourly    Resolution = "hourly"
	ResolutionDaily     Resolution = "daily"
	ResolutionWeekly    Resolution = "weekly"
	ResolutionMonthly   Resolution = "monthly"
	ResolutionQuarterly Resolution = "quarterly"
	ResolutionYearly    Resolution = "yearly"
)

var resolutionOrder = []Resolution{
	ResolutionHourly,
	ResolutionDaily,
	ResolutionWeekly,
	ResolutionMonthly,
	ResolutionQuarterly,
	ResolutionYearly,
}

func (r Resolution) String() string {
	return string(r)
}

func (r Resolution) Validate() error {
	if !lo.Contains(resolutionOrder, r) {
		return ierr.NewErrorf("invalid resolution: %s", r).
			WithHint("Resolution must be one of hourly, daily, weekly, monthly, quarterly, yearly").
			WithReportableDetails(map[string]interface{}{
				"allowed": resolutionOrder,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Rank returns the position of r in the coarsening order, -1 when unknown.
func (r Resolution) Rank() int {
	return lo.IndexOf(resolutionOrder, r)
}

// Coarser returns the next coarser resolution. ok is false for yearly and
// for unknown values.
func (r Resolution) Coarser() (Resolution, bool) {
	rank := r.Rank()
	if rank < 0 || rank == len(resolutionOrder)-1 {
		return r, false
	}
	return resolutionOrder[rank+1], true
}

// Resolutions lists every resolution from finest to coarsest.
func Resolutions() []Resolution {
	return append([]Resolution(nil), resolutionOrder...)
}
