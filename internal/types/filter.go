package types

import (
	"time"

	ierr "github.com/storepulse/storepulse/internal/errors"
)

// DateRange is an inclusive time window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func (r DateRange) IsZero() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// Contains reports whether t lies within [Start, End].
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// SaleFilter is the only query shape the sales repository has to support.
type SaleFilter struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	// UserID restricts results to sales owned by one user when set.
	UserID string `json:"user_id,omitempty"`
}

func NewSaleFilter(window DateRange, userID string) *SaleFilter {
	return &SaleFilter{
		StartTime: window.Start,
		EndTime:   window.End,
		UserID:    userID,
	}
}

func (f *SaleFilter) Validate() error {
	if f == nil {
		return ierr.NewError("sale filter cannot be nil").
			WithHint("A sale filter is required").
			Mark(ierr.ErrValidation)
	}
	if !f.StartTime.IsZero() && !f.EndTime.IsZero() && f.EndTime.Before(f.StartTime) {
		return ierr.NewError("end_time must be after start_time").
			WithHint("End time must not be before start time").
			WithReportableDetails(map[string]interface{}{
				"start_time": f.StartTime,
				"end_time":   f.EndTime,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Matches applies the filter to one record; in-memory stores use it directly.
func (f *SaleFilter) Matches(createdAt time.Time, userID string) bool {
	if f == nil {
		return true
	}
	if !f.StartTime.IsZero() && createdAt.Before(f.StartTime) {
		return false
	}
	if !f.EndTime.IsZero() && createdAt.After(f.EndTime) {
		return false
	}
	if f.UserID != "" && f.UserID != userID {
		return false
	}
	return true
}
