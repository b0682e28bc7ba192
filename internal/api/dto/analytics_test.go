package dto

import (
	"testing"

	"github.com/samber/lo"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestRevenueProjectionRequestValidate(t *testing.T) {
	assert.NoError(t, (&RevenueProjectionRequest{}).Validate())
	assert.NoError(t, (&RevenueProjectionRequest{TimeRangeDays: 30}).Validate())

	err := (&RevenueProjectionRequest{TimeRangeDays: -1}).Validate()
	assert.True(t, ierr.IsValidation(err))

	err = (&RevenueProjectionRequest{TimeRangeDays: MaxTimeRangeDays + 1}).Validate()
	assert.True(t, ierr.IsValidation(err))
}

func TestSalesRecommendationsRequestValidate(t *testing.T) {
	req := &SalesRecommendationsRequest{TimeRangeDays: 7}
	assert.NoError(t, req.Validate())
	assert.Equal(t, types.ConfidenceTierLow, req.GetMinConfidence())

	req.MinConfidence = types.ConfidenceTierHigh
	assert.NoError(t, req.Validate())
	assert.Equal(t, types.ConfidenceTierHigh, req.GetMinConfidence())

	req.MinConfidence = "certain"
	assert.True(t, ierr.IsValidation(req.Validate()))
}

func TestOptimalProductsRequestValidate(t *testing.T) {
	req := &OptimalProductsRequest{}
	assert.NoError(t, req.Validate())
	assert.Equal(t, DefaultConfidenceThreshold, req.GetConfidenceThreshold())

	req.ConfidenceThreshold = lo.ToPtr(0.8)
	assert.NoError(t, req.Validate())
	assert.Equal(t, 0.8, req.GetConfidenceThreshold())

	req.ConfidenceThreshold = lo.ToPtr(1.5)
	assert.True(t, ierr.IsValidation(req.Validate()))

	req = &OptimalProductsRequest{Limit: 500}
	assert.True(t, ierr.IsValidation(req.Validate()))
}
