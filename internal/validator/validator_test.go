package validator

import (
	"testing"

	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/stretchr/testify/assert"
)

type sampleRequest struct {
	Name  string  `validate:"required"`
	Ratio float64 `validate:"gte=0,lte=1"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{Name: "ok", Ratio: 0.5}))

	err := ValidateRequest(sampleRequest{Ratio: 2})
	assert.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	resp := ierr.NewErrorResponse(err)
	assert.Contains(t, resp.Error.Display, "name")
	assert.Contains(t, resp.Error.Display, "ratio")
}
