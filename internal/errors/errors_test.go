package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkAndIs(t *testing.T) {
	err := NewError("no sales in window").
		WithHint("Import more sales data").
		Mark(ErrInsufficientData)

	assert.True(t, IsInsufficientData(err))
	assert.False(t, IsConnectivity(err))
	assert.Equal(t, "no sales in window", err.Error())

	wrapped := fmt.Errorf("computing projection: %w", err)
	assert.True(t, IsInsufficientData(wrapped))
}

func TestWithErrorKeepsCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := WithError(cause).
		WithHint("Sales repository is unreachable").
		WithReportableDetails(map[string]interface{}{"store": "postgres"}).
		Mark(ErrConnectivity)

	assert.True(t, IsConnectivity(err))
	assert.Contains(t, err.Error(), "connection refused")

	var ie *InternalError
	require.True(t, As(err, &ie))
	assert.Equal(t, "Sales repository is unreachable", ie.DisplayError)
	assert.Equal(t, "postgres", ie.ReportableDetails["store"])
}

func TestHTTPStatusFromErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"validation", NewError("bad").Mark(ErrValidation), http.StatusBadRequest},
		{"not found", NewError("missing").Mark(ErrNotFound), http.StatusNotFound},
		{"insufficient", NewError("empty").Mark(ErrInsufficientData), http.StatusUnprocessableEntity},
		{"connectivity", NewError("down").Mark(ErrConnectivity), http.StatusServiceUnavailable},
		{"database", NewError("boom").Mark(ErrDatabase), http.StatusInternalServerError},
		{"plain", fmt.Errorf("plain"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromErr(tt.err))
		})
	}
}

func TestNewErrorResponse(t *testing.T) {
	err := NewError("time_range_days must be >= 0").
		WithHint("Provide a non-negative time range").
		WithReportableDetails(map[string]interface{}{"time_range_days": -1}).
		Mark(ErrValidation)

	resp := NewErrorResponse(err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Provide a non-negative time range", resp.Error.Display)
	assert.Equal(t, "time_range_days must be >= 0", resp.Error.InternalError)
	assert.Equal(t, -1, resp.Error.Details["time_range_days"])
}
