package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	v1 "github.com/storepulse/storepulse/internal/api/v1"
	"github.com/storepulse/storepulse/internal/config"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/logger"
	"github.com/storepulse/storepulse/internal/service"
	"github.com/storepulse/storepulse/internal/testutil"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.May, 10, 12, 0, 0, 0, time.UTC)

func newTestRouter(t *testing.T, cfg *config.Configuration, store *testutil.InMemorySaleStore) http.Handler {
	t.Helper()
	log := logger.NewNoopLogger()
	params := service.NewServiceParams(log, cfg, store)
	params.Now = func() time.Time { return testNow }
	handlers := Handlers{
		Analytics: v1.NewAnalyticsHandler(service.NewAnalyticsService(params), log),
	}
	return NewRouter(handlers, cfg, log)
}

func get(router http.Handler, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func seededStore(t *testing.T) *testutil.InMemorySaleStore {
	t.Helper()
	store := testutil.NewInMemorySaleStore()
	coffee := testutil.NewProduct("prod_coffee", "Coffee", 100)
	require.NoError(t, store.Add(testutil.SetupContext(), testutil.DailySales(testNow.AddDate(0, 0, -9), 10, 100, coffee)...))
	return store
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t, config.GetDefaultConfig(), testutil.NewInMemorySaleStore())

	rec := get(router, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(types.HeaderRequestID))
}

func TestRouter_RequestIDIsEchoed(t *testing.T) {
	router := newTestRouter(t, config.GetDefaultConfig(), testutil.NewInMemorySaleStore())

	rec := get(router, "/health", map[string]string{types.HeaderRequestID: "req_fixed"})
	assert.Equal(t, "req_fixed", rec.Header().Get(types.HeaderRequestID))
}

func TestRouter_RevenueProjection(t *testing.T) {
	router := newTestRouter(t, config.GetDefaultConfig(), seededStore(t))

	rec := get(router, "/v1/analytics/revenue-projection?time_range_days=9", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Resolution string                `json:"resolution"`
		TodayIndex int                   `json:"today_index"`
		Actual     []jsoniter.RawMessage `json:"actual"`
		Projected  []jsoniter.RawMessage `json:"projected"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "daily", body.Resolution)
	assert.Len(t, body.Actual, 10)
	assert.Len(t, body.Projected, 9)
	assert.Equal(t, 9, body.TodayIndex)
}

func TestRouter_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		target string
		setup  func(store *testutil.InMemorySaleStore)
		status int
	}{
		{
			name:   "negative range is a validation error",
			target: "/v1/analytics/trend?time_range_days=-1",
			status: http.StatusBadRequest,
		},
		{
			name:   "unparsable range is a validation error",
			target: "/v1/analytics/revenue-projection?time_range_days=abc",
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown tier is a validation error",
			target: "/v1/analytics/recommendations?time_range_days=30&min_confidence=extreme",
			status: http.StatusBadRequest,
		},
		{
			name:   "empty window is insufficient data",
			target: "/v1/analytics/revenue-projection?time_range_days=30",
			status: http.StatusUnprocessableEntity,
		},
		{
			name:   "unreachable store is a connectivity error",
			target: "/v1/analytics/recommendations?time_range_days=30",
			setup: func(store *testutil.InMemorySaleStore) {
				store.PingErr = errors.New("connection refused")
			},
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewInMemorySaleStore()
			if tt.setup != nil {
				tt.setup(store)
			}
			router := newTestRouter(t, config.GetDefaultConfig(), store)

			rec := get(router, tt.target, nil)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())

			var resp ierr.ErrorResponse
			require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error.Display)
		})
	}
}

func TestRouter_OptimalProductsEmptyIsSuccess(t *testing.T) {
	router := newTestRouter(t, config.GetDefaultConfig(), testutil.NewInMemorySaleStore())

	rec := get(router, "/v1/analytics/optimal-products?time_range_days=30", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Items               []jsoniter.RawMessage `json:"items"`
		ConfidenceThreshold float64               `json:"confidence_threshold"`
	}
	require.NoError(t, jsoniter.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotNil(t, body.Items)
	assert.Empty(t, body.Items)
	assert.Equal(t, 0.5, body.ConfidenceThreshold)
}

func TestRouter_UserHeaderScopesQuery(t *testing.T) {
	store := seededStore(t)
	router := newTestRouter(t, config.GetDefaultConfig(), store)

	rec := get(router, "/v1/analytics/trend?time_range_days=9", map[string]string{types.HeaderUserID: "user_other"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	require.NotNil(t, store.LastFilter())
	assert.Equal(t, "user_other", store.LastFilter().UserID)
}

func TestRouter_RateLimit(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.RateLimit = config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1}
	router := newTestRouter(t, cfg, seededStore(t))

	first := get(router, "/v1/analytics/revenue-projection?time_range_days=9", nil)
	assert.Equal(t, http.StatusOK, first.Code)

	second := get(router, "/v1/analytics/revenue-projection?time_range_days=9", nil)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)

	// health sits outside the limited group
	assert.Equal(t, http.StatusOK, get(router, "/health", nil).Code)
}
