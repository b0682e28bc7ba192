package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storepulse/storepulse/internal/api/dto"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"github.com/storepulse/storepulse/internal/logger"
	"github.com/storepulse/storepulse/internal/service"
	"github.com/storepulse/storepulse/internal/types"
)

type AnalyticsHandler struct {
	analyticsService service.AnalyticsService
	logger           *logger.Logger
}

func NewAnalyticsHandler(
	analyticsService service.AnalyticsService,
	logger *logger.Logger,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// @Summary Get revenue projection
// @Description Actual revenue series of the window and its projection forward
// @Tags Analytics
// @Produce json
// @Param time_range_days query int false "Window length in days, 0 for all time"
// @Param user_id query string false "Restrict to one user's sales"
// @Success 200 {object} dto.RevenueProjectionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 503 {object} ierr.ErrorResponse
// @Router /v1/analytics/revenue-projection [get]
func (h *AnalyticsHandler) GetRevenueProjection(c *gin.Context) {
	var req dto.RevenueProjectionRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	req.UserID = userIDOrDefault(c, req.UserID)

	resp, err := h.analyticsService.ComputeRevenueProjection(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Errorw("failed to compute revenue projection", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get sales recommendations
// @Description Best weekday per product and product bundles mined from co-purchases
// @Tags Analytics
// @Produce json
// @Param time_range_days query int false "Window length in days, 0 for all time"
// @Param min_confidence query string false "Minimum bundle tier: high, medium or low"
// @Success 200 {object} dto.SalesRecommendationsResponse
// @Failure 422 {object} ierr.ErrorResponse
// @Router /v1/analytics/recommendations [get]
func (h *AnalyticsHandler) GetSalesRecommendations(c *gin.Context) {
	var req dto.SalesRecommendationsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	req.UserID = userIDOrDefault(c, req.UserID)

	resp, err := h.analyticsService.ComputeSalesRecommendations(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Errorw("failed to compute sales recommendations", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get optimal products
// @Description Products ranked by bundle confidence and price
// @Tags Analytics
// @Produce json
// @Param time_range_days query int false "Window length in days, 0 for all time"
// @Param confidence_threshold query number false "Minimum bundle confidence between 0 and 1"
// @Param limit query int false "Maximum number of products"
// @Success 200 {object} dto.OptimalProductsResponse
// @Router /v1/analytics/optimal-products [get]
func (h *AnalyticsHandler) GetOptimalProducts(c *gin.Context) {
	var req dto.OptimalProductsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	req.UserID = userIDOrDefault(c, req.UserID)

	resp, err := h.analyticsService.ComputeOptimalProducts(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Errorw("failed to compute optimal products", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get sales trend
// @Tags Analytics
// @Produce json
// @Param time_range_days query int false "Window length in days, 0 for all time"
// @Success 200 {object} dto.SalesTrendResponse
// @Router /v1/analytics/trend [get]
func (h *AnalyticsHandler) GetSalesTrend(c *gin.Context) {
	var req dto.SalesTrendRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(bindError(err))
		return
	}
	req.UserID = userIDOrDefault(c, req.UserID)

	resp, err := h.analyticsService.ComputeSalesTrend(c.Request.Context(), &req)
	if err != nil {
		h.logger.WithContext(c.Request.Context()).Errorw("failed to compute sales trend", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func bindError(err error) error {
	return ierr.WithError(err).
		WithHint("Invalid query parameters").
		Mark(ierr.ErrValidation)
}

// userIDOrDefault prefers the query parameter over the X-User-ID header.
func userIDOrDefault(c *gin.Context, userID string) string {
	if userID != "" {
		return userID
	}
	return types.GetUserID(c.Request.Context())
}
