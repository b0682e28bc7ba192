package interfaces

import (
	"context"

	"github.com/storepulse/storepulse/internal/api/dto"
)

type AnalyticsService interface {
	// ComputeRevenueProjection returns the actual revenue series and its projection
	ComputeRevenueProjection(ctx context.Context, req *dto.RevenueProjectionRequest) (*dto.RevenueProjectionResponse, error)

	// ComputeSalesRecommendations returns weekday buying habits and product bundles
	ComputeSalesRecommendations(ctx context.Context, req *dto.SalesRecommendationsRequest) (*dto.SalesRecommendationsResponse, error)

	// ComputeOptimalProducts ranks products by how strongly they anchor bundles
	ComputeOptimalProducts(ctx context.Context, req *dto.OptimalProductsRequest) (*dto.OptimalProductsResponse, error)

	// ComputeSalesTrend classifies the historical revenue trend and its seasonality
	ComputeSalesTrend(ctx context.Context, req *dto.SalesTrendRequest) (*dto.SalesTrendResponse, error)
}
