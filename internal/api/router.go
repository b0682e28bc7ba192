package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	v1 "github.com/storepulse/storepulse/internal/api/v1"
	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/logger"
	"github.com/storepulse/storepulse/internal/rest/middleware"
	"github.com/storepulse/storepulse/internal/types"
)

type Handlers struct {
	Analytics *v1.AnalyticsHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	if cfg.Logging.Level != types.LogLevelDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.RecoveryWithWriter(log.GinWriter()),
		middleware.RequestIDMiddleware,
		middleware.SentryMiddleware(cfg),
		middleware.SentryRequestContextMiddleware,
		middleware.LoggingMiddleware(log),
		middleware.ErrorHandler(log),
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1Router := router.Group("/v1")
	analytics := v1Router.Group("/analytics")
	analytics.Use(middleware.RateLimitMiddleware(cfg))
	{
		analytics.GET("/revenue-projection", handlers.Analytics.GetRevenueProjection)
		analytics.GET("/recommendations", handlers.Analytics.GetSalesRecommendations)
		analytics.GET("/optimal-products", handlers.Analytics.GetOptimalProducts)
		analytics.GET("/trend", handlers.Analytics.GetSalesTrend)
	}

	return router
}
