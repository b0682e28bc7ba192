package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/storepulse/storepulse/internal/config"
	ierr "github.com/storepulse/storepulse/internal/errors"
	"golang.org/x/time/rate"
)

// RateLimitMiddleware applies one token bucket to every request of the group.
func RateLimitMiddleware(cfg *config.Configuration) gin.HandlerFunc {
	if !cfg.RateLimit.Enabled || cfg.RateLimit.RequestsPerSecond <= 0 {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	burst := cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 1
	}
	limiter := rate.NewLimiter(rate.Limit(cfg.RateLimit.RequestsPerSecond), burst)

	return func(c *gin.Context) {
		if !limiter.Allow() {
			err := ierr.NewError("rate limit exceeded").
				WithHint("Too many requests. Please slow down and retry shortly.").
				Mark(ierr.ErrValidation)
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ierr.NewErrorResponse(err))
			return
		}
		c.Next()
	}
}
