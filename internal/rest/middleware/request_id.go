package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/storepulse/storepulse/internal/types"
)

// RequestIDMiddleware propagates the X-Request-ID header, generating one when
// absent, and copies X-User-ID into the request context.
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REQUEST)
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	if userID := c.GetHeader(types.HeaderUserID); userID != "" {
		ctx = types.SetUserID(ctx, userID)
	}
	c.Request = c.Request.WithContext(ctx)
	c.Header(types.HeaderRequestID, requestID)
	c.Next()
}
