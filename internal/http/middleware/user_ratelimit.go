package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// UserRateLimit limits task mutations per user (not per IP), in Redis when it
// is connected and in process otherwise. Uses the user id set by the Auth
// middleware, which must run first.
func UserRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	localLimit := localRateLimit(maxRequests, window, "user:", func(c *gin.Context) string {
		return c.GetString(ContextUserID)
	})

	return func(c *gin.Context) {
		userID := c.GetString(ContextUserID)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		if redisClient == nil {
			localLimit(c)
			return
		}

		key := "user_rl:" + userID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		allowed, ok := incrWindow(c.Request.Context(), key, maxRequests, window)
		if !ok {
			// Redis error, fail-open
			c.Header("X-UserRateLimit-Error", "redis-error")
			c.Next()
			return
		}

		c.Header("X-UserRateLimit-Limit", strconv.Itoa(maxRequests))
		if !allowed {
			RLBlocked.WithLabelValues("user:" + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "too many task changes",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues("user:" + c.FullPath()).Inc()
		c.Next()
	}
}
