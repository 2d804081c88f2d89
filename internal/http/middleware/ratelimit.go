package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type clientInfo struct {
	start time.Time
	count int
}

// SimpleRateLimit blocks clients that send more than maxRequests per window.
// Counters live in this process only.
func SimpleRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return localRateLimit(maxRequests, window, "", func(c *gin.Context) string { return c.ClientIP() })
}

// localRateLimit is a fixed-window limiter keyed by key(c). An empty key is
// not limited.
func localRateLimit(maxRequests int, window time.Duration, label string, key func(*gin.Context) string) gin.HandlerFunc {
	var mu sync.Mutex
	clients := make(map[string]*clientInfo)

	return func(c *gin.Context) {
		id := key(c)
		if id == "" {
			c.Next()
			return
		}
		now := time.Now()

		mu.Lock()
		ci, ok := clients[id]
		if !ok || now.Sub(ci.start) > window {
			// drop expired windows so the map does not grow without bound
			for k, v := range clients {
				if now.Sub(v.start) > window {
					delete(clients, k)
				}
			}
			ci = &clientInfo{start: now}
			clients[id] = ci
		}
		ci.count++
		count := ci.count
		mu.Unlock()

		if count > maxRequests {
			RLBlocked.WithLabelValues(label + c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}

		RLRequests.WithLabelValues(label + c.FullPath()).Inc()
		c.Next()
	}
}
