package middleware

import (
	"context"
	"net/http"
	"strings"

	"studyboard/internal/service"

	"github.com/gin-gonic/gin"
)

// Context keys set by Auth.
const (
	ContextUserID = "user_id"
	ContextClaims = "claims"
)

// Authenticator validates bearer tokens. *service.AuthService implements it.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Claims, error)
}

// Auth requires a valid "Authorization: Bearer <jwt>" header and stores the
// user id and claims in the context.
func Auth(a Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := a.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextClaims, claims)
		c.Next()
	}
}
