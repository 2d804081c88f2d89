package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"studyboard/internal/service"

	"github.com/gin-gonic/gin"
)

type stubAuth map[string]string

func (s stubAuth) Authenticate(_ context.Context, token string) (service.Claims, error) {
	id, ok := s[token]
	if !ok {
		return service.Claims{}, errors.New("invalid token")
	}
	return service.Claims{UserID: id, TokenID: "jti-" + id}, nil
}

func authRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	chain := append([]gin.HandlerFunc{Auth(stubAuth{"good": "u1", "other": "u2"})}, handlers...)
	chain = append(chain, func(c *gin.Context) {
		claims := c.MustGet(ContextClaims).(service.Claims)
		c.JSON(http.StatusOK, gin.H{"user_id": c.GetString(ContextUserID), "jti": claims.TokenID})
	})
	r.POST("/tasks", chain...)
	return r
}

func send(r http.Handler, auth string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/tasks", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestAuth(t *testing.T) {
	r := authRouter()

	cases := map[string]int{
		"":             http.StatusUnauthorized,
		"good":         http.StatusUnauthorized,
		"Bearer ":      http.StatusUnauthorized,
		"Bearer bad":   http.StatusUnauthorized,
		"Basic good":   http.StatusUnauthorized,
		"Bearer good":  http.StatusOK,
		"Bearer  good": http.StatusOK,
	}
	for header, want := range cases {
		if got := send(r, header); got != want {
			t.Fatalf("Authorization %q: got %d, want %d", header, got, want)
		}
	}
}

func TestUserRateLimit_LocalFallback(t *testing.T) {
	if redisClient != nil {
		t.Skip("redis client connected")
	}
	r := authRouter(UserRateLimit(2, time.Minute))

	for i := 0; i < 2; i++ {
		if code := send(r, "Bearer good"); code != http.StatusOK {
			t.Fatalf("request %d: %d", i+1, code)
		}
	}
	if code := send(r, "Bearer good"); code != http.StatusTooManyRequests {
		t.Fatalf("third request: %d", code)
	}
	// limits are per user, not per IP
	if code := send(r, "Bearer other"); code != http.StatusOK {
		t.Fatalf("other user: %d", code)
	}
}

func TestUserRateLimit_RequiresUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/tasks", UserRateLimit(10, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	if code := send(r, ""); code != http.StatusUnauthorized {
		t.Fatalf("anonymous request: %d", code)
	}
}
