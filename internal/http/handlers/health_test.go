package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func healthRouter(checks map[string]Pinger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHealthHandler("1.2.3", checks)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/healthz", h.Liveness)
	r.GET("/readyz", h.Readiness)
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHealth_AllHealthy(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	r := healthRouter(map[string]Pinger{"database": ok, "redis": nil})

	for _, path := range []string{"/health", "/healthz", "/readyz"} {
		if w := get(r, path); w.Code != http.StatusOK {
			t.Fatalf("%s: %d", path, w.Code)
		}
	}

	var resp HealthResponse
	_ = json.Unmarshal(get(r, "/readyz").Body.Bytes(), &resp)
	if resp.Status != "healthy" || resp.Version != "1.2.3" || resp.Checks["database"] != "healthy" {
		t.Fatalf("readiness: %+v", resp)
	}
	if _, ok := resp.Checks["redis"]; ok {
		t.Fatal("nil check should be skipped")
	}
}

func TestHealth_Unhealthy(t *testing.T) {
	down := pingFunc(func(context.Context) error { return errors.New("refused") })
	r := healthRouter(map[string]Pinger{"database": down})

	if w := get(r, "/healthz"); w.Code != http.StatusOK {
		t.Fatalf("liveness must not depend on backends: %d", w.Code)
	}
	if w := get(r, "/health"); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("health: %d", w.Code)
	}

	w := get(r, "/readyz")
	var resp HealthResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	if w.Code != http.StatusServiceUnavailable || resp.Checks["database"] != "unhealthy: refused" {
		t.Fatalf("readiness: %d %+v", w.Code, resp)
	}
}
