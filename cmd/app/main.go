package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyboard/internal/config"
	"studyboard/internal/db"
	httpServer "studyboard/internal/http"
	"studyboard/internal/http/handlers"
	"studyboard/internal/http/middleware"
	"studyboard/internal/logger"
	"studyboard/internal/repository"
	"studyboard/internal/service"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret, cfg.JWTTTL)

	checks := map[string]handlers.Pinger{}

	var (
		users  service.UserStore
		audits service.AuditStore
		source service.TaskSource
	)
	switch cfg.StoreDriver {
	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		users = repository.NewMemoryUserRepository()
		audits = repository.NewMemoryAuditRepository()
		source = repository.NewMemoryTaskRepository()
	default:
		pool := db.Connect(cfg.DatabaseURL)
		defer pool.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Migrate(ctx, pool); err != nil {
			cancel()
			logger.Fatal("migrations failed", "error", err)
		}
		cancel()

		users = repository.NewUserRepository(pool)
		audits = repository.NewAuditRepository(pool)
		source = repository.NewTaskRepository(pool)
		checks["database"] = pool
	}

	var revoker service.TokenRevoker = service.NewMemoryRevoker()
	if rdb := middleware.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB); rdb != nil {
		defer rdb.Close()
		revoker = service.NewRedisRevoker(rdb)
		checks["redis"] = redisPinger{rdb}
	}

	auditSvc := service.NewAuditService(audits)
	authSvc := service.NewAuthService(users, revoker, auditSvc)
	taskSvc := service.NewTaskService(source)

	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.Metrics(), middleware.CORS(cfg.CORSOrigins))

	h := handlers.NewHandler(taskSvc, authSvc, auditSvc)
	health := handlers.NewHealthHandler(version, checks)
	httpServer.RegisterRoutes(r, h, health, authSvc, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}

type redisPinger struct {
	client *redis.Client
}

func (p redisPinger) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}
