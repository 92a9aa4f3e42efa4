package app

import (
	"context"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/clients/redis"
	httpx "github.com/yash1900/Fraterny-Nextjs-sub005/internal/http"
	httpH "github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/handlers"
	httpMW "github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/middleware"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/observability"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

const shutdownTimeout = 10 * time.Second

type Middleware struct {
	Auth        *httpMW.AuthMiddleware
	RateLimiter redis.Limiter
}

type Handlers struct {
	Health         *httpH.HealthHandler
	DuplicateUsers *httpH.DuplicateUserHandler
}

func wireHandlers(log *logger.Logger, core *Core) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:         httpH.NewHealthHandler(core.Sources.Ping),
		DuplicateUsers: httpH.NewDuplicateUserHandler(log, core.Services.DuplicateUsers),
	}
}

// wireRedis connects when REDIS_ADDR is set. Failure only disables rate limiting.
func wireRedis(ctx context.Context, log *logger.Logger, cfg Config) *goredis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	rdb, err := redis.NewClient(ctx, log, redis.Config{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		log.Warn("redis unavailable; rate limiting disabled", "error", err)
		return nil
	}
	return rdb
}

func wireMiddleware(log *logger.Logger, svcs Services, rdb *goredis.Client, cfg Config) Middleware {
	log.Info("Wiring middleware...")
	mw := Middleware{Auth: httpMW.NewAuthMiddleware(log, svcs.AdminAuth)}
	if rdb != nil && cfg.RateLimitPerMinute > 0 {
		mw.RateLimiter = redis.NewFixedWindowLimiter(log, rdb, cfg.RateLimitPerMinute, time.Minute)
	}
	return mw
}

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, mw Middleware, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	if strings.EqualFold(cfg.LogMode, "prod") || strings.EqualFold(cfg.LogMode, "production") {
		gin.SetMode(gin.ReleaseMode)
	}
	return httpx.NewRouter(httpx.RouterConfig{
		Log:                  log,
		ServiceName:          serviceName,
		CORSOrigins:          cfg.CORSOrigins,
		Metrics:              metrics,
		RateLimiter:          mw.RateLimiter,
		AuthMiddleware:       mw.Auth,
		DuplicateUserHandler: handlers.DuplicateUsers,
		HealthHandler:        handlers.Health,
	})
}
