package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/clients/redis"
	httpH "github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/handlers"
	httpMW "github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/middleware"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/observability"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	ServiceName string
	CORSOrigins []string
	Metrics     *observability.Metrics
	RateLimiter redis.Limiter

	AuthMiddleware *httpMW.AuthMiddleware

	DuplicateUserHandler *httpH.DuplicateUserHandler
	HealthHandler        *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
		r.GET("/readyz", cfg.HealthHandler.Ready)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	admin := r.Group("/api/admin")
	{
		if cfg.AuthMiddleware != nil {
			admin.Use(cfg.AuthMiddleware.RequireAdmin())
		}
		admin.Use(httpMW.RateLimit(cfg.RateLimiter, cfg.Metrics))

		// Duplicate users
		if cfg.DuplicateUserHandler != nil {
			admin.GET("/duplicate-users", cfg.DuplicateUserHandler.List)
			admin.GET("/duplicate-users/group", cfg.DuplicateUserHandler.GetGroup)
			admin.POST("/duplicate-users/merge", cfg.DuplicateUserHandler.Merge)
		}
	}

	return r
}
