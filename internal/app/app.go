package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/data/db"
	httpx "github.com/yash1900/Fraterny-Nextjs-sub005/internal/http"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/observability"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

// Core holds what both the server and the CLI need.
type Core struct {
	Log      *logger.Logger
	Cfg      Config
	Postgres *db.PostgresService
	Sources  Sources
	Services Services
}

func NewCore(ctx context.Context, cfg Config) (*Core, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	sources, pg, err := wireSources(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return &Core{
		Log:      log,
		Cfg:      cfg,
		Postgres: pg,
		Sources:  sources,
		Services: wireServices(log, cfg, sources, policy),
	}, nil
}

func (c *Core) Close() {
	if c == nil {
		return
	}
	if c.Postgres != nil {
		if err := c.Postgres.Close(); err != nil {
			c.Log.Warn("postgres close failed", "error", err)
		}
	}
	c.Log.Sync()
}

type App struct {
	*Core
	Redis  *goredis.Client
	Router *gin.Engine

	shutdownOTel func(context.Context) error
}

func New(ctx context.Context, cfg Config) (*App, error) {
	core, err := NewCore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	log := core.Log

	shutdownOTel := observability.InitOTel(ctx, log, cfg.Otel)
	metrics := observability.Init(log)

	rdb := wireRedis(ctx, log, cfg)
	handlers := wireHandlers(log, core)
	middleware := wireMiddleware(log, core.Services, rdb, cfg)
	router := wireRouter(log, cfg, handlers, middleware, metrics)

	return &App{
		Core:         core,
		Redis:        rdb,
		Router:       router,
		shutdownOTel: shutdownOTel,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Log.Info("HTTP server listening", "addr", a.Cfg.Addr())
	srv := &httpx.Server{Engine: a.Router}
	return srv.Run(ctx, a.Cfg.Addr())
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.shutdownOTel != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := a.shutdownOTel(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	a.Core.Close()
}
