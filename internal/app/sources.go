package app

import (
	"context"
	"fmt"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/data/db"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/data/repos"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/supabase"
)

type Sources struct {
	Users   repos.UserSource
	Signals repos.SignalSource
	// Ping checks the backing store; nil for the Supabase backend.
	Ping func(ctx context.Context) error
}

func wireSources(ctx context.Context, log *logger.Logger, cfg Config) (Sources, *db.PostgresService, error) {
	log.Info("Wiring sources...", "backend", cfg.StoreBackend)
	switch cfg.StoreBackend {
	case BackendSupabase:
		client, err := supabase.NewClient(log, cfg.SupabaseURL, cfg.SupabaseServiceKey)
		if err != nil {
			return Sources{}, nil, fmt.Errorf("init supabase: %w", err)
		}
		return Sources{
			Users:   supabase.NewUserSource(client),
			Signals: supabase.NewSignalSource(client),
		}, nil, nil
	case BackendPostgres:
		pg, err := db.NewPostgresService(log, cfg.PostgresDSN)
		if err != nil {
			return Sources{}, nil, fmt.Errorf("init postgres: %w", err)
		}
		if cfg.DBAutoMigrate {
			if err := db.AutoMigrateAll(pg.DB()); err != nil {
				_ = pg.Close()
				return Sources{}, nil, fmt.Errorf("postgres automigrate: %w", err)
			}
			if err := db.EnsureActivityIndexes(pg.DB()); err != nil {
				log.Warn("activity index creation failed (continuing)", "error", err)
			}
		}
		theDB := pg.DB()
		return Sources{
			Users:   repos.NewUserDataRepo(theDB, log),
			Signals: repos.NewUserActivityRepo(theDB, log),
			Ping:    pg.Ping,
		}, pg, nil
	default:
		return Sources{}, nil, fmt.Errorf("unknown STORE_BACKEND %q", cfg.StoreBackend)
	}
}
