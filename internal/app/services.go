package app

import (
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/modules/dedupe"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/services"
)

type Services struct {
	DuplicateUsers services.DuplicateUserService
	AdminAuth      services.AdminAuthService
}

func wireServices(log *logger.Logger, cfg Config, sources Sources, policy dedupe.SignalPolicy) Services {
	log.Info("Wiring services...")
	return Services{
		DuplicateUsers: services.NewDuplicateUserService(log, sources.Users, sources.Signals, policy),
		AdminAuth:      services.NewAdminAuthService(log, cfg.SupabaseJWTSecret, cfg.AdminEmails),
	}
}
