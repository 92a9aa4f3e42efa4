package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/http/response"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/services"
)

type AuthMiddleware struct {
	log         *logger.Logger
	authService services.AdminAuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AdminAuthService) *AuthMiddleware {
	middlewareLogger := log.With("Middleware", "AuthMiddleware")
	return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, err := am.authService.SetContextFromToken(c.Request.Context(), bearerToken(c))
		switch {
		case errors.Is(err, services.ErrNotAdmin):
			response.AbortError(c, http.StatusForbidden, "forbidden", err)
			return
		case err != nil:
			am.log.Debug("admin token rejected", "error", err)
			response.AbortError(c, http.StatusUnauthorized, "unauthorized", services.ErrMissingToken)
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}
