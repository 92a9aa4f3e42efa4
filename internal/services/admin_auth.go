package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/ctxutil"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
)

var (
	ErrMissingToken = errors.New("missing or invalid token")
	ErrNotAdmin     = errors.New("admin access required")
)

const serviceRole = "service_role"

// AdminClaims is the subset of a Supabase access token the admin routes use.
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type AdminAuthService interface {
	// Enabled is false when no signing secret is configured.
	Enabled() bool
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
}

type adminAuthService struct {
	log         *logger.Logger
	secret      []byte
	adminEmails map[string]struct{}
}

func NewAdminAuthService(log *logger.Logger, jwtSecret string, adminEmails []string) AdminAuthService {
	serviceLog := log.With("service", "AdminAuthService")
	emails := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			emails[e] = struct{}{}
		}
	}
	secret := strings.TrimSpace(jwtSecret)
	if secret == "" {
		serviceLog.Warn("SUPABASE_JWT_SECRET not set; admin routes are unauthenticated")
	}
	return &adminAuthService{log: serviceLog, secret: []byte(secret), adminEmails: emails}
}

func (as *adminAuthService) Enabled() bool { return len(as.secret) > 0 }

func (as *adminAuthService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	if !as.Enabled() {
		return ctx, nil
	}
	if strings.TrimSpace(tokenString) == "" {
		return ctx, ErrMissingToken
	}
	parsed, err := jwt.ParseWithClaims(tokenString, &AdminClaims{}, func(token *jwt.Token) (interface{}, error) {
		return as.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return ctx, fmt.Errorf("%w: %v", ErrMissingToken, err)
	}
	claims, ok := parsed.Claims.(*AdminClaims)
	if !ok || !parsed.Valid {
		return ctx, ErrMissingToken
	}
	if !as.isAdmin(claims) {
		as.log.Warn("non-admin token rejected", "subject", claims.Subject)
		return ctx, ErrNotAdmin
	}
	return ctxutil.WithAdminData(ctx, &ctxutil.AdminData{
		Subject: claims.Subject,
		Email:   claims.Email,
		Role:    claims.Role,
	}), nil
}

func (as *adminAuthService) isAdmin(c *AdminClaims) bool {
	if c.Role == serviceRole {
		return true
	}
	_, ok := as.adminEmails[strings.ToLower(strings.TrimSpace(c.Email))]
	return ok
}
