package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
)

func SeedUserData(tb testing.TB, ctx context.Context, tx *gorm.DB, anonymous bool, paid int, lastUsed *time.Time, createdAt time.Time) *types.UserData {
	tb.Helper()
	u := &types.UserData{
		UserID:              uuid.New(),
		IsAnonymous:         anonymous,
		TotalPaidGeneration: paid,
		LastUsed:            lastUsed,
		CreatedAt:           createdAt,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user_data: %v", err)
	}
	return u
}

func SeedActivity(tb testing.TB, ctx context.Context, tx *gorm.DB, userID *uuid.UUID, ip, fingerprint *string, createdAt time.Time) *types.UserActivity {
	tb.Helper()
	a := &types.UserActivity{
		ID:                uuid.New(),
		UserID:            userID,
		IPAddress:         ip,
		DeviceFingerprint: fingerprint,
		CreatedAt:         createdAt,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed user_activity: %v", err)
	}
	return a
}

func Str(s string) *string { return &s }
