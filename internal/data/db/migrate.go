package db

import (
	"fmt"

	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
	"gorm.io/gorm"
)

// AutoMigrateAll creates the tables the resolver reads. In production they
// are owned by the hosted database; this is for local and test databases.
func AutoMigrateAll(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&types.UserData{},
		&types.UserActivity{},
	); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

// EnsureActivityIndexes adds the partial index used by the signal scan.
func EnsureActivityIndexes(db *gorm.DB) error {
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_user_activity_ip_seen ON user_activity (created_at, id) WHERE ip_address IS NOT NULL;`).Error; err != nil {
		return fmt.Errorf("create idx_user_activity_ip_seen: %w", err)
	}
	return nil
}
