package user

import (
	"time"

	"github.com/google/uuid"
)

// UserActivity records where a user was last seen from.
type UserActivity struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID            *uuid.UUID `gorm:"type:uuid;index;column:user_id" json:"user_id"`
	IPAddress         *string    `gorm:"column:ip_address" json:"ip_address"`
	DeviceFingerprint *string    `gorm:"column:device_fingerprint" json:"device_fingerprint"`
	CreatedAt         time.Time  `gorm:"not null;autoCreateTime;index" json:"created_at"`
}

func (UserActivity) TableName() string { return "user_activity" }
