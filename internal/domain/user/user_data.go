package user

import (
	"time"

	"github.com/google/uuid"
)

// UserData is the product-side user record. Anonymous quiz takers get a row
// before they ever register.
type UserData struct {
	UserID              uuid.UUID  `gorm:"type:uuid;primaryKey;column:user_id" json:"user_id"`
	IsAnonymous         bool       `gorm:"not null;default:false;column:is_anonymous" json:"is_anonymous"`
	TotalPaidGeneration int        `gorm:"not null;default:0;column:total_paid_generation" json:"total_paid_generation"`
	LastUsed            *time.Time `gorm:"column:last_used" json:"last_used,omitempty"`
	CreatedAt           time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
}

func (UserData) TableName() string { return "user_data" }
