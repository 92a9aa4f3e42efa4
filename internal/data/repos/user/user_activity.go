package user

import (
	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/dbctx"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
	"gorm.io/gorm"
)

type UserActivityRepo interface {
	Create(dbc dbctx.Context, rows []*types.UserActivity) ([]*types.UserActivity, error)
	ListWithIP(dbc dbctx.Context) ([]*types.UserActivity, error)
}

type userActivityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserActivityRepo(db *gorm.DB, baseLog *logger.Logger) UserActivityRepo {
	repoLog := baseLog.With("repo", "UserActivityRepo")
	return &userActivityRepo{db: db, log: repoLog}
}

func (r *userActivityRepo) Create(dbc dbctx.Context, rows []*types.UserActivity) ([]*types.UserActivity, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.UserActivity{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, classify(r.log, "create user_activity", err)
	}
	return rows, nil
}

// ListWithIP returns activity rows that carry both a user and an IP address,
// oldest first.
func (r *userActivityRepo) ListWithIP(dbc dbctx.Context) ([]*types.UserActivity, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserActivity
	if err := transaction.WithContext(dbc.Ctx).
		Select("id", "user_id", "ip_address", "device_fingerprint", "created_at").
		Where("ip_address IS NOT NULL").
		Where("user_id IS NOT NULL").
		Order("created_at ASC").
		Order("id ASC").
		Find(&results).Error; err != nil {
		return nil, classify(r.log, "list user_activity", err)
	}
	return results, nil
}
