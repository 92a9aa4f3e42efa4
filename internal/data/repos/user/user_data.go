package user

import (
	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/dbctx"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/logger"
	"gorm.io/gorm"
)

type UserDataRepo interface {
	Create(dbc dbctx.Context, rows []*types.UserData) ([]*types.UserData, error)
	ListAll(dbc dbctx.Context) ([]*types.UserData, error)
}

type userDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserDataRepo(db *gorm.DB, baseLog *logger.Logger) UserDataRepo {
	repoLog := baseLog.With("repo", "UserDataRepo")
	return &userDataRepo{db: db, log: repoLog}
}

func (r *userDataRepo) Create(dbc dbctx.Context, rows []*types.UserData) ([]*types.UserData, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}
	if len(rows) == 0 {
		return []*types.UserData{}, nil
	}
	if err := transaction.WithContext(dbc.Ctx).Create(&rows).Error; err != nil {
		return nil, classify(r.log, "create user_data", err)
	}
	return rows, nil
}

// ListAll returns every user record in insertion order.
func (r *userDataRepo) ListAll(dbc dbctx.Context) ([]*types.UserData, error) {
	transaction := dbc.Tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserData
	if err := transaction.WithContext(dbc.Ctx).
		Order("created_at ASC").
		Order("user_id ASC").
		Find(&results).Error; err != nil {
		return nil, classify(r.log, "list user_data", err)
	}
	return results, nil
}
