package user

import (
	types "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain"
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/platform/dbctx"
)

// UserSource lists every user record the resolver should consider.
type UserSource interface {
	ListAll(dbc dbctx.Context) ([]*types.UserData, error)
}

// SignalSource lists activity rows that carry an IP address, in storage
// order (created_at, id).
type SignalSource interface {
	ListWithIP(dbc dbctx.Context) ([]*types.UserActivity, error)
}

var (
	_ UserSource   = (*userDataRepo)(nil)
	_ SignalSource = (*userActivityRepo)(nil)
)
