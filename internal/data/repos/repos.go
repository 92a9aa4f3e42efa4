package repos

import (
	"github.com/yash1900/Fraterny-Nextjs-sub005/internal/data/repos/user"
)

type UserDataRepo = user.UserDataRepo
type UserActivityRepo = user.UserActivityRepo

type UserSource = user.UserSource
type SignalSource = user.SignalSource

var (
	NewUserDataRepo     = user.NewUserDataRepo
	NewUserActivityRepo = user.NewUserActivityRepo
)
