package domain

import "github.com/yash1900/Fraterny-Nextjs-sub005/internal/domain/user"

type (
	UserData     = user.UserData
	UserActivity = user.UserActivity
)
