package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Sources that are not backed by GORM only use Ctx.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}
