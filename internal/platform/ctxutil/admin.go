package ctxutil

import "context"

type adminDataKey struct{}

// AdminData identifies the authenticated caller of an admin route.
type AdminData struct {
	Subject string
	Email   string
	Role    string
}

func WithAdminData(ctx context.Context, ad *AdminData) context.Context {
	return context.WithValue(ctx, adminDataKey{}, ad)
}

func GetAdminData(ctx context.Context) *AdminData {
	if ad, ok := ctx.Value(adminDataKey{}).(*AdminData); ok {
		return ad
	}
	return nil
}

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
