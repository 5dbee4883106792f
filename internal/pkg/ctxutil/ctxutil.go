package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

// Default returns context.Background() when ctx is nil.
func Default(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

type tenantContextKey struct{}

// TenantContext carries the identity supplied by the auth collaborator.
// The core never authenticates; it only reads this.
type TenantContext struct {
	TenantID  uuid.UUID
	Role      string
	LearnerID uuid.UUID
}

func WithTenantContext(ctx context.Context, tc *TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey{}, tc)
}

func GetTenantContext(ctx context.Context) *TenantContext {
	tc, ok := ctx.Value(tenantContextKey{}).(*TenantContext)
	if !ok {
		return nil
	}
	return tc
}
