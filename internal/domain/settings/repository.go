package settings

import "context"

// Repository reads settings for the tenant and environment carried in ctx
type Repository interface {
	// GetByKey returns the setting or an ErrNotFound marked error
	GetByKey(ctx context.Context, key string) (*Setting, error)
}
