package usage

import (
	"context"
	"time"
)

// Repository reads raw usage for the account carried in ctx
type Repository interface {
	// GetRawUsageForAccount returns every raw usage record dated within
	// [startDate, endDate], both ends inclusive, ordered by record date.
	GetRawUsageForAccount(ctx context.Context, startDate, endDate time.Time) ([]*RawUsageRecord, error)
}
