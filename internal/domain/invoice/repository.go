package invoice

import (
	"context"
	"time"
)

// TrackingRepository reads tracking rows for the account carried in ctx
type TrackingRepository interface {
	// GetTrackingsByDateRange returns tracking rows whose record date lies
	// within [startDate, endDate], both ends inclusive.
	GetTrackingsByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*TrackingRecord, error)
}
