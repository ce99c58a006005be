package testutil

import (
	"context"
	"time"

	"github.com/flexprice/rawusage/internal/domain/invoice"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
)

// InMemoryTrackingStore implements invoice.TrackingRepository
type InMemoryTrackingStore struct {
	*InMemoryStore[*invoice.TrackingRecord]
	faults
}

func NewInMemoryTrackingStore() *InMemoryTrackingStore {
	return &InMemoryTrackingStore{
		InMemoryStore: NewInMemoryStore[*invoice.TrackingRecord](),
	}
}

func copyTracking(t *invoice.TrackingRecord) *invoice.TrackingRecord {
	if t == nil {
		return nil
	}
	copied := *t
	return &copied
}

// CreateTracking stores a tracking row, scoped to ctx unless the row already carries a scope
func (s *InMemoryTrackingStore) CreateTracking(ctx context.Context, t *invoice.TrackingRecord) error {
	if t == nil {
		return ierr.NewError("tracking record cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if t.ID == "" {
		t.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TRACKING)
	}

	sc := scopeFromContext(ctx)
	stored := copyTracking(t)
	stored.RecordDate = types.ToDate(stored.RecordDate)
	if stored.TenantID == "" {
		stored.TenantID = sc.TenantID
	}
	if stored.EnvironmentID == "" {
		stored.EnvironmentID = sc.EnvironmentID
	}
	if stored.AccountID == "" {
		stored.AccountID = sc.AccountID
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	return s.InMemoryStore.Create(ctx, t.ID, stored)
}

func (s *InMemoryTrackingStore) GetTrackingsByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*invoice.TrackingRecord, error) {
	r := DateRange{Start: startDate, End: endDate}
	if err := s.record(ctx, r); err != nil {
		return nil, err
	}

	rows, err := s.InMemoryStore.List(ctx, r, trackingFilterFn, trackingSortFn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoice trackings").
			Mark(ierr.ErrDatabase)
	}

	records := make([]*invoice.TrackingRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, copyTracking(row))
	}
	return records, nil
}

func trackingFilterFn(ctx context.Context, t *invoice.TrackingRecord, filter interface{}) bool {
	r, ok := filter.(DateRange)
	if !ok {
		return false
	}
	sc := scopeFromContext(ctx)
	return t.TenantID == sc.TenantID &&
		t.EnvironmentID == sc.EnvironmentID &&
		t.AccountID == sc.AccountID &&
		r.contains(t.RecordDate)
}

func trackingSortFn(i, j *invoice.TrackingRecord) bool {
	if !i.RecordDate.Equal(j.RecordDate) {
		return i.RecordDate.Before(j.RecordDate)
	}
	return i.ID < j.ID
}
