package testutil

import (
	"context"
	"time"

	"github.com/flexprice/rawusage/internal/domain/usage"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
)

type scopedRawUsage struct {
	scope
	record *usage.RawUsageRecord
}

// InMemoryRawUsageStore implements usage.Repository
type InMemoryRawUsageStore struct {
	*InMemoryStore[*scopedRawUsage]
	faults
}

func NewInMemoryRawUsageStore() *InMemoryRawUsageStore {
	return &InMemoryRawUsageStore{
		InMemoryStore: NewInMemoryStore[*scopedRawUsage](),
	}
}

func copyRawUsage(r *usage.RawUsageRecord) *usage.RawUsageRecord {
	if r == nil {
		return nil
	}
	copied := *r
	return &copied
}

// CreateRawUsage stores a record for the account carried in ctx
func (s *InMemoryRawUsageStore) CreateRawUsage(ctx context.Context, record *usage.RawUsageRecord) error {
	if record == nil {
		return ierr.NewError("raw usage record cannot be nil").
			Mark(ierr.ErrValidation)
	}
	if record.ID == "" {
		record.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_RAW_USAGE)
	}

	stored := copyRawUsage(record)
	stored.RecordDate = types.ToDate(stored.RecordDate)

	return s.InMemoryStore.Create(ctx, record.ID, &scopedRawUsage{
		scope:  scopeFromContext(ctx),
		record: stored,
	})
}

func (s *InMemoryRawUsageStore) GetRawUsageForAccount(ctx context.Context, startDate, endDate time.Time) ([]*usage.RawUsageRecord, error) {
	r := DateRange{Start: startDate, End: endDate}
	if err := s.record(ctx, r); err != nil {
		return nil, err
	}

	rows, err := s.InMemoryStore.List(ctx, r, rawUsageFilterFn, rawUsageSortFn)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list raw usage").
			Mark(ierr.ErrDatabase)
	}

	records := make([]*usage.RawUsageRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, copyRawUsage(row.record))
	}
	return records, nil
}

func rawUsageFilterFn(ctx context.Context, row *scopedRawUsage, filter interface{}) bool {
	r, ok := filter.(DateRange)
	if !ok {
		return false
	}
	return row.scope == scopeFromContext(ctx) && r.contains(row.record.RecordDate)
}

func rawUsageSortFn(i, j *scopedRawUsage) bool {
	if !i.record.RecordDate.Equal(j.record.RecordDate) {
		return i.record.RecordDate.Before(j.record.RecordDate)
	}
	return i.record.ID < j.record.ID
}
