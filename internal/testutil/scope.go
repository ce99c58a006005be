package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/flexprice/rawusage/internal/types"
)

// scope is the tenant, environment and account a fake row belongs to
type scope struct {
	TenantID      string
	EnvironmentID string
	AccountID     string
}

func scopeFromContext(ctx context.Context) scope {
	return scope{
		TenantID:      types.GetTenantID(ctx),
		EnvironmentID: types.GetEnvironmentID(ctx),
		AccountID:     types.GetAccountID(ctx),
	}
}

// DateRange is a read issued against a fake store
type DateRange struct {
	Start time.Time
	End   time.Time
}

func (r DateRange) contains(date time.Time) bool {
	date = types.ToDate(date)
	return !date.Before(types.ToDate(r.Start)) && !date.After(types.ToDate(r.End))
}

// faults lets a test make a fake store fail and records the reads it served
type faults struct {
	mu    sync.Mutex
	err   error
	delay time.Duration
	calls []DateRange
}

// FailWith makes every following read return err. Pass nil to recover.
func (f *faults) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

// DelayBy makes every following read wait d (or until ctx is done)
func (f *faults) DelayBy(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delay = d
}

// Calls returns the ranges read so far
func (f *faults) Calls() []DateRange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]DateRange(nil), f.calls...)
}

func (f *faults) record(ctx context.Context, r DateRange) error {
	f.mu.Lock()
	f.calls = append(f.calls, r)
	err, delay := f.err, f.delay
	f.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
