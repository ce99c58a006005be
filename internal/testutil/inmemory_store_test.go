package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/flexprice/rawusage/internal/domain/invoice"
	"github.com/flexprice/rawusage/internal/domain/settings"
	"github.com/flexprice/rawusage/internal/domain/usage"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scopedContext(accountID string) context.Context {
	ctx := types.SetTenantID(context.Background(), TestTenantID)
	ctx = types.SetEnvironmentID(ctx, TestEnvironmentID)
	return types.SetAccountID(ctx, accountID)
}

func TestInMemoryStore_CRUD(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore[string]()

	require.NoError(t, store.Create(ctx, "a", "alpha"))
	err := store.Create(ctx, "a", "again")
	assert.True(t, errors.Is(err, ierr.ErrAlreadyExists))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "alpha", got)

	require.NoError(t, store.Update(ctx, "a", "beta"))
	got, _ = store.Get(ctx, "a")
	assert.Equal(t, "beta", got)

	assert.True(t, ierr.IsNotFound(store.Update(ctx, "missing", "x")))
	require.NoError(t, store.Delete(ctx, "a"))
	_, err = store.Get(ctx, "a")
	assert.True(t, ierr.IsNotFound(err))
}

func TestInMemoryStore_ListAndCount(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryStore[int]()
	for i, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Create(ctx, id, i))
	}

	even := func(_ context.Context, item int, _ interface{}) bool { return item%2 == 0 }
	desc := func(i, j int) bool { return i > j }

	items, err := store.List(ctx, nil, even, desc)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 0}, items)

	count, err := store.Count(ctx, nil, even)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	store.Clear()
	count, _ = store.Count(ctx, nil, nil)
	assert.Zero(t, count)
}

func TestInMemoryRawUsageStore_RangeAndScope(t *testing.T) {
	ctx := scopedContext("acct_1")
	other := scopedContext("acct_2")
	store := NewInMemoryRawUsageStore()

	for _, d := range []time.Time{
		types.NewDate(2023, time.May, 14),
		types.NewDate(2023, time.May, 15),
		types.NewDate(2023, time.June, 15),
		types.NewDate(2023, time.June, 16),
	} {
		require.NoError(t, store.CreateRawUsage(ctx, &usage.RawUsageRecord{
			SubscriptionID: "subs_1",
			UnitType:       "api_calls",
			RecordDate:     d,
			Amount:         decimal.NewFromInt(1),
		}))
	}
	require.NoError(t, store.CreateRawUsage(other, &usage.RawUsageRecord{
		UnitType:   "api_calls",
		RecordDate: types.NewDate(2023, time.June, 1),
	}))

	records, err := store.GetRawUsageForAccount(ctx, types.NewDate(2023, time.May, 15), types.NewDate(2023, time.June, 15))
	require.NoError(t, err)
	assert.Equal(t,
		[]time.Time{types.NewDate(2023, time.May, 15), types.NewDate(2023, time.June, 15)},
		lo.Map(records, func(r *usage.RawUsageRecord, _ int) time.Time { return r.RecordDate }),
	)
	assert.True(t, types.HasUUIDPrefix(records[0].ID, types.UUID_PREFIX_RAW_USAGE))

	records, err = store.GetRawUsageForAccount(ctx, types.NewDate(2023, time.June, 2), types.NewDate(2023, time.June, 1))
	require.NoError(t, err)
	assert.Empty(t, records)

	assert.Len(t, store.Calls(), 2)
}

func TestInMemoryRawUsageStore_FailWith(t *testing.T) {
	store := NewInMemoryRawUsageStore()
	boom := errors.New("boom")
	store.FailWith(boom)

	_, err := store.GetRawUsageForAccount(scopedContext("acct_1"), time.Now(), time.Now())
	assert.ErrorIs(t, err, boom)

	store.FailWith(nil)
	_, err = store.GetRawUsageForAccount(scopedContext("acct_1"), time.Now(), time.Now())
	assert.NoError(t, err)
}

func TestInMemoryRawUsageStore_DelayHonoursContext(t *testing.T) {
	store := NewInMemoryRawUsageStore()
	store.DelayBy(time.Minute)

	ctx, cancel := context.WithCancel(scopedContext("acct_1"))
	cancel()

	_, err := store.GetRawUsageForAccount(ctx, time.Now(), time.Now())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestInMemoryTrackingStore_Scope(t *testing.T) {
	ctx := scopedContext("acct_1")
	store := NewInMemoryTrackingStore()

	require.NoError(t, store.CreateTracking(ctx, &invoice.TrackingRecord{
		TrackingID: "t1", InvoiceID: "inv_1", SubscriptionID: "subs_1", UnitType: "api_calls",
		RecordDate: time.Date(2023, time.June, 1, 15, 0, 0, 0, time.UTC),
	}))
	require.NoError(t, store.CreateTracking(scopedContext("acct_2"), &invoice.TrackingRecord{
		TrackingID: "t2", InvoiceID: "inv_2", SubscriptionID: "subs_2", UnitType: "api_calls",
		RecordDate: types.NewDate(2023, time.June, 1),
	}))

	records, err := store.GetTrackingsByDateRange(ctx, types.NewDate(2023, time.June, 1), types.NewDate(2023, time.June, 1))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "t1", records[0].TrackingID)
	assert.Equal(t, types.NewDate(2023, time.June, 1), records[0].RecordDate)
	assert.True(t, types.HasUUIDPrefix(records[0].ID, types.UUID_PREFIX_TRACKING))
}

func TestInMemorySettingsStore(t *testing.T) {
	ctx := scopedContext("acct_1")
	store := NewInMemorySettingsStore()

	_, err := store.GetByKey(ctx, "invoice_config")
	assert.True(t, ierr.IsNotFound(err))

	require.NoError(t, store.CreateSetting(ctx, &settings.Setting{
		Key:   "invoice_config",
		Value: map[string]interface{}{"max_raw_usage_previous_period": 4},
	}))

	setting, err := store.GetByKey(ctx, "invoice_config")
	require.NoError(t, err)
	assert.Equal(t, TestTenantID, setting.TenantID)

	otherEnv := types.SetEnvironmentID(ctx, "env_other")
	_, err = store.GetByKey(otherEnv, "invoice_config")
	assert.True(t, ierr.IsNotFound(err))

	assert.Equal(t, 3, store.Reads())
}

func TestFixedClock(t *testing.T) {
	c := NewFixedClock(time.Date(2023, time.July, 15, 22, 0, 0, 0, time.UTC))

	today, err := c.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, types.NewDate(2023, time.July, 15), today)

	c.FailWith(errors.New("ntp down"))
	_, err = c.Today(context.Background())
	assert.Error(t, err)
	assert.Equal(t, 2, c.Reads())
}
