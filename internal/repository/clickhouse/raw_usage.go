package clickhouse

import (
	"context"
	"time"

	"github.com/flexprice/rawusage/internal/clickhouse"
	"github.com/flexprice/rawusage/internal/domain/usage"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/flexprice/rawusage/internal/sentry"
	"github.com/flexprice/rawusage/internal/types"
)

type RawUsageRepository struct {
	store  *clickhouse.ClickHouseStore
	logger *logger.Logger
}

func NewRawUsageRepository(store *clickhouse.ClickHouseStore, logger *logger.Logger) usage.Repository {
	return &RawUsageRepository{store: store, logger: logger}
}

// rawUsageQuery is a filter over the raw_usage table.
// Table layout:
// - ORDER BY: (tenant_id, environment_id, account_id, record_date, id)
// - PARTITION BY: toYYYYMM(record_date)
// - ENGINE: ReplacingMergeTree(version)
type rawUsageQuery struct {
	TenantID      string
	EnvironmentID string
	AccountID     string
	StartDate     time.Time
	EndDate       time.Time
}

// newRawUsageQuery scopes the read to the account in ctx. An inverted range
// is accepted and matches no rows.
func newRawUsageQuery(ctx context.Context, startDate, endDate time.Time) (*rawUsageQuery, error) {
	q := &rawUsageQuery{
		TenantID:      types.GetTenantID(ctx),
		EnvironmentID: types.GetEnvironmentID(ctx),
		AccountID:     types.GetAccountID(ctx),
		StartDate:     types.ToDate(startDate),
		EndDate:       types.ToDate(endDate),
	}

	if q.AccountID == "" {
		return nil, ierr.NewError("account id is required").
			WithHint("Raw usage can only be read for a single account").
			Mark(ierr.ErrValidation)
	}

	return q, nil
}

// build returns the SQL and its positional args. Filters follow the sort
// key order so ClickHouse can use the primary index.
func (q *rawUsageQuery) build() (string, []interface{}) {
	query := `
		SELECT
			id, subscription_id, unit_type, record_date, amount, tracking_id
		FROM ` + string(types.TableNameRawUsage) + ` FINAL
		WHERE tenant_id = ?
		AND environment_id = ?
		AND account_id = ?
		AND record_date >= ?
		AND record_date <= ?
		AND sign = 1
		ORDER BY record_date ASC, id ASC`

	args := []interface{}{
		q.TenantID,
		q.EnvironmentID,
		q.AccountID,
		q.StartDate,
		q.EndDate,
	}
	return query, args
}

func (r *RawUsageRepository) GetRawUsageForAccount(ctx context.Context, startDate, endDate time.Time) ([]*usage.RawUsageRecord, error) {
	span := sentry.StartRepositorySpan(ctx, "raw_usage", "get_raw_usage_for_account", map[string]interface{}{
		"account_id": types.GetAccountID(ctx),
		"start_date": types.FormatDate(startDate),
		"end_date":   types.FormatDate(endDate),
	})
	defer sentry.FinishSpan(span)

	q, err := newRawUsageQuery(ctx, startDate, endDate)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, err
	}

	query, args := q.build()

	r.logger.Debugw("executing raw usage query",
		"account_id", q.AccountID,
		"start_date", types.FormatDate(q.StartDate),
		"end_date", types.FormatDate(q.EndDate),
	)

	rows, err := r.store.GetConn().Query(ctx, query, args...)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to query raw usage").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var records []*usage.RawUsageRecord
	for rows.Next() {
		var record usage.RawUsageRecord
		if err := rows.Scan(
			&record.ID,
			&record.SubscriptionID,
			&record.UnitType,
			&record.RecordDate,
			&record.Amount,
			&record.TrackingID,
		); err != nil {
			sentry.SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHint("Failed to scan raw usage").
				Mark(ierr.ErrDatabase)
		}
		record.RecordDate = types.ToDate(record.RecordDate)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		sentry.SetSpanError(span, err)
		return nil, ierr.WithError(err).
			WithHint("Failed to read raw usage rows").
			Mark(ierr.ErrDatabase)
	}

	sentry.SetSpanSuccess(span)
	return records, nil
}
