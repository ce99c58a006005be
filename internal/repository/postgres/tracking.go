package postgres

import (
	"context"
	"time"

	"github.com/flexprice/rawusage/internal/domain/invoice"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/flexprice/rawusage/internal/postgres"
	"github.com/flexprice/rawusage/internal/sentry"
	"github.com/flexprice/rawusage/internal/types"
)

const trackingsByDateRangeQuery = `
	SELECT id, tracking_id, invoice_id, subscription_id, unit_type, record_date,
		account_id, tenant_id, environment_id, created_at
	FROM ` + string(types.TableNameInvoiceTrackings) + `
	WHERE tenant_id = $1
	AND environment_id = $2
	AND account_id = $3
	AND record_date >= $4
	AND record_date <= $5
	AND status = $6
	ORDER BY record_date ASC, id ASC`

type trackingRepository struct {
	client *postgres.Client
	log    *logger.Logger
}

func NewTrackingRepository(client *postgres.Client, log *logger.Logger) invoice.TrackingRepository {
	return &trackingRepository{client: client, log: log}
}

func (r *trackingRepository) GetTrackingsByDateRange(ctx context.Context, startDate, endDate time.Time) ([]*invoice.TrackingRecord, error) {
	accountID := types.GetAccountID(ctx)

	span := sentry.StartRepositorySpan(ctx, "invoice_tracking", "get_by_date_range", map[string]interface{}{
		"account_id": accountID,
		"start_date": types.FormatDate(startDate),
		"end_date":   types.FormatDate(endDate),
	})
	defer sentry.FinishSpan(span)

	if accountID == "" {
		err := ierr.NewError("account id is required").
			WithHint("Invoice trackings can only be read for a single account").
			Mark(ierr.ErrValidation)
		sentry.SetSpanError(span, err)
		return nil, err
	}

	r.log.Debugw("listing invoice trackings",
		"account_id", accountID,
		"start_date", types.FormatDate(startDate),
		"end_date", types.FormatDate(endDate),
	)

	rows, err := r.client.DB().QueryContext(ctx, trackingsByDateRangeQuery,
		types.GetTenantID(ctx),
		types.GetEnvironmentID(ctx),
		accountID,
		types.ToDate(startDate),
		types.ToDate(endDate),
		types.StatusPublished,
	)
	if err != nil {
		sentry.SetSpanError(span, err)
		return nil, ierr.WithError(postgres.Classify(err)).
			WithHint("Failed to list invoice trackings").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var records []*invoice.TrackingRecord
	for rows.Next() {
		var t invoice.TrackingRecord
		if err := rows.Scan(
			&t.ID,
			&t.TrackingID,
			&t.InvoiceID,
			&t.SubscriptionID,
			&t.UnitType,
			&t.RecordDate,
			&t.AccountID,
			&t.TenantID,
			&t.EnvironmentID,
			&t.CreatedAt,
		); err != nil {
			sentry.SetSpanError(span, err)
			return nil, ierr.WithError(err).
				WithHint("Failed to scan invoice tracking").
				Mark(ierr.ErrDatabase)
		}
		t.RecordDate = types.ToDate(t.RecordDate)
		records = append(records, &t)
	}

	if err := rows.Err(); err != nil {
		sentry.SetSpanError(span, err)
		return nil, ierr.WithError(postgres.Classify(err)).
			WithHint("Failed to read invoice trackings").
			Mark(ierr.ErrDatabase)
	}

	sentry.SetSpanSuccess(span)
	return records, nil
}
