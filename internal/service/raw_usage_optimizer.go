package service

import (
	"context"
	"slices"
	"time"

	"github.com/flexprice/rawusage/internal/domain/invoice"
	"github.com/flexprice/rawusage/internal/domain/usage"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/flexprice/rawusage/internal/validator"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

// RawUsageOptimizer narrows the raw usage fetched for an in-arrear invoice to
// the smallest window that can still affect an unbilled period.
type RawUsageOptimizer interface {
	// GetInArrearUsage computes the optimized start date for the request and
	// loads the raw usage and existing tracking ids between it and the target date.
	GetInArrearUsage(ctx context.Context, req *InArrearUsageRequest) (*RawUsageOptimizerResult, error)

	// OptimizedRawUsageStartDate returns the earliest date whose raw usage must
	// be loaded. A negative configuredLookback disables the optimization and
	// returns firstEventStartDate.
	OptimizedRawUsageStartDate(
		ctx context.Context,
		firstEventStartDate time.Time,
		targetDate time.Time,
		definitions usage.Definitions,
		configuredLookback int,
	) (time.Time, error)
}

// InArrearUsageRequest describes the invoice run raw usage is loaded for.
// The account is taken from ctx.
type InArrearUsageRequest struct {
	// FirstEventStartDate is the earliest billing event of the account
	FirstEventStartDate time.Time `json:"first_event_start_date" validate:"required"`
	// TargetDate is the invoice target date, the inclusive end of the window
	TargetDate time.Time `json:"target_date" validate:"required"`
	// KnownUsage maps every usage id in play to its catalog definition
	KnownUsage usage.Definitions `json:"known_usage"`
}

func (r *InArrearUsageRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// RawUsageOptimizerResult is the outcome of GetInArrearUsage. It is read only,
// the accessors hand out copies.
type RawUsageOptimizerResult struct {
	startDate           time.Time
	rawUsage            []*usage.RawUsageRecord
	existingTrackingIDs invoice.TrackingRecordIDSet
}

func (r *RawUsageOptimizerResult) StartDate() time.Time {
	return r.startDate
}

// RawUsage returns the records dated within [StartDate, target date]
func (r *RawUsageOptimizerResult) RawUsage() []*usage.RawUsageRecord {
	return slices.Clone(r.rawUsage)
}

// ExistingTrackingIDs returns the keys of usage already billed in the window
func (r *RawUsageOptimizerResult) ExistingTrackingIDs() invoice.TrackingRecordIDSet {
	return r.existingTrackingIDs.Clone()
}

type rawUsageOptimizer struct {
	ServiceParams
	invoiceConfig InvoiceConfigProvider
}

func NewRawUsageOptimizer(params ServiceParams, invoiceConfig InvoiceConfigProvider) RawUsageOptimizer {
	return &rawUsageOptimizer{
		ServiceParams: params,
		invoiceConfig: invoiceConfig,
	}
}

func (s *rawUsageOptimizer) GetInArrearUsage(ctx context.Context, req *InArrearUsageRequest) (*RawUsageOptimizerResult, error) {
	if req == nil {
		return nil, ierr.NewError("request is required").
			WithHint("Please provide the invoice run to load raw usage for").
			Mark(ierr.ErrValidation)
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lookback, err := s.invoiceConfig.GetMaxRawUsagePreviousPeriod(ctx)
	if err != nil {
		return nil, err
	}

	startDate, err := s.OptimizedRawUsageStartDate(ctx, req.FirstEventStartDate, req.TargetDate, req.KnownUsage, lookback)
	if err != nil {
		return nil, err
	}
	targetDate := types.ToDate(req.TargetDate)

	s.Logger.WithContext(ctx).Debugw("optimized in-arrear raw usage window",
		"account_id", types.GetAccountID(ctx),
		"max_raw_usage_previous_period", lookback,
		"first_event_start_date", types.FormatDate(types.ToDate(req.FirstEventStartDate)),
		"optimized_start_date", types.FormatDate(startDate),
		"target_date", types.FormatDate(targetDate),
	)

	var (
		rawUsage  []*usage.RawUsageRecord
		trackings []*invoice.TrackingRecord
	)

	// Both reads must succeed. The pool joins the errors of every failed read.
	p := pool.New().WithErrors().WithContext(ctx)
	p.Go(func(ctx context.Context) error {
		records, err := s.RawUsageRepo.GetRawUsageForAccount(ctx, startDate, targetDate)
		if err != nil {
			return readError(err, "raw usage", startDate, targetDate)
		}
		rawUsage = records
		return nil
	})
	p.Go(func(ctx context.Context) error {
		records, err := s.TrackingRepo.GetTrackingsByDateRange(ctx, startDate, targetDate)
		if err != nil {
			return readError(err, "invoice tracking", startDate, targetDate)
		}
		trackings = records
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	return &RawUsageOptimizerResult{
		startDate:           startDate,
		rawUsage:            rawUsage,
		existingTrackingIDs: invoice.NewTrackingRecordIDSet(trackings),
	}, nil
}

// readError wraps a failed read. Rejected requests stay validation errors,
// everything else is reported as an unavailable store.
func readError(err error, store string, startDate, endDate time.Time) error {
	mark := ierr.ErrStoreUnavailable
	if ierr.IsValidation(err) {
		mark = ierr.ErrValidation
	}

	return ierr.WithError(err).
		WithHintf("Failed to load %s", store).
		WithReportableDetails(map[string]any{
			"store":      store,
			"start_date": types.FormatDate(startDate),
			"end_date":   types.FormatDate(endDate),
		}).
		Mark(mark)
}

// periodWindow is the lower bound one billing cadence imposes on the window
type periodWindow struct {
	period types.BillingPeriod
	// boundary is the start of the most recent complete period ending at or
	// before the effective date
	boundary time.Time
	// candidate is boundary moved back by the configured lookback
	candidate time.Time
}

func (s *rawUsageOptimizer) OptimizedRawUsageStartDate(
	ctx context.Context,
	firstEventStartDate time.Time,
	targetDate time.Time,
	definitions usage.Definitions,
	configuredLookback int,
) (time.Time, error) {
	firstEventStartDate = types.ToDate(firstEventStartDate)
	targetDate = types.ToDate(targetDate)

	if configuredLookback < 0 {
		return firstEventStartDate, nil
	}

	if err := definitions.Validate(); err != nil {
		return time.Time{}, err
	}

	today, err := s.Clock.Today(ctx)
	if err != nil {
		return time.Time{}, ierr.WithError(err).
			WithHint("Could not read the current date").
			Mark(ierr.ErrClockUnavailable)
	}

	// Usage past today cannot exist yet
	effectiveDate := types.MinDate(types.ToDate(today), targetDate)

	windows := make([]periodWindow, 0, len(definitions))
	for _, bp := range definitions.BillingPeriods() {
		boundary, err := types.RecedeByNPeriods(effectiveDate, bp, 1)
		if err != nil {
			return time.Time{}, err
		}
		candidate, err := types.RecedeByNPeriods(boundary, bp, configuredLookback)
		if err != nil {
			return time.Time{}, err
		}
		windows = append(windows, periodWindow{period: bp, boundary: boundary, candidate: candidate})
	}

	startDate := lo.Reduce(windows, func(earliest time.Time, w periodWindow, _ int) time.Time {
		return types.MinDate(earliest, w.candidate)
	}, targetDate)

	return types.MaxDate(startDate, firstEventStartDate), nil
}
