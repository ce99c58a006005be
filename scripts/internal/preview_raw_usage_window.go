package internal

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/flexprice/rawusage/internal/app"
	"github.com/flexprice/rawusage/internal/domain/usage"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/flexprice/rawusage/internal/sentry"
	"github.com/flexprice/rawusage/internal/service"
	"github.com/flexprice/rawusage/internal/types"
	"go.uber.org/fx"
)

// PreviewRawUsageWindow prints the raw usage window an in-arrear invoice run
// would read for one account, together with what it found in it.
//
// Environment:
//
//	TENANT_ID, ENVIRONMENT_ID, ACCOUNT_ID  scope of the run
//	FIRST_EVENT_DATE, TARGET_DATE          YYYY-MM-DD
//	USAGE                                  usage_id=BILLING_PERIOD pairs, comma separated
func PreviewRawUsageWindow() error {
	req, err := previewRequestFromEnv(os.Getenv)
	if err != nil {
		return err
	}

	var (
		optimizer service.RawUsageOptimizer
		log       *logger.Logger
		sentrySvc *sentry.Service
	)
	fxApp := fx.New(
		app.Module,
		app.Logger,
		fx.Populate(&optimizer, &log, &sentrySvc),
	)

	startCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		return fmt.Errorf("failed to start application: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = fxApp.Stop(stopCtx)
	}()

	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	ctx = types.SetTenantID(ctx, os.Getenv("TENANT_ID"))
	ctx = types.SetEnvironmentID(ctx, os.Getenv("ENVIRONMENT_ID"))
	ctx = types.SetAccountID(ctx, os.Getenv("ACCOUNT_ID"))
	ctx = sentrySvc.WithHub(ctx)

	result, err := optimizer.GetInArrearUsage(ctx, req)
	if err != nil {
		sentrySvc.CaptureException(ctx, err)
		return fmt.Errorf("failed to load in-arrear usage: %w", err)
	}

	log.WithContext(ctx).Infow("raw usage window",
		"start_date", types.FormatDate(result.StartDate()),
		"target_date", types.FormatDate(req.TargetDate),
		"raw_usage_records", len(result.RawUsage()),
		"existing_tracking_ids", result.ExistingTrackingIDs().Len(),
	)
	return nil
}

func previewRequestFromEnv(getenv func(string) string) (*service.InArrearUsageRequest, error) {
	first, err := time.Parse(time.DateOnly, getenv("FIRST_EVENT_DATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid FIRST_EVENT_DATE: %w", err)
	}
	target, err := time.Parse(time.DateOnly, getenv("TARGET_DATE"))
	if err != nil {
		return nil, fmt.Errorf("invalid TARGET_DATE: %w", err)
	}
	defs, err := parseUsageDefinitions(getenv("USAGE"))
	if err != nil {
		return nil, err
	}

	return &service.InArrearUsageRequest{
		FirstEventStartDate: first,
		TargetDate:          target,
		KnownUsage:          defs,
	}, nil
}

// parseUsageDefinitions reads "api_calls=MONTHLY,storage_gb=ANNUAL"
func parseUsageDefinitions(raw string) (usage.Definitions, error) {
	defs := usage.Definitions{}
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		id, period, ok := strings.Cut(pair, "=")
		if !ok || id == "" {
			return nil, fmt.Errorf("invalid usage definition %q, expected usage_id=BILLING_PERIOD", pair)
		}
		bp := types.BillingPeriod(strings.ToUpper(strings.TrimSpace(period)))
		if err := bp.Validate(); err != nil {
			return nil, fmt.Errorf("invalid billing period for usage %s: %w", id, err)
		}
		defs[strings.TrimSpace(id)] = &usage.Definition{UsageID: strings.TrimSpace(id), BillingPeriod: bp}
	}
	return defs, nil
}
