package service

import (
	"context"

	"github.com/flexprice/rawusage/internal/cache"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/types"
	settingtypes "github.com/flexprice/rawusage/internal/types/settings"
)

// InvoiceConfigProvider resolves invoicing settings for the tenant and
// environment carried in ctx
type InvoiceConfigProvider interface {
	// GetMaxRawUsagePreviousPeriod returns how many extra billing periods of
	// raw usage to look back over. A negative value disables the optimization.
	GetMaxRawUsagePreviousPeriod(ctx context.Context) (int, error)
	// InvalidateCache drops the cached configuration of the tenant and environment in ctx
	InvalidateCache(ctx context.Context)
}

type invoiceConfigProvider struct {
	ServiceParams
}

func NewInvoiceConfigProvider(params ServiceParams) InvoiceConfigProvider {
	return &invoiceConfigProvider{ServiceParams: params}
}

func invoiceConfigCacheKey(ctx context.Context) string {
	return cache.GenerateKey(cache.PrefixInvoiceConfig, types.GetTenantID(ctx), types.GetEnvironmentID(ctx))
}

func (p *invoiceConfigProvider) GetMaxRawUsagePreviousPeriod(ctx context.Context) (int, error) {
	cfg, err := p.getInvoiceConfig(ctx)
	if err != nil {
		return 0, err
	}
	return *cfg.MaxRawUsagePreviousPeriod, nil
}

// getInvoiceConfig returns the effective configuration with every field set
func (p *invoiceConfigProvider) getInvoiceConfig(ctx context.Context) (*settingtypes.InvoiceConfig, error) {
	key := invoiceConfigCacheKey(ctx)

	if p.Cache != nil {
		if value, found := p.Cache.Get(ctx, key); found {
			if cfg, ok := cache.UnmarshalCacheValue[settingtypes.InvoiceConfig](value); ok && cfg.MaxRawUsagePreviousPeriod != nil {
				return cfg, nil
			}
		}
	}

	defaultLookback := p.Config.Invoice.MaxRawUsagePreviousPeriod
	resolved := &settingtypes.InvoiceConfig{MaxRawUsagePreviousPeriod: &defaultLookback}

	setting, err := p.SettingsRepo.GetByKey(ctx, settingtypes.SettingKeyInvoiceConfig.String())
	switch {
	case ierr.IsNotFound(err):
		p.Logger.WithContext(ctx).Debugw("no invoice_config setting, using defaults",
			"max_raw_usage_previous_period", defaultLookback,
		)
	case err != nil:
		return nil, ierr.WithError(err).
			WithHint("Failed to load the invoice configuration").
			Mark(ierr.ErrDatabase)
	default:
		override, err := setting.ToInvoiceConfig()
		if err != nil {
			return nil, err
		}
		if override.MaxRawUsagePreviousPeriod != nil {
			resolved.MaxRawUsagePreviousPeriod = override.MaxRawUsagePreviousPeriod
		}
	}

	if p.Cache != nil {
		p.Cache.Set(ctx, key, resolved, p.Config.Invoice.SettingsCacheTTL)
	}
	return resolved, nil
}

func (p *invoiceConfigProvider) InvalidateCache(ctx context.Context) {
	if p.Cache != nil {
		p.Cache.Delete(ctx, invoiceConfigCacheKey(ctx))
	}
}
