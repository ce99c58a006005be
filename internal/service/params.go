package service

import (
	"github.com/flexprice/rawusage/internal/cache"
	"github.com/flexprice/rawusage/internal/clock"
	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/domain/invoice"
	"github.com/flexprice/rawusage/internal/domain/settings"
	"github.com/flexprice/rawusage/internal/domain/usage"
	"github.com/flexprice/rawusage/internal/logger"
)

// ServiceParams holds the dependencies shared by every service
type ServiceParams struct {
	Config *config.Configuration
	Logger *logger.Logger
	Clock  clock.Clock
	// Cache is nil when caching is disabled
	Cache cache.Cache

	RawUsageRepo usage.Repository
	TrackingRepo invoice.TrackingRepository
	SettingsRepo settings.Repository
}

func NewServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	clk clock.Clock,
	c cache.Cache,
	rawUsageRepo usage.Repository,
	trackingRepo invoice.TrackingRepository,
	settingsRepo settings.Repository,
) ServiceParams {
	return ServiceParams{
		Config:       cfg,
		Logger:       log,
		Clock:        clk,
		Cache:        c,
		RawUsageRepo: rawUsageRepo,
		TrackingRepo: trackingRepo,
		SettingsRepo: settingsRepo,
	}
}
