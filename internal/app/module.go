package app

import (
	"context"
	"time"

	"github.com/flexprice/rawusage/internal/cache"
	"github.com/flexprice/rawusage/internal/clickhouse"
	"github.com/flexprice/rawusage/internal/clock"
	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/flexprice/rawusage/internal/postgres"
	"github.com/flexprice/rawusage/internal/redis"
	chRepo "github.com/flexprice/rawusage/internal/repository/clickhouse"
	pgRepo "github.com/flexprice/rawusage/internal/repository/postgres"
	"github.com/flexprice/rawusage/internal/sentry"
	"github.com/flexprice/rawusage/internal/service"
	"github.com/flexprice/rawusage/internal/types"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

// Infrastructure provides configuration, logging and the store connections
var Infrastructure = fx.Options(
	fx.Provide(
		config.NewConfig,
		logger.NewLogger,
		provideClock,
		sentry.NewSentryService,
		provideRedisClient,
		cache.NewCache,
		clickhouse.NewClickHouseStore,
		postgres.NewClient,
	),
)

// Logger routes fx lifecycle events to the application logger
var Logger = fx.WithLogger(func(log *logger.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: log.Desugar()}
})

// Repositories binds the domain repositories to their store adapters
var Repositories = fx.Options(
	fx.Provide(
		chRepo.NewRawUsageRepository,
		pgRepo.NewTrackingRepository,
		pgRepo.NewSettingsRepository,
	),
)

// Services provides the invoicing services
var Services = fx.Options(
	fx.Provide(
		service.NewServiceParams,
		service.NewInvoiceConfigProvider,
		service.NewRawUsageOptimizer,
	),
)

// Module is the complete application graph
var Module = fx.Options(
	Infrastructure,
	Repositories,
	Services,
	fx.Invoke(registerShutdown),
)

func provideClock(cfg *config.Configuration) (clock.Clock, error) {
	return clock.NewSystemClockIn(cfg.Invoice.Timezone)
}

// provideRedisClient connects to redis only when the cache is configured to use it
func provideRedisClient(cfg *config.Configuration, log *logger.Logger) (*redis.Client, error) {
	if !cfg.Cache.Enabled || cfg.Cache.Type != types.CacheTypeRedis {
		return nil, nil
	}
	return redis.NewClient(cfg.Redis, log)
}

type shutdownParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Logger     *logger.Logger
	Sentry     *sentry.Service
	ClickHouse *clickhouse.ClickHouseStore
	Postgres   *postgres.Client
	Redis      *redis.Client `optional:"true"`
}

func registerShutdown(p shutdownParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := p.ClickHouse.Close(); err != nil {
				p.Logger.Errorw("failed to close clickhouse", "error", err)
			}
			if err := p.Postgres.Close(); err != nil {
				p.Logger.Errorw("failed to close postgres", "error", err)
			}
			if p.Redis != nil {
				if err := p.Redis.Close(); err != nil {
					p.Logger.Errorw("failed to close redis", "error", err)
				}
			}
			p.Sentry.Flush(2 * time.Second)
			return p.Logger.Close()
		},
	})
}
