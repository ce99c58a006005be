package testutil

import (
	"context"
	"time"

	"github.com/flexprice/rawusage/internal/cache"
	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/stretchr/testify/suite"
)

const (
	TestTenantID      = "tenant_test"
	TestEnvironmentID = "env_test"
	TestAccountID     = "acct_test"
)

// Stores holds the fake repositories of a test
type Stores struct {
	RawUsageRepo *InMemoryRawUsageStore
	TrackingRepo *InMemoryTrackingStore
	SettingsRepo *InMemorySettingsStore
}

// BaseServiceTestSuite wires fakes for service level tests
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	clock  *FixedClock
	cache  *cache.InMemoryCache
	config *config.Configuration
	logger *logger.Logger
}

func (s *BaseServiceTestSuite) SetupSuite() {
	s.config = config.GetDefaultConfig()
	s.logger = logger.NewNopLogger()
}

func (s *BaseServiceTestSuite) SetupTest() {
	ctx := context.Background()
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	ctx = types.SetTenantID(ctx, TestTenantID)
	ctx = types.SetEnvironmentID(ctx, TestEnvironmentID)
	ctx = types.SetAccountID(ctx, TestAccountID)
	s.ctx = ctx

	s.stores = Stores{
		RawUsageRepo: NewInMemoryRawUsageStore(),
		TrackingRepo: NewInMemoryTrackingStore(),
		SettingsRepo: NewInMemorySettingsStore(),
	}
	s.clock = NewFixedClock(time.Now())
	s.cache = cache.NewInMemoryCache()
}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetClock() *FixedClock {
	return s.clock
}

func (s *BaseServiceTestSuite) GetCache() *cache.InMemoryCache {
	return s.cache
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// ClearStores drops every fake row and cached value
func (s *BaseServiceTestSuite) ClearStores() {
	s.stores.RawUsageRepo.Clear()
	s.stores.TrackingRepo.Clear()
	s.stores.SettingsRepo.Clear()
	s.cache.Flush(s.ctx)
}
