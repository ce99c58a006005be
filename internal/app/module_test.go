package app

import (
	"testing"

	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
)

func TestModule_GraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(Module))
}

func TestProvideRedisClient_SkippedUnlessRedisCache(t *testing.T) {
	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()

	client, err := provideRedisClient(cfg, log)
	assert.NoError(t, err)
	assert.Nil(t, client)

	cfg.Cache.Type = types.CacheTypeRedis
	cfg.Cache.Enabled = false
	client, err = provideRedisClient(cfg, log)
	assert.NoError(t, err)
	assert.Nil(t, client)
}
