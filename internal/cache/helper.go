package cache

import (
	"encoding/json"

	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/logger"
	redisClient "github.com/flexprice/rawusage/internal/redis"
	"github.com/flexprice/rawusage/internal/types"
)

// UnmarshalCacheValue attempts to convert a cache value to the specified type.
// It handles both in-memory cache (which stores actual objects) and Redis cache (which stores JSON strings).
// Returns the typed value and true if successful, nil and false otherwise.
func UnmarshalCacheValue[T any](value interface{}) (*T, bool) {
	if value == nil {
		return nil, false
	}

	// Try direct type assertion first (for in-memory cache)
	if typed, ok := value.(*T); ok {
		return typed, true
	}

	// Try unmarshalling from JSON string (for Redis cache)
	if str, ok := value.(string); ok {
		var result T
		if err := json.Unmarshal([]byte(str), &result); err == nil {
			return &result, true
		}
	}

	return nil, false
}

// NewCache picks the cache backend from configuration. It returns nil when
// caching is disabled. A redis cache without a client falls back to memory.
func NewCache(cfg *config.Configuration, log *logger.Logger, client *redisClient.Client) Cache {
	if !cfg.Cache.Enabled {
		log.Infow("cache disabled by configuration")
		return nil
	}

	switch cfg.Cache.Type {
	case types.CacheTypeRedis:
		if client != nil {
			log.Infow("initialized cache", "type", cfg.Cache.Type)
			return NewRedisCache(client, log)
		}
		log.Warnw("redis cache requested without a redis client, using in-memory cache")
	}

	log.Infow("initialized cache", "type", types.CacheTypeInMemory)
	return NewInMemoryCache()
}
