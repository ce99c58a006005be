package redis

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/logger"
	"github.com/redis/go-redis/v9"
)

// Client wraps Redis client functionality
type Client struct {
	rdb  *redis.Client
	log  *logger.Logger
	opts *redis.Options
}

// NewClient creates a new Redis client and verifies the connection
func NewClient(cfg config.RedisConfig, log *logger.Logger) (*Client, error) {
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		PoolSize:     cfg.PoolSize,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Infow("connected to redis", "addr", opts.Addr, "db", opts.DB)

	return &Client{
		rdb:  rdb,
		log:  log,
		opts: opts,
	}, nil
}

// GetClient returns the underlying Redis client
func (c *Client) GetClient() *redis.Client {
	return c.rdb
}

// Close closes the Redis client connection
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Ping checks the Redis connection
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.rdb.Ping(ctx).Result()
	return err
}

// Reconnect replaces the underlying connection pool with a fresh one
func (c *Client) Reconnect(ctx context.Context) error {
	if err := c.rdb.Close(); err != nil {
		c.log.Errorw("failed to close existing redis connection", "error", err)
	}

	c.rdb = redis.NewClient(c.opts)

	if _, err := c.rdb.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to reconnect to Redis: %w", err)
	}

	c.log.Infow("reconnected to redis", "addr", c.opts.Addr)
	return nil
}
