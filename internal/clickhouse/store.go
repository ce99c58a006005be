package clickhouse

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/flexprice/rawusage/internal/config"
	ierr "github.com/flexprice/rawusage/internal/errors"
	"github.com/flexprice/rawusage/internal/logger"
)

// ClickHouseStore holds the connection to the usage warehouse
type ClickHouseStore struct {
	conn driver.Conn
}

// Options builds the driver options for the configured warehouse
func Options(cfg config.ClickHouseConfig) *clickhouse.Options {
	opts := &clickhouse.Options{
		Addr: []string{cfg.Address},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Protocol: clickhouse.Native,
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout: 10 * time.Second,
	}
	if cfg.TLS {
		opts.TLS = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return opts
}

func NewClickHouseStore(cfg *config.Configuration, log *logger.Logger) (*ClickHouseStore, error) {
	conn, err := clickhouse.Open(Options(cfg.ClickHouse))
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to open clickhouse connection").
			Mark(ierr.ErrDatabase)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close()
		return nil, ierr.WithError(err).
			WithHint("Failed to reach clickhouse").
			WithReportableDetails(map[string]any{"address": cfg.ClickHouse.Address}).
			Mark(ierr.ErrDatabase)
	}

	log.Infow("connected to clickhouse", "address", cfg.ClickHouse.Address, "database", cfg.ClickHouse.Database)
	return &ClickHouseStore{conn: conn}, nil
}

func (s *ClickHouseStore) GetConn() driver.Conn {
	return s.conn
}

func (s *ClickHouseStore) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
