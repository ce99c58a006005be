package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/flexprice/rawusage/internal/clock"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `mapstructure:"deployment" validate:"required"`
	Logging    LoggingConfig    `mapstructure:"logging" validate:"required"`
	Invoice    InvoiceConfig    `mapstructure:"invoice" validate:"required"`
	Cache      CacheConfig      `mapstructure:"cache" validate:"required"`
	Redis      RedisConfig      `mapstructure:"redis"`
	ClickHouse ClickHouseConfig `mapstructure:"clickhouse" validate:"required"`
	Postgres   PostgresConfig   `mapstructure:"postgres" validate:"required"`
	Sentry     SentryConfig     `mapstructure:"sentry"`
}

type DeploymentConfig struct {
	Mode types.RunMode `mapstructure:"mode" validate:"required"`
}

type LoggingConfig struct {
	Level          types.LogLevel `mapstructure:"level" validate:"required"`
	DBLevel        types.LogLevel `mapstructure:"db_level"`
	FluentdEnabled bool           `mapstructure:"fluentd_enabled"`
	FluentdHost    string         `mapstructure:"fluentd_host"`
	FluentdPort    int            `mapstructure:"fluentd_port"`
}

// InvoiceConfig holds the platform wide invoicing defaults. Tenants may
// override MaxRawUsagePreviousPeriod through the invoice_config setting.
type InvoiceConfig struct {
	// MaxRawUsagePreviousPeriod is the number of extra billing periods of raw
	// usage read before the last complete period. Negative disables the
	// optimization and the full usage history is always read.
	MaxRawUsagePreviousPeriod int           `mapstructure:"max_raw_usage_previous_period"`
	SettingsCacheTTL          time.Duration `mapstructure:"settings_cache_ttl"`
	// Timezone bounds the invoicing day, IANA name or abbreviation
	Timezone                  string        `mapstructure:"timezone"`
}

type CacheConfig struct {
	Enabled bool            `mapstructure:"enabled"`
	Type    types.CacheType `mapstructure:"type" validate:"omitempty,oneof=inmemory redis"`
}

type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     int           `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	UseTLS   bool          `mapstructure:"use_tls"`
	PoolSize int           `mapstructure:"pool_size"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type ClickHouseConfig struct {
	Address  string `mapstructure:"address" validate:"required"`
	TLS      bool   `mapstructure:"tls"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database" validate:"required"`
}

type PostgresConfig struct {
	Host                   string `mapstructure:"host" validate:"required"`
	Port                   int    `mapstructure:"port" validate:"required"`
	User                   string `mapstructure:"user"`
	Password               string `mapstructure:"password"`
	DBName                 string `mapstructure:"dbname" validate:"required"`
	SSLMode                string `mapstructure:"sslmode"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes"`
}

type SentryConfig struct {
	Enabled     bool    `mapstructure:"enabled"`
	DSN         string  `mapstructure:"dsn" validate:"required_if=Enabled true"`
	Environment string  `mapstructure:"environment"`
	SampleRate  float64 `mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	// a missing .env is fine, values may come from the real environment
	_ = godotenv.Load()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FLEXPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Configuration) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := clock.LoadLocation(c.Invoice.Timezone); err != nil {
		return fmt.Errorf("invalid configuration: invoice.timezone: %w", err)
	}
	return nil
}

// GetDefaultConfig returns the built in defaults without reading files or env
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Logging:    LoggingConfig{Level: types.LogLevelDebug},
		Invoice: InvoiceConfig{
			MaxRawUsagePreviousPeriod: DefaultMaxRawUsagePreviousPeriod,
			SettingsCacheTTL:          DefaultSettingsCacheTTL,
			Timezone:                  "UTC",
		},
		Cache: CacheConfig{Enabled: true, Type: types.CacheTypeInMemory},
		Redis: RedisConfig{Host: "localhost", Port: 6379, PoolSize: 10, Timeout: 5 * time.Second},
		ClickHouse: ClickHouseConfig{
			Address:  "127.0.0.1:9000",
			Username: "default",
			Database: "flexprice",
		},
		Postgres: PostgresConfig{
			Host:                   "localhost",
			Port:                   5432,
			User:                   "flexprice",
			DBName:                 "flexprice",
			SSLMode:                "disable",
			MaxOpenConns:           10,
			MaxIdleConns:           5,
			ConnMaxLifetimeMinutes: 60,
		},
		Sentry: SentryConfig{Environment: "local", SampleRate: 1.0},
	}
}

const (
	DefaultMaxRawUsagePreviousPeriod = 2
	DefaultSettingsCacheTTL          = 5 * time.Minute
)

func setDefaults(v *viper.Viper) {
	d := GetDefaultConfig()

	v.SetDefault("deployment.mode", d.Deployment.Mode)
	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.db_level", d.Logging.DBLevel)
	v.SetDefault("logging.fluentd_enabled", false)
	v.SetDefault("logging.fluentd_host", "")
	v.SetDefault("logging.fluentd_port", 0)
	v.SetDefault("invoice.max_raw_usage_previous_period", d.Invoice.MaxRawUsagePreviousPeriod)
	v.SetDefault("invoice.settings_cache_ttl", d.Invoice.SettingsCacheTTL)
	v.SetDefault("invoice.timezone", d.Invoice.Timezone)
	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.type", d.Cache.Type)
	v.SetDefault("redis.host", d.Redis.Host)
	v.SetDefault("redis.port", d.Redis.Port)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.use_tls", false)
	v.SetDefault("redis.pool_size", d.Redis.PoolSize)
	v.SetDefault("redis.timeout", d.Redis.Timeout)
	v.SetDefault("clickhouse.address", d.ClickHouse.Address)
	v.SetDefault("clickhouse.tls", false)
	v.SetDefault("clickhouse.username", d.ClickHouse.Username)
	v.SetDefault("clickhouse.password", "")
	v.SetDefault("clickhouse.database", d.ClickHouse.Database)
	v.SetDefault("postgres.host", d.Postgres.Host)
	v.SetDefault("postgres.port", d.Postgres.Port)
	v.SetDefault("postgres.user", d.Postgres.User)
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", d.Postgres.DBName)
	v.SetDefault("postgres.sslmode", d.Postgres.SSLMode)
	v.SetDefault("postgres.max_open_conns", d.Postgres.MaxOpenConns)
	v.SetDefault("postgres.max_idle_conns", d.Postgres.MaxIdleConns)
	v.SetDefault("postgres.conn_max_lifetime_minutes", d.Postgres.ConnMaxLifetimeMinutes)
	v.SetDefault("sentry.enabled", false)
	v.SetDefault("sentry.dsn", "")
	v.SetDefault("sentry.environment", d.Sentry.Environment)
	v.SetDefault("sentry.sample_rate", d.Sentry.SampleRate)
}

// GetDSN returns the lib/pq connection string
func (c PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
