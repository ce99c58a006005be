package types

type LogLevel string

const (
	LogLevelDebug LogLevel = "debug"
	LogLevelInfo  LogLevel = "info"
	LogLevelWarn  LogLevel = "warn"
	LogLevelError LogLevel = "error"
)

type RunMode string

const (
	ModeLocal     RunMode = "local"
	ModeAPI       RunMode = "api"
	ModeConsumer  RunMode = "consumer"
	ModeInvoicing RunMode = "invoicing"
)

type CacheType string

const (
	CacheTypeInMemory CacheType = "inmemory"
	CacheTypeRedis    CacheType = "redis"
)
