package logger

import (
	"context"
	"testing"

	"github.com/flexprice/rawusage/internal/config"
	"github.com/flexprice/rawusage/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithContext_AddsRequestScopedFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	ctx := context.Background()
	ctx = types.SetTenantID(ctx, "tenant_1")
	ctx = types.SetEnvironmentID(ctx, "env_1")
	ctx = types.SetAccountID(ctx, "acc_1")
	ctx = types.SetRequestID(ctx, "req_1")

	l.WithContext(ctx).Debugw("computed raw usage window", "lookback", 2)

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "tenant_1", fields["tenant_id"])
	assert.Equal(t, "env_1", fields["environment_id"])
	assert.Equal(t, "acc_1", fields["account_id"])
	assert.Equal(t, "req_1", fields["request_id"])
	assert.EqualValues(t, 2, fields["lookback"])
}

func TestNewLogger(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo

	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.Nil(t, l.fluentdLogger)
	assert.Equal(t, string(types.ModeLocal), l.serviceName)
}

func TestNewLogger_FluentdWithoutHost(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Logging.FluentdEnabled = true

	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.Nil(t, l.fluentdLogger)
}

func TestKeysAndValuesToMap(t *testing.T) {
	l := NewNopLogger()
	fields := l.keysAndValuesToMap("a", 1, "b", "two", 3, "skipped", "dangling")
	assert.Equal(t, map[string]interface{}{"a": 1, "b": "two"}, fields)
}
