package logger

import (
	"context"
	"testing"

	"github.com/storepulse/storepulse/internal/config"
	"github.com/storepulse/storepulse/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerWithoutFluentd(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Logging.FluentdEnabled = true
	cfg.Logging.FluentdHost = ""

	l, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.Nil(t, l.fluentdLogger)
	assert.Equal(t, "storepulse-local", l.serviceName)
}

func TestKeysAndValuesToMap(t *testing.T) {
	l := NewNoopLogger()
	fields := l.keysAndValuesToMap("user_id", "u1", "count", 3, 42, "skipped", "dangling")
	assert.Equal(t, map[string]interface{}{"user_id": "u1", "count": 3}, fields)
}

func TestWithContextKeepsSinks(t *testing.T) {
	l := NewNoopLogger()
	ctx := types.SetRequestID(context.Background(), "req_1")
	scoped := l.WithContext(ctx)
	assert.Equal(t, l.serviceName, scoped.serviceName)
	assert.NotPanics(t, func() { scoped.Infow("scoped", "k", "v") })
	assert.NoError(t, l.Close())
}
