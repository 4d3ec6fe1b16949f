package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"mangrove-addresses/internal/config"
)

func TestNewLogger(t *testing.T) {
	t.Run("configured level is applied", func(t *testing.T) {
		l, err := NewLogger(config.LoggerConfig{Level: "warn", Encoding: "json"})
		require.NoError(t, err)
		assert.False(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.True(t, l.Core().Enabled(zapcore.WarnLevel))
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		l, err := NewLogger(config.LoggerConfig{Level: "loud", Encoding: "console", Output: "stderr"})
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})
}
