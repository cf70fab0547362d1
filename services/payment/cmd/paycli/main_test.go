package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wekeepgrowing/institute-backend/pkg/logger"
	"go.uber.org/zap/zapcore"
)

func TestLoggerConfig(t *testing.T) {
	assert.Equal(t, "info", loggerConfig(false).Level)
	assert.Equal(t, "stderr", loggerConfig(false).Output)

	l, err := logger.NewZapLogger(loggerConfig(true))
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = logger.NewZapLogger(loggerConfig(false))
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestDefaultScriptURL(t *testing.T) {
	assert.Equal(t, "http://localhost:8080/sandbox/checkout.js", defaultScriptURL("http://localhost:8080"))
}
