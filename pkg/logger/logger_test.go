package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerDefaultsToNop(t *testing.T) {
	require.NotNil(t, Logger())
	// Safe to use before Init runs.
	Info("noop")
	Debug("noop")
}

func TestInitSetsGlobalLogger(t *testing.T) {
	require.NoError(t, Init("debug"))
	require.NotNil(t, Logger())
	require.True(t, Logger().Core().Enabled(-1)) // zapcore.DebugLevel

	require.NoError(t, Init("warn"))
	require.False(t, Logger().Core().Enabled(0)) // zapcore.InfoLevel
}

func TestInitFallsBackToInfoOnUnknownLevel(t *testing.T) {
	require.NoError(t, Init("verbose-ish"))
	require.True(t, Logger().Core().Enabled(0))
	require.False(t, Logger().Core().Enabled(-1))
}

func TestWithModule(t *testing.T) {
	require.NotNil(t, WithModule("tests"))
}
