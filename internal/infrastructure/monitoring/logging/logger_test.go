package logging

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return &zapLogger{z: zap.New(core)}, logs
}

func TestNewLogger_JSONFormat(t *testing.T) {
	l, err := NewLogger(Config{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_ConsoleFormat(t *testing.T) {
	l, err := NewLogger(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestNewLogger_DefaultsApplied(t *testing.T) {
	// Empty config must still yield a working info-level JSON logger.
	l, err := NewLogger(Config{})
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestZapLogger_LevelsAndFields(t *testing.T) {
	l, logs := newObservedLogger(zapcore.DebugLevel)

	l.Debug("debug msg", String("k", "v"))
	l.Info("info msg", Int("count", 3), Bool("flagged", true))
	l.Warn("warn msg", Float64("score", 87.5))
	l.Error("error msg", Err(errors.New("boom")))

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "debug msg", entries[0].Message)
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)

	fields := entries[1].ContextMap()
	assert.EqualValues(t, 3, fields["count"])
	assert.Equal(t, true, fields["flagged"])
}

func TestZapLogger_WithAddsPersistentFields(t *testing.T) {
	l, logs := newObservedLogger(zapcore.InfoLevel)

	child := l.With(String("submission_id", "sub-1"))
	child.Info("scored")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "sub-1", entries[0].ContextMap()["submission_id"])
}

func TestZapLogger_LevelFiltering(t *testing.T) {
	l, logs := newObservedLogger(zapcore.WarnLevel)

	l.Debug("dropped")
	l.Info("dropped too")
	l.Warn("kept")

	assert.Equal(t, 1, logs.Len())
}

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
	assert.Equal(t, "error", Err(nil).Key)
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestNopLogger_IsSilentAndChainable(t *testing.T) {
	l := NewNopLogger()
	assert.NotNil(t, l.With(String("a", "b")))
	assert.NotNil(t, l.Named("sub"))
	// Must not panic.
	l.Info("ignored")
}

func TestDefaultLogger_SetAndGet(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l, logs := newObservedLogger(zapcore.InfoLevel)
	SetDefault(l)
	Default().Info("via default")

	assert.Equal(t, 1, logs.Len())

	// nil is ignored.
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
