package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObserved(level zapcore.Level) (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return NewZapAdapter(zap.New(core)), logs
}

func TestLogger_LevelsAndFields(t *testing.T) {
	log, logs := newObserved(zapcore.InfoLevel)

	log.Debug("hidden", nil)
	log.Info("package emitted", map[string]interface{}{"tier": "Elite", "matchScore": 91})
	log.Warn("cache miss", nil)
	log.Error("catalog failed", map[string]interface{}{"error": errors.New("boom")})

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, "package emitted", entries[0].Message)
	assert.Equal(t, "Elite", entries[0].ContextMap()["tier"])
	assert.EqualValues(t, 91, entries[0].ContextMap()["matchScore"])
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[2].ContextMap()["error"])
}

func TestLogger_WithFieldsIsScoped(t *testing.T) {
	log, logs := newObserved(zapcore.DebugLevel)

	scoped := log.WithFields(map[string]interface{}{"taskType": "recommend-event-packages"})
	scoped.WithError(errors.New("timeout")).Warn("retrying", nil)
	log.With(map[string]interface{}{"jobKey": int64(7)}).Info("plain", nil)

	entries := logs.All()
	require.Len(t, entries, 2)

	first := entries[0].ContextMap()
	assert.Equal(t, "recommend-event-packages", first["taskType"])
	assert.Equal(t, "timeout", first["error"])

	second := entries[1].ContextMap()
	assert.NotContains(t, second, "taskType")
	assert.EqualValues(t, 7, second["jobKey"])
}

func TestNew(t *testing.T) {
	l, err := New(Options{Level: "debug", Format: "json", Service: "event-package-workers"})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New(Options{Level: "verbose", Format: "console"})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestConstructorsImplementLogger(t *testing.T) {
	for _, l := range []Logger{
		NewStructured("warn", "json"),
		NewTestLogger(t),
		NewNoOpLogger(),
	} {
		assert.NotNil(t, l)
		l.Info("ok", nil)
	}
}
