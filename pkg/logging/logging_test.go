package logging_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lumichain/lumichain-go/pkg/config"
	"github.com/lumichain/lumichain-go/pkg/logging"
)

func TestNewBuildsLoggerFromConfig(t *testing.T) {
	log, err := logging.New(config.Logger{LogLevel: "debug", LogEncoding: "json"})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewRejectsInvalidLevel(t *testing.T) {
	_, err := logging.New(config.Logger{LogLevel: "not-a-level"})
	require.Error(t, err)
}

func TestDedupFilteringCoreSuppressesRepeatedMessages(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log, err := logging.New(config.Logger{LogLevel: "debug"})
	require.NoError(t, err)
	require.NotNil(t, log)

	// New builds its own output core; swap in an observable one wrapped the
	// same way New wraps its own, so the dedup behavior itself is checked
	// without depending on New's internal encoding/output choices.
	wrapped := log.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core {
		return logging.NewFilteringCore(core, logging.NewDedupFilter(time.Minute))
	}))

	wrapped.Warn("no usable peer")
	wrapped.Warn("no usable peer")
	wrapped.Warn("no usable peer")

	require.Len(t, logs.All(), 1)
}

func TestDedupFilterSuppressesWithinWindow(t *testing.T) {
	filter := logging.NewDedupFilter(time.Minute)
	base := time.Now()

	require.True(t, filter(zapcore.Entry{Message: "no usable peer", Time: base}))
	require.False(t, filter(zapcore.Entry{Message: "no usable peer", Time: base.Add(time.Second)}))
	require.True(t, filter(zapcore.Entry{Message: "no usable peer", Time: base.Add(2 * time.Minute)}))
}
