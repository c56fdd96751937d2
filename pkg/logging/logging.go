package logging

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lumichain/lumichain-go/pkg/config"
)

// defaultDedupWindow is used when cfg.LogDedupWindow is left at its zero
// value, keeping a stuck "no usable peer" backoff loop from flooding logs
// even when the operator never set LogDedupWindow explicitly.
const defaultDedupWindow = 30 * time.Second

// New builds a *zap.Logger from the daemon's Logger configuration.
func New(cfg config.Logger) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if cfg.LogLevel != "" {
		if err := level.Set(cfg.LogLevel); err != nil {
			return nil, fmt.Errorf("logging: %w", err)
		}
	}
	encoding := cfg.LogEncoding
	if encoding == "" {
		encoding = "console"
	}
	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         encoding,
		EncoderConfig:    zap.NewProductionEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if cfg.LogPath != "" {
		zcfg.OutputPaths = []string{cfg.LogPath}
	}
	if cfg.LogTimestamp != nil && !*cfg.LogTimestamp {
		zcfg.EncoderConfig.TimeKey = ""
	}

	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}

	window := cfg.LogDedupWindow
	if window == 0 {
		window = defaultDedupWindow
	}
	if window > 0 {
		dedup := NewDedupFilter(window)
		logger = logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
			return NewFilteringCore(core, dedup)
		}))
	}
	return logger, nil
}

// NewDedupFilter returns a FilterFunc that lets the first occurrence of a
// given message through and suppresses repeats of the same message within
// window, used to keep a "no usable peer" backoff loop from flooding logs.
func NewDedupFilter(window time.Duration) FilterFunc {
	var mu sync.Mutex
	last := make(map[string]time.Time)
	return func(e zapcore.Entry) bool {
		mu.Lock()
		defer mu.Unlock()
		prev, ok := last[e.Message]
		if ok && e.Time.Sub(prev) < window {
			return false
		}
		last[e.Message] = e.Time
		return true
	}
}
