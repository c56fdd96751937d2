// Package logging builds the zap logger the sync daemon and every
// subsystem share, plus a small middleware for muting noisy log lines.
package logging

import "go.uber.org/zap/zapcore"

// FilteringCore is a zapcore.Core middleware that filters log entries using
// a custom predicate before delegating to the wrapped core.
type FilteringCore struct {
	zapcore.Core
	filter FilterFunc
}

// FilterFunc decides whether the given entry should reach the wrapped core.
type FilterFunc func(zapcore.Entry) bool

// NewFilteringCore returns a core middleware that uses filter to decide
// whether to log a given entry.
func NewFilteringCore(next zapcore.Core, filter FilterFunc) zapcore.Core {
	return &FilteringCore{next, filter}
}

// Check implements zapcore.Core.
func (c *FilteringCore) Check(e zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.filter(e) {
		return c.Core.Check(e, ce)
	}
	return ce
}
