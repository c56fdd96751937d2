// Package config loads and validates the sync daemon's on-disk
// configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Logger contains node logger configuration.
type Logger struct {
	LogEncoding  string `yaml:"LogEncoding"`
	LogLevel     string `yaml:"LogLevel"`
	LogPath      string `yaml:"LogPath"`
	LogTimestamp *bool  `yaml:"LogTimestamp,omitempty"`
	// LogDedupWindow bounds how often an identical log message may repeat.
	// Zero selects the package default; a negative value disables
	// deduplication entirely.
	LogDedupWindow time.Duration `yaml:"LogDedupWindow,omitempty"`
}

// Validate returns an error if Logger configuration is not valid.
func (l Logger) Validate() error {
	if len(l.LogEncoding) > 0 && l.LogEncoding != "console" && l.LogEncoding != "json" {
		return fmt.Errorf("invalid LogEncoding: %s", l.LogEncoding)
	}
	switch l.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid LogLevel: %s", l.LogLevel)
	}
	return nil
}

// BasicService is a base for any optional network-facing subservice, such
// as metrics or pprof.
type BasicService struct {
	Enabled   bool     `yaml:"Enabled"`
	Addresses []string `yaml:"Addresses"`
}

// Engine holds every tunable named in the synchronization contract: request
// batch sizes, the backward fork-resolution depth, and the timers that
// drive the scheduler.
type Engine struct {
	// BlockHeadersPerRequest bounds how many headers are asked for in a
	// single requestHeaders call during normal (non-reorg) operation.
	BlockHeadersPerRequest int `yaml:"BlockHeadersPerRequest"`
	// BlockBodiesPerRequest bounds how many bodies are asked for in a
	// single requestBodies call.
	BlockBodiesPerRequest int `yaml:"BlockBodiesPerRequest"`
	// BlockResolveDepth bounds how far back the fork resolver walks
	// before giving up and force-blacklisting the peer.
	BlockResolveDepth uint64 `yaml:"BlockResolveDepth"`
	// SyncRequestTimeout is the base timeout for header and body
	// requests; body requests add 100ms per requested hash on top.
	// Node-data requests use a fixed 10s timeout instead.
	SyncRequestTimeout time.Duration `yaml:"SyncRequestTimeout"`
	// CheckForNewBlockInterval is how long the scheduler waits before a
	// delayed resume when there was nothing new to do.
	CheckForNewBlockInterval time.Duration `yaml:"CheckForNewBlockInterval"`
}

// Validate checks Engine for internally consistent, strictly-positive
// tunables.
func (e Engine) Validate() error {
	if e.BlockHeadersPerRequest <= 0 {
		return fmt.Errorf("BlockHeadersPerRequest must be positive, got %d", e.BlockHeadersPerRequest)
	}
	if e.BlockBodiesPerRequest <= 0 {
		return fmt.Errorf("BlockBodiesPerRequest must be positive, got %d", e.BlockBodiesPerRequest)
	}
	if e.BlockResolveDepth == 0 {
		return fmt.Errorf("BlockResolveDepth must be positive")
	}
	if e.SyncRequestTimeout <= 0 {
		return fmt.Errorf("SyncRequestTimeout must be positive")
	}
	if e.CheckForNewBlockInterval <= 0 {
		return fmt.Errorf("CheckForNewBlockInterval must be positive")
	}
	return nil
}

// DefaultEngine returns the reference-codebase-style default tunables.
func DefaultEngine() Engine {
	return Engine{
		BlockHeadersPerRequest:   192,
		BlockBodiesPerRequest:    128,
		BlockResolveDepth:        64,
		SyncRequestTimeout:       5 * time.Second,
		CheckForNewBlockInterval: 10 * time.Second,
	}
}

// Config is the daemon's top-level configuration.
type Config struct {
	Logger  Logger       `yaml:"Logger"`
	Engine  Engine       `yaml:"Engine"`
	Metrics BasicService `yaml:"Metrics"`
	DataDir string       `yaml:"DataDir"`
}

// Validate validates every embedded section.
func (c Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("logger config: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return fmt.Errorf("engine config: %w", err)
	}
	if c.DataDir == "" {
		return fmt.Errorf("DataDir must be set")
	}
	return nil
}

// Load reads and validates a YAML config file from path.
func Load(path string) (Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Engine == (Engine{}) {
		cfg.Engine = DefaultEngine()
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}
