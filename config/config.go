package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/krisalay/bounded-cache/eviction"
	"go.uber.org/zap/zapcore"
)

// Write modes for the sharded cache.
const (
	WriteNone    = "none"
	WriteThrough = "through"
	WriteBack    = "back"
)

var ErrInvalidConfig = errors.New("config: invalid")

// Config is the cache configuration. Every field maps to a JSON key of the same name in snake_case.
type Config struct {
	Capacity         int    `json:"capacity"`          // total entries across all shards
	Policy           string `json:"policy"`            // "fifo", "lifo", "lru", "mru" or "lfu"
	Shards           int    `json:"shards"`            // number of independently locked shards
	WriteMode        string `json:"write_mode"`        // "none", "through" or "back"
	WriteBackBuffer  int    `json:"write_back_buffer"` // queued writes before write-back starts dropping
	LogLevel         string `json:"log_level"`         // zap level name
	MetricsNamespace string `json:"metrics_namespace"` // Prometheus namespace
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Capacity:         4,
		Policy:           "lru",
		Shards:           1,
		WriteMode:        WriteNone,
		WriteBackBuffer:  1024,
		LogLevel:         "info",
		MetricsNamespace: "boundedcache",
	}
}

// LoadConfig reads a JSON file on top of DefaultConfig, so missing keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	cfg := DefaultConfig()
	decoder := json.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// PolicyType returns the parsed eviction policy.
func (c *Config) PolicyType() (eviction.PolicyType, error) {
	return eviction.ParsePolicyType(c.Policy)
}

// Validate checks that the configuration can build a cache.
func (c *Config) Validate() error {
	if c.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.Shards < 1 || c.Shards > c.Capacity {
		return fmt.Errorf("%w: shards must be between 1 and capacity, got %d", ErrInvalidConfig, c.Shards)
	}
	if _, err := c.PolicyType(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	switch c.WriteMode {
	case WriteNone, WriteThrough:
	case WriteBack:
		if c.WriteBackBuffer < 1 {
			return fmt.Errorf("%w: write_back_buffer must be at least 1", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown write_mode %q", ErrInvalidConfig, c.WriteMode)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}
