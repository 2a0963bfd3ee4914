// Package config holds runtime settings for the notewire client and the
// layered loading order: defaults, then JSON file, then environment.
// Command-line flags are overlaid last by the cobra entry point.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the notewire client.
//
// Units: all intervals are time.Duration values. SaveDebounce is the quiet
// period before an edit is durably saved; PushThrottle caps the realtime
// stream while typing; SaveRetryDelay is the pause before the single retry
// of a failed save.
type Config struct {
	// ServerURL is the REST base, e.g. "http://localhost:5000/api".
	ServerURL string
	// RealtimeURL is the push channel endpoint, e.g. "ws://localhost:5000/ws".
	RealtimeURL string
	// StateDir is where the session file lives.
	StateDir string
	// PageSize is the note list page length.
	PageSize int

	SaveDebounce   time.Duration
	PushThrottle   time.Duration
	SaveRetryDelay time.Duration
	RequestTimeout time.Duration

	// ReconnectAttempts bounds push-channel redials after a drop.
	ReconnectAttempts uint64
	ReconnectInitial  time.Duration
	ReconnectMax      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000/api"
	c.RealtimeURL = "ws://localhost:5000/ws"
	c.StateDir = defaultStateDir()
	c.PageSize = 10
	c.SaveDebounce = time.Second
	c.PushThrottle = 100 * time.Millisecond
	c.SaveRetryDelay = 5 * time.Second
	c.RequestTimeout = 15 * time.Second
	c.ReconnectAttempts = 5
	c.ReconnectInitial = time.Second
	c.ReconnectMax = 5 * time.Second
}

func defaultStateDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ".notewire"
	}
	return filepath.Join(base, "notewire")
}

// Load constructs a Config, applies defaults, then overlays values from the
// JSON file at path (if non-empty) and from the environment. Later sources
// take precedence over earlier ones.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJSON(cfg, path); err != nil {
		return nil, err
	}
	parseEnv(cfg)
	return cfg, nil
}
