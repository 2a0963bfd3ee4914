package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays settings from NOTEWIRE_* environment variables.
// Unparsable values are ignored rather than failing startup.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("NOTEWIRE_SERVER_URL"); ok {
		cfg.ServerURL = v
	}
	if v, ok := os.LookupEnv("NOTEWIRE_REALTIME_URL"); ok {
		cfg.RealtimeURL = v
	}
	if v, ok := os.LookupEnv("NOTEWIRE_STATE_DIR"); ok {
		cfg.StateDir = v
	}
	if v, ok := os.LookupEnv("NOTEWIRE_PAGE_SIZE"); ok {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.PageSize = n
		}
	}
	if v, ok := os.LookupEnv("NOTEWIRE_SAVE_DEBOUNCE"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SaveDebounce = d
		}
	}
	if v, ok := os.LookupEnv("NOTEWIRE_PUSH_THROTTLE"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PushThrottle = d
		}
	}
	if v, ok := os.LookupEnv("NOTEWIRE_SAVE_RETRY_DELAY"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SaveRetryDelay = d
		}
	}
	if v, ok := os.LookupEnv("NOTEWIRE_REQUEST_TIMEOUT"); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.RequestTimeout = d
		}
	}
	if v, ok := os.LookupEnv("NOTEWIRE_RECONNECT_ATTEMPTS"); ok {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.ReconnectAttempts = n
		}
	}
}
