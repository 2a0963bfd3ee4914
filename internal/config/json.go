package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/notewire/notewire/internal/timex"
)

type jsonConfig struct {
	ServerURL         *string         `json:"server_url"`
	RealtimeURL       *string         `json:"realtime_url"`
	StateDir          *string         `json:"state_dir"`
	PageSize          *int            `json:"page_size"`
	SaveDebounce      *timex.Duration `json:"save_debounce"`
	PushThrottle      *timex.Duration `json:"push_throttle"`
	SaveRetryDelay    *timex.Duration `json:"save_retry_delay"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	ReconnectAttempts *uint64         `json:"reconnect_attempts"`
	ReconnectInitial  *timex.Duration `json:"reconnect_initial"`
	ReconnectMax      *timex.Duration `json:"reconnect_max"`
}

// parseJSON overlays settings from the file at path. A missing path is not
// an error so the client runs without a config file; a malformed file is.
func parseJSON(cfg *Config, path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	var jc jsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.RealtimeURL != nil {
		cfg.RealtimeURL = *jc.RealtimeURL
	}
	if jc.StateDir != nil {
		cfg.StateDir = *jc.StateDir
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	if jc.SaveDebounce != nil {
		cfg.SaveDebounce = jc.SaveDebounce.Std()
	}
	if jc.PushThrottle != nil {
		cfg.PushThrottle = jc.PushThrottle.Std()
	}
	if jc.SaveRetryDelay != nil {
		cfg.SaveRetryDelay = jc.SaveRetryDelay.Std()
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Std()
	}
	if jc.ReconnectAttempts != nil {
		cfg.ReconnectAttempts = *jc.ReconnectAttempts
	}
	if jc.ReconnectInitial != nil {
		cfg.ReconnectInitial = jc.ReconnectInitial.Std()
	}
	if jc.ReconnectMax != nil {
		cfg.ReconnectMax = jc.ReconnectMax.Std()
	}
	return nil
}
