package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/trackkar/trackkar-cli/internal/flagx"
	"github.com/trackkar/trackkar-cli/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies on
// timex.Duration so intervals can be written either as strings like "30s"
// or as integer nanoseconds. Parsed values are copied onto the runtime
// Config; absent fields leave the previous value in place.
type JsonConfig struct {
	APIBaseURL   *string         `json:"api_base_url"`
	GeocoderURL  *string         `json:"geocoder_url"`
	LiveFeedURL  *string         `json:"live_feed_url"`
	StateDSN     *string         `json:"state_db"`
	PollInterval *timex.Duration `json:"poll_interval"`
	DemoMode     *bool           `json:"demo_mode"`
	LogLevel     *string         `json:"log_level"`
}

// parseJson overlays Config with values loaded from the JSON file named by
// the -c/-config flag. No flag, no overlay. Read or unmarshal errors panic;
// a broken config file should stop startup, not be silently skipped.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.APIBaseURL != nil {
		cfg.APIBaseURL = *jc.APIBaseURL
	}
	if jc.GeocoderURL != nil {
		cfg.GeocoderURL = *jc.GeocoderURL
	}
	if jc.LiveFeedURL != nil {
		cfg.LiveFeedURL = *jc.LiveFeedURL
	}
	if jc.StateDSN != nil {
		cfg.StateDSN = *jc.StateDSN
	}
	if jc.PollInterval != nil {
		cfg.PollInterval = time.Duration(jc.PollInterval.Duration)
	}
	if jc.DemoMode != nil {
		cfg.DemoMode = *jc.DemoMode
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
}
