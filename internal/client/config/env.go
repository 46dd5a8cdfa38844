package config

import (
	"os"
	"strconv"
	"time"
)

// Environment variable names. The API base URL matches the deployment
// convention of the web dashboard this client pairs with.
const (
	envAPIBaseURL   = "TRACKKAR_API_URL"
	envGeocoderURL  = "TRACKKAR_GEOCODER_URL"
	envLiveFeedURL  = "TRACKKAR_LIVE_URL"
	envStateDSN     = "TRACKKAR_STATE_DB"
	envPollInterval = "TRACKKAR_POLL_INTERVAL"
	envDemoMode     = "TRACKKAR_DEMO_MODE"
	envLogLevel     = "TRACKKAR_LOG_LEVEL"
)

// parseEnv overlays Config with values from the environment. Unset or
// unparsable variables leave the previous value in place.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(envAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(envGeocoderURL); ok {
		cfg.GeocoderURL = v
	}
	if v, ok := os.LookupEnv(envLiveFeedURL); ok {
		cfg.LiveFeedURL = v
	}
	if v, ok := os.LookupEnv(envStateDSN); ok {
		cfg.StateDSN = v
	}
	if v, ok := os.LookupEnv(envPollInterval); ok {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.PollInterval = d
		}
	}
	if v, ok := os.LookupEnv(envDemoMode); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.DemoMode = b
		}
	}
	if v, ok := os.LookupEnv(envLogLevel); ok {
		cfg.LogLevel = v
	}
}
