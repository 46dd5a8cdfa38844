// Package config handles configuration for the tracking client, layering
// defaults, an optional JSON file, environment variables, and command-line
// flags. Later sources take precedence.
package config

import "time"

// Config holds runtime settings for the Track-kar CLI.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API.
//   - GeocoderURL: Nominatim-compatible endpoint for address lookups.
//   - LiveFeedURL: websocket position stream; empty disables the stream
//     and leaves polling as the only position source.
//   - StateDSN: path of the local sqlite state database.
//   - PollInterval: cadence of the background location refresh.
//   - DemoMode: simulate movement locally instead of calling the
//     location endpoint. An explicit switch, never an implicit fallback.
//   - LogLevel: debug | info | warn | error.
type Config struct {
	APIBaseURL   string
	GeocoderURL  string
	LiveFeedURL  string
	StateDSN     string
	PollInterval time.Duration
	DemoMode     bool
	LogLevel     string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api/v1"
	c.GeocoderURL = "https://nominatim.openstreetmap.org"
	c.LiveFeedURL = ""
	c.StateDSN = "trackkar.db"
	c.PollInterval = 30 * time.Second
	c.DemoMode = false
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present), the environment, and command-line flags, in that
// order.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
