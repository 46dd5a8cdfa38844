package config

import (
	"flag"
	"os"
	"time"

	"github.com/trackkar/trackkar-cli/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string      base URL of the backend API (default from Config)
//	-g string      geocoder endpoint
//	-w string      websocket position stream URL ("" disables)
//	-s string      local state database path
//	-i int         poll interval in seconds
//	-demo          enable demo mode (use -demo=true/-demo=false forms)
//
// The function filters os.Args to the flags it owns, via flagx.FilterArgs,
// to avoid interfering with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-g", "-w", "-s", "-i", "-demo"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the backend API")
	fs.StringVar(&cfg.GeocoderURL, "g", cfg.GeocoderURL, "geocoder endpoint")
	fs.StringVar(&cfg.LiveFeedURL, "w", cfg.LiveFeedURL, "websocket position stream URL")
	fs.StringVar(&cfg.StateDSN, "s", cfg.StateDSN, "local state database path")
	pollSeconds := fs.Int("i", int(cfg.PollInterval.Seconds()), "poll interval (in seconds)")
	fs.BoolVar(&cfg.DemoMode, "demo", cfg.DemoMode, "simulate asset movement locally")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.PollInterval = time.Duration(*pollSeconds) * time.Second
}
