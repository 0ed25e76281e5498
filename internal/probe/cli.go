package probe

import (
	"os"

	"github.com/okian/quakeboard/pkg/logger"
)

// SetupLogging initializes the global logger for the probe.
func SetupLogging(format string, verbose bool) error {
	if err := logger.InitWith(os.Stderr, logger.Format(format)); err != nil {
		return err
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}

// ShowHelp prints usage information for the probe.
func ShowHelp() {
	_, _ = os.Stdout.WriteString(`quake-probe
===========

Drives a running quakeboard service: one synchronous fetch, an optional
burst of concurrent async fetches, then the summary on display.

Usage:
  go run ./cmd/quake-probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -start string
        Start date YYYY-MM-DD (default: 30 days ago)
  -end string
        End date YYYY-MM-DD (default: today)
  -minmag float
        Minimum magnitude (default 4)
  -burst int
        Number of concurrent async fetches (default 0)
  -workers int
        Number of concurrent submitters (default CPU cores)
  -timeout duration
        HTTP request timeout (default 30s)
  -settle duration
        How long to wait for the burst to settle (default 1m)
  -log-format string
        text or json (default "text")
  -verbose
        Log every submission
  -help
        Show this help message

Examples:
  # Fetch January 2024 at M5 and above
  go run ./cmd/quake-probe -start 2024-01-01 -end 2024-01-31 -minmag 5

  # Race 20 fetches; only the newest result should stay on display
  go run ./cmd/quake-probe -burst 20 -workers 8
`)
}
