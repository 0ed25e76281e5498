package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/okian/quakeboard/internal/probe"
)

func main() {
	var (
		baseURL   = flag.String("url", probe.DefaultBaseURL, "Base URL of the service")
		start     = flag.String("start", "", "Start date YYYY-MM-DD")
		end       = flag.String("end", "", "End date YYYY-MM-DD")
		minMag    = flag.Float64("minmag", probe.DefaultMinMagnitude, "Minimum magnitude")
		burst     = flag.Int("burst", 0, "Number of concurrent async fetches")
		workers   = flag.Int("workers", runtime.NumCPU(), "Number of concurrent submitters")
		timeout   = flag.Duration("timeout", probe.DefaultTimeout, "HTTP request timeout")
		settle    = flag.Duration("settle", probe.DefaultSettleWait, "How long to wait for the burst to settle")
		logFormat = flag.String("log-format", "text", "text or json")
		verbose   = flag.Bool("verbose", false, "Log every submission")
		help      = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*logFormat, *verbose); err != nil {
		_, _ = os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &probe.Config{
		BaseURL:      *baseURL,
		StartDate:    *start,
		EndDate:      *end,
		MinMagnitude: *minMag,
		Burst:        *burst,
		Workers:      *workers,
		Timeout:      *timeout,
		SettleWait:   *settle,
		Verbose:      *verbose,
	}

	if _, err := probe.Run(ctx, cfg, os.Stdout); err != nil {
		_, _ = os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
