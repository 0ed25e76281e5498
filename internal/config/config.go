// Package config defines service configuration structures and loading hooks.
package config

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
)

// ErrInvalidConfig marks a value that Validate rejects.
var ErrInvalidConfig = errors.New("invalid config")

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogURL is the FDSN event query endpoint.
	CatalogURL string `koanf:"catalog_url"`

	// CatalogTimeoutMS bounds one catalog request; 0 waits indefinitely.
	CatalogTimeoutMS int `koanf:"catalog_timeout_ms"`

	// Timezone is the IANA name of the session's calendar, e.g. "Europe/Istanbul".
	Timezone string `koanf:"timezone"`

	DefaultMinMagnitude float64 `koanf:"default_min_magnitude"`
	DefaultLookbackDays int     `koanf:"default_lookback_days"`

	// QueueSize bounds the async fetch queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of async fetch workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many async request IDs are remembered.
	DedupeSize int `koanf:"dedupe_size"`

	// DropStaleResponses discards results of fetches superseded by a newer one.
	DropStaleResponses bool `koanf:"drop_stale_responses"`

	// DefaultBBox optionally seeds the region of interest as
	// "south,west,north,east".
	DefaultBBox string `koanf:"default_bbox"`
}

// New creates a Config with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		LogFormat:           "text",
		Addr:                ":9080",
		CatalogURL:          "https://earthquake.usgs.gov/fdsnws/event/1/query",
		CatalogTimeoutMS:    30_000,
		Timezone:            "Local",
		DefaultMinMagnitude: 4.0,
		DefaultLookbackDays: 30,
		QueueSize:           64,
		WorkerCount:         2,
		DedupeSize:          4096,
		DropStaleResponses:  true,
	}
}

// CatalogTimeout returns CatalogTimeoutMS as a duration.
func (c *Config) CatalogTimeout() time.Duration {
	return time.Duration(c.CatalogTimeoutMS) * time.Millisecond
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidConfig, c.Timezone, err)
	}
	return loc, nil
}

// Region parses DefaultBBox; an empty value yields nil.
func (c *Config) Region() (*model.BoundingBox, error) {
	text := strings.TrimSpace(c.DefaultBBox)
	if text == "" {
		return nil, nil
	}
	parts := strings.Split(text, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("%w: default_bbox needs four values, got %d", ErrInvalidConfig, len(parts))
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsNaN(f) {
			return nil, fmt.Errorf("%w: default_bbox value %q", ErrInvalidConfig, p)
		}
		v[i] = f
	}
	b := model.BoundingBox{South: v[0], West: v[1], North: v[2], East: v[3]}
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("%w: default_bbox: %v", ErrInvalidConfig, err)
	}
	return &b, nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.CatalogURL == "":
		return fmt.Errorf("%w: catalog_url must not be empty", ErrInvalidConfig)
	case c.CatalogTimeoutMS < 0:
		return fmt.Errorf("%w: catalog_timeout_ms must not be negative", ErrInvalidConfig)
	case c.DefaultMinMagnitude < 0 || c.DefaultMinMagnitude > 10:
		return fmt.Errorf("%w: default_min_magnitude must be within [0, 10]", ErrInvalidConfig)
	case c.DefaultLookbackDays < 0:
		return fmt.Errorf("%w: default_lookback_days must not be negative", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive", ErrInvalidConfig)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "text", "json":
	default:
		return fmt.Errorf("%w: log_format %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	_, err := c.Region()
	return err
}
