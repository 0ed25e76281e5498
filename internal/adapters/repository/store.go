// Package repository holds the dashboard's current result snapshot.
package repository

import (
	"context"
	"time"

	"github.com/okian/quakeboard/internal/domain/aggregate"
	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/internal/domain/query"
	"github.com/okian/quakeboard/internal/domain/style"
)

// Quake is an event together with its map marker.
type Quake struct {
	model.Event
	Marker style.Marker `json:"marker"`
}

// Snapshot is everything the presentation sink renders for one fetch.
type Snapshot struct {
	Sequence    uint64            `json:"sequence"`
	FetchID     string            `json:"fetch_id,omitempty"`
	Query       *query.Query      `json:"query,omitempty"`
	Quakes      []Quake           `json:"quakes"`
	Result      aggregate.Result  `json:"result"`
	Summary     aggregate.Summary `json:"summary"`
	Message     *model.Message    `json:"message,omitempty"`
	PublishedAt time.Time         `json:"published_at"`
}

// Store replaces the current snapshot in full on every accepted publish.
type Store interface {
	// Begin issues the next sequence token for a fetch about to start.
	Begin(ctx context.Context) uint64

	// Publish installs s as the current snapshot. It returns ErrStale when
	// a newer fetch was begun since s.Sequence was issued and stale results
	// are being dropped.
	Publish(ctx context.Context, s Snapshot) error

	// SetMessage replaces the status message without touching the results.
	SetMessage(ctx context.Context, msg model.Message)

	// Current returns the snapshot on display.
	Current(ctx context.Context) Snapshot

	// Loading reports whether a begun fetch has not been published yet.
	Loading(ctx context.Context) bool
}
