// Package model contains domain models passed between layers.
package model

import "time"

// Event is one earthquake record returned by the catalog. Optional fields are
// nil when the catalog omitted them or reported a non-numeric value.
type Event struct {
	ID          string   `json:"id,omitempty"`
	Longitude   float64  `json:"longitude"`
	Latitude    float64  `json:"latitude"`
	DepthKm     *float64 `json:"depth_km"`
	Magnitude   *float64 `json:"magnitude"`
	Place       string   `json:"place"`
	TimestampMs *int64   `json:"timestamp_ms"`
}

// UnknownPlace labels events the catalog did not name.
const UnknownPlace = "unknown"

// HasMagnitude reports whether the magnitude is defined.
func (e Event) HasMagnitude() bool { return e.Magnitude != nil }

// HasDepth reports whether the depth is defined.
func (e Event) HasDepth() bool { return e.DepthKm != nil }

// Time returns the event time in loc and false when no timestamp is known.
func (e Event) Time(loc *time.Location) (time.Time, bool) {
	if e.TimestampMs == nil {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	return time.UnixMilli(*e.TimestampMs).In(loc), true
}

// Float returns a pointer to v. Handy for building optional fields.
func Float(v float64) *float64 { return &v }

// Millis returns a pointer to v.
func Millis(v int64) *int64 { return &v }
