package model

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by the dashboard controls.
const DateLayout = "2006-01-02"

// BoundingBox is an axis-aligned rectangle in degrees.
type BoundingBox struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// DefaultBoundingBox is the national envelope used when no region is drawn.
var DefaultBoundingBox = BoundingBox{South: 35.5, West: 25.5, North: 42.5, East: 45.0}

// Validate checks ordering and coordinate ranges.
func (b BoundingBox) Validate() error {
	switch {
	case b.South < -90 || b.North > 90:
		return fmt.Errorf("latitude out of range [-90, 90]")
	case b.West < -180 || b.East > 180:
		return fmt.Errorf("longitude out of range [-180, 180]")
	case b.South > b.North:
		return fmt.Errorf("south %.4f is north of north %.4f", b.South, b.North)
	case b.West > b.East:
		return fmt.Errorf("west %.4f is east of east %.4f", b.West, b.East)
	}
	return nil
}

// FilterState holds the user's current query parameters. StartDate and
// EndDate are civil dates at midnight in the session location.
type FilterState struct {
	StartDate    time.Time    `json:"-"`
	EndDate      time.Time    `json:"-"`
	MinMagnitude float64      `json:"min_magnitude"`
	Region       *BoundingBox `json:"region,omitempty"`
}

// Box returns the region or the default envelope.
func (f FilterState) Box() BoundingBox {
	if f.Region != nil {
		return *f.Region
	}
	return DefaultBoundingBox
}

// Civil truncates t to midnight of its calendar day in loc.
func Civil(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	t = t.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}
