// Package style maps a magnitude to the map marker descriptor.
package style

import "math"

const (
	defaultColor  = "#808080"
	defaultRadius = 4.0
	minRadius     = 4.0
	maxRadius     = 20.0
	radiusPerMag  = 2.0
	fillOpacity   = 0.7
)

// Marker is how the dashboard draws one event.
type Marker struct {
	Color       string  `json:"color"`
	Radius      float64 `json:"radius"`
	FillOpacity float64 `json:"fill_opacity"`
}

// ramp is ordered from the strongest threshold down.
var ramp = []struct {
	min   float64
	color string
}{
	{7, "#800026"},
	{6, "#BD0026"},
	{5, "#FC4E2A"},
	{4, "#FD8D3C"},
	{3, "#FEB24C"},
	{math.Inf(-1), "#31A354"},
}

// ForMagnitude returns the marker style; an undefined magnitude gets the gray
// default.
func ForMagnitude(mag *float64) Marker {
	if mag == nil || math.IsNaN(*mag) {
		return Marker{Color: defaultColor, Radius: defaultRadius, FillOpacity: fillOpacity}
	}
	return Marker{Color: Color(*mag), Radius: Radius(*mag), FillOpacity: fillOpacity}
}

// Color picks the ramp color for m.
func Color(m float64) string {
	for _, step := range ramp {
		if m >= step.min {
			return step.color
		}
	}
	return defaultColor
}

// Radius scales with magnitude, clamped to [4, 20] pixels.
func Radius(m float64) float64 {
	return math.Max(minRadius, math.Min(maxRadius, m*radiusPerMag))
}
