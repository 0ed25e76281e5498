package catalog

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/okian/quakeboard/internal/domain/model"
)

type featureCollection struct {
	Type     string     `json:"type"`
	Features *[]feature `json:"features"`
}

type feature struct {
	ID         string     `json:"id"`
	Properties properties `json:"properties"`
	Geometry   *geometry  `json:"geometry"`
}

// properties are loosely typed; the catalog occasionally sends nulls or
// strings where numbers are expected.
type properties struct {
	Mag   any `json:"mag"`
	Place any `json:"place"`
	Time  any `json:"time"`
}

type geometry struct {
	Coordinates []any `json:"coordinates"`
}

// decodeCollection parses a GeoJSON body into events. Records without numeric
// coordinates are dropped and counted.
func decodeCollection(body []byte) ([]model.Event, int, error) {
	var fc featureCollection
	if err := json.Unmarshal(body, &fc); err != nil {
		return nil, 0, fmt.Errorf("decode feature collection: %w", err)
	}
	if fc.Features == nil {
		return nil, 0, fmt.Errorf("missing features array")
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, 0, fmt.Errorf("unexpected type %q", fc.Type)
	}

	events := make([]model.Event, 0, len(*fc.Features))
	dropped := 0
	for _, f := range *fc.Features {
		e, ok := toEvent(f)
		if !ok {
			dropped++
			continue
		}
		events = append(events, e)
	}
	return events, dropped, nil
}

func toEvent(f feature) (model.Event, bool) {
	if f.Geometry == nil || len(f.Geometry.Coordinates) < 2 {
		return model.Event{}, false
	}
	lon, okLon := number(f.Geometry.Coordinates[0])
	lat, okLat := number(f.Geometry.Coordinates[1])
	if !okLon || !okLat {
		return model.Event{}, false
	}

	e := model.Event{
		ID:        f.ID,
		Longitude: lon,
		Latitude:  lat,
		Place:     model.UnknownPlace,
	}
	if len(f.Geometry.Coordinates) > 2 {
		if d, ok := number(f.Geometry.Coordinates[2]); ok {
			e.DepthKm = model.Float(d)
		}
	}
	if m, ok := number(f.Properties.Mag); ok {
		e.Magnitude = model.Float(m)
	}
	if p, ok := f.Properties.Place.(string); ok && p != "" {
		e.Place = p
	}
	if ts, ok := number(f.Properties.Time); ok {
		e.TimestampMs = model.Millis(int64(ts))
	}
	return e, true
}

func number(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
