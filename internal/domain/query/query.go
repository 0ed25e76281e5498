// Package query turns a filter into a fully-qualified catalog query.
package query

import (
	"net/url"
	"strconv"
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
)

// TimeLayout is the FDSN timestamp format, in the session's local time.
const TimeLayout = "2006-01-02T15:04:05"

const (
	FormatGeoJSON = "geojson"
	OrderTimeAsc  = "time-asc"
)

// Query is a catalog request derived from a model.FilterState.
type Query struct {
	Start        time.Time         `json:"start"`
	End          time.Time         `json:"end"`
	Box          model.BoundingBox `json:"bbox"`
	MinMagnitude float64           `json:"min_magnitude"`
	OrderBy      string            `json:"orderby"`
	Format       string            `json:"format"`
}

// Build derives the query: the window covers the start day from 00:00:00 to
// the end day at 23:59:59, the region or the default envelope, the magnitude
// floor, chronological ascending order, GeoJSON output.
func Build(f model.FilterState) Query {
	start := f.StartDate
	end := f.EndDate
	return Query{
		Start:        time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		End:          time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, end.Location()),
		Box:          f.Box(),
		MinMagnitude: f.MinMagnitude,
		OrderBy:      OrderTimeAsc,
		Format:       FormatGeoJSON,
	}
}

// Values encodes the FDSN event query parameters.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("format", q.Format)
	v.Set("starttime", q.Start.Format(TimeLayout))
	v.Set("endtime", q.End.Format(TimeLayout))
	v.Set("minlatitude", formatFloat(q.Box.South))
	v.Set("maxlatitude", formatFloat(q.Box.North))
	v.Set("minlongitude", formatFloat(q.Box.West))
	v.Set("maxlongitude", formatFloat(q.Box.East))
	v.Set("minmagnitude", formatFloat(q.MinMagnitude))
	v.Set("orderby", q.OrderBy)
	return v
}

// URL returns base with the query parameters attached.
func (q Query) URL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.RawQuery = q.Values().Encode()
	return u.String(), nil
}

// Dates re-derives the calendar dates of the time window.
func (q Query) Dates() (start, end time.Time) {
	return model.Civil(q.Start, q.Start.Location()), model.Civil(q.End, q.End.Location())
}

// SpanDays is the inclusive number of calendar days in the window; a same-day
// query spans 1. Inverted windows yield zero or less.
func (q Query) SpanDays() int {
	start, end := q.Dates()
	return SpanDays(start, end)
}

// SpanDays counts calendar days from start to end inclusive.
func SpanDays(start, end time.Time) int {
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	return int(e.Sub(s).Hours()/24) + 1
}

// Parse reads the time window back from encoded parameters in loc.
func Parse(v url.Values, loc *time.Location) (start, end time.Time, err error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err = time.ParseInLocation(TimeLayout, v.Get("starttime"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err = time.ParseInLocation(TimeLayout, v.Get("endtime"), loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
