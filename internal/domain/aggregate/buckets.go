package aggregate

import (
	"sort"
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/internal/domain/query"
)

// Granularity is the time bucket width.
type Granularity string

const (
	Daily   Granularity = "daily"
	Weekly  Granularity = "weekly"
	Monthly Granularity = "monthly"
)

const (
	maxDailySpan  = 31
	maxWeeklySpan = 182
)

// GranularityFor picks the bucket width from an inclusive day span.
func GranularityFor(spanDays int) Granularity {
	switch {
	case spanDays <= maxDailySpan:
		return Daily
	case spanDays <= maxWeeklySpan:
		return Weekly
	default:
		return Monthly
	}
}

// GranularityForRange picks the bucket width for a calendar date range.
func GranularityForRange(start, end time.Time) Granularity {
	return GranularityFor(query.SpanDays(start, end))
}

// TimeBucket is one bar of the time-series chart.
type TimeBucket struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// BucketKey returns the bucket an instant falls into: the ISO date for daily,
// the ISO date of the week's Monday for weekly, year-month for monthly.
func BucketKey(t time.Time, g Granularity) string {
	switch g {
	case Weekly:
		offset := (int(t.Weekday()) + 6) % 7 // days since Monday
		monday := time.Date(t.Year(), t.Month(), t.Day()-offset, 0, 0, 0, 0, t.Location())
		return monday.Format(model.DateLayout)
	case Monthly:
		return t.Format("2006-01")
	default:
		return t.Format(model.DateLayout)
	}
}

// BucketByTime counts events per bucket. Only buckets that received an event
// are emitted, sorted ascending. Events without a timestamp are skipped.
func BucketByTime(events []model.Event, g Granularity, loc *time.Location) []TimeBucket {
	counts := make(map[string]int)
	for _, e := range events {
		ts, ok := e.Time(loc)
		if !ok {
			continue
		}
		counts[BucketKey(ts, g)]++
	}

	out := make([]TimeBucket, 0, len(counts))
	for k, c := range counts {
		out = append(out, TimeBucket{Key: k, Count: c})
	}
	// both key layouts sort lexicographically in calendar order
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Magnitude bucket labels in display order.
const (
	Mag3     = "3.0-3.9"
	Mag4     = "4.0-4.9"
	Mag5     = "5.0-5.9"
	Mag6     = "6.0-6.9"
	Mag7Plus = "7.0+"
	MagOther = "other"
)

// MagnitudeLabels lists the six categories in display order.
var MagnitudeLabels = []string{Mag3, Mag4, Mag5, Mag6, Mag7Plus, MagOther}

// MagBucket is one bar of the magnitude distribution chart.
type MagBucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MagnitudeCategory returns the label an optional magnitude falls into.
func MagnitudeCategory(mag *float64) string {
	if mag == nil {
		return MagOther
	}
	m := *mag
	switch {
	case m >= 7:
		return Mag7Plus
	case m >= 6:
		return Mag6
	case m >= 5:
		return Mag5
	case m >= 4:
		return Mag4
	case m >= 3:
		return Mag3
	default:
		// also NaN, which fails every comparison
		return MagOther
	}
}

// BucketByMagnitude fills all six categories; their counts sum to len(events).
func BucketByMagnitude(events []model.Event) []MagBucket {
	index := make(map[string]int, len(MagnitudeLabels))
	out := make([]MagBucket, len(MagnitudeLabels))
	for i, l := range MagnitudeLabels {
		out[i] = MagBucket{Label: l}
		index[l] = i
	}
	for _, e := range events {
		out[index[MagnitudeCategory(e.Magnitude)]].Count++
	}
	return out
}
