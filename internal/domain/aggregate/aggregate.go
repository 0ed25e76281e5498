// Package aggregate computes summary statistics and chart buckets over one
// fetch cycle's events. Everything here is pure.
package aggregate

import (
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
)

// EventStat names the event that attained a statistic.
type EventStat struct {
	Value float64     `json:"value"`
	Event model.Event `json:"event"`
}

// Stats holds the four summary statistics; nil means "no data".
type Stats struct {
	MaxMagnitude     *EventStat `json:"max_magnitude"`
	AverageMagnitude *float64   `json:"average_magnitude"`
	Deepest          *EventStat `json:"deepest"`
	Shallowest       *EventStat `json:"shallowest"`
}

// Result is the derived view of one fetch. It is recomputed in full on
// every fetch.
type Result struct {
	Count            int          `json:"count"`
	Stats            Stats        `json:"stats"`
	Granularity      Granularity  `json:"granularity"`
	TimeBuckets      []TimeBucket `json:"time_buckets"`
	MagnitudeBuckets []MagBucket  `json:"magnitude_buckets"`
}

// Compute aggregates events. start and end are the query's calendar dates
// and select the time bucket granularity; loc is the session location used
// to place timestamps on the calendar.
func Compute(events []model.Event, start, end time.Time, loc *time.Location) Result {
	g := GranularityForRange(start, end)
	return Result{
		Count:            len(events),
		Stats:            ComputeStats(events),
		Granularity:      g,
		TimeBuckets:      BucketByTime(events, g, loc),
		MagnitudeBuckets: BucketByMagnitude(events),
	}
}

// Empty is the "no data" result shown before the first fetch and after a
// failed one.
func Empty() Result {
	return Result{
		Granularity:      Daily,
		TimeBuckets:      []TimeBucket{},
		MagnitudeBuckets: BucketByMagnitude(nil),
	}
}
