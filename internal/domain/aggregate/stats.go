package aggregate

import (
	"math"

	"github.com/okian/quakeboard/internal/domain/model"
)

// ComputeStats runs the single statistics pass. Comparisons are strict, so
// on ties the first event in input order wins.
func ComputeStats(events []model.Event) Stats {
	var (
		maxMag     = math.Inf(-1)
		maxDepth   = math.Inf(-1)
		minDepth   = math.Inf(1)
		sum        float64
		magCount   int
		maxEvent   *model.Event
		deepEvent  *model.Event
		shallowEvt *model.Event
	)

	for i := range events {
		e := &events[i]
		if e.Magnitude != nil && !math.IsNaN(*e.Magnitude) {
			m := *e.Magnitude
			if m > maxMag {
				maxMag = m
				maxEvent = e
			}
			sum += m
			magCount++
		}
		if e.DepthKm != nil && !math.IsNaN(*e.DepthKm) {
			d := *e.DepthKm
			if d > maxDepth {
				maxDepth = d
				deepEvent = e
			}
			if d < minDepth {
				minDepth = d
				shallowEvt = e
			}
		}
	}

	var s Stats
	if maxEvent != nil {
		s.MaxMagnitude = &EventStat{Value: maxMag, Event: *maxEvent}
	}
	if magCount > 0 {
		avg := sum / float64(magCount)
		s.AverageMagnitude = &avg
	}
	if deepEvent != nil {
		s.Deepest = &EventStat{Value: maxDepth, Event: *deepEvent}
	}
	if shallowEvt != nil {
		s.Shallowest = &EventStat{Value: minDepth, Event: *shallowEvt}
	}
	return s
}
