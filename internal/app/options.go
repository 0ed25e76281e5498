package service

import (
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of background fetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets how many async submissions may wait.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many request IDs are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocation sets the session time zone used for calendar dates.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock overrides the time source for the initial date range.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithDefaults sets the initial filter: lookbackDays before today up to
// today, with magnitude floor minMag.
func WithDefaults(lookbackDays int, minMag float64) Option {
	return func(s *Service) {
		if lookbackDays >= 0 {
			s.lookbackDays = lookbackDays
		}
		if minMag >= 0 {
			s.defaultMinMag = minMag
		}
	}
}

// WithDefaultRegion seeds the region of interest.
func WithDefaultRegion(b *model.BoundingBox) Option {
	return func(s *Service) {
		s.defaultRegion = b
	}
}

// WithDropStale toggles discarding of superseded fetch results.
func WithDropStale(drop bool) Option {
	return func(s *Service) {
		s.dropStale = drop
	}
}
