package repository

import "time"

// Option configures a MemoryStore.
type Option func(*MemoryStore)

// WithDropStale toggles discarding of out-of-date results. With it off the
// last publish wins regardless of issue order.
func WithDropStale(drop bool) Option {
	return func(s *MemoryStore) {
		s.dropStale = drop
	}
}

// WithClock overrides the publish timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithInitial seeds the snapshot shown before the first fetch.
func WithInitial(snap Snapshot) Option {
	return func(s *MemoryStore) {
		s.initial = &snap
	}
}
