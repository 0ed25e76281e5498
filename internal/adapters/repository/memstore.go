package repository

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/quakeboard/internal/domain/aggregate"
	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/pkg/metrics"
)

// MemoryStore is the in-process Store. Readers load the snapshot pointer
// without locking; writers serialise on mu.
type MemoryStore struct {
	mu        sync.Mutex
	issued    uint64
	inflight  int
	dropStale bool
	now       func() time.Time
	initial   *Snapshot

	snapshot atomic.Pointer[Snapshot]
}

// NewMemoryStore creates a store showing the empty "no data" state.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		dropStale: true,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	snap := EmptySnapshot()
	if s.initial != nil {
		snap = *s.initial
	}
	s.snapshot.Store(&snap)
	return s
}

// EmptySnapshot is the reset state: no quakes, every statistic undefined.
func EmptySnapshot() Snapshot {
	r := aggregate.Empty()
	return Snapshot{
		Quakes:  []Quake{},
		Result:  r,
		Summary: r.Summary(time.UTC),
	}
}

func (s *MemoryStore) Begin(_ context.Context) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	s.inflight++
	return s.issued
}

func (s *MemoryStore) Publish(_ context.Context, snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Sequence == 0 || snap.Sequence > s.issued {
		return fmt.Errorf("publish sequence %d: %w", snap.Sequence, ErrUnknownSequence)
	}
	if s.inflight > 0 {
		s.inflight--
	}
	if s.dropStale && snap.Sequence != s.issued {
		metrics.RecordStaleResponse()
		return fmt.Errorf("publish sequence %d, latest %d: %w", snap.Sequence, s.issued, ErrStale)
	}

	if snap.Quakes == nil {
		snap.Quakes = []Quake{}
	}
	snap.PublishedAt = s.now()
	s.snapshot.Store(&snap)
	metrics.RecordSnapshotPublished(snap.Result.Count, snap.PublishedAt)
	return nil
}

func (s *MemoryStore) SetMessage(_ context.Context, msg model.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := *s.snapshot.Load()
	next.Message = &msg
	s.snapshot.Store(&next)
}

func (s *MemoryStore) Current(_ context.Context) Snapshot {
	return *s.snapshot.Load()
}

func (s *MemoryStore) Loading(_ context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inflight > 0
}
