// Package service is the dashboard session controller. It owns the filter
// state, runs the fetch pipeline and publishes result snapshots.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/quakeboard/internal/adapters/catalog"
	"github.com/okian/quakeboard/internal/adapters/mq/queue"
	"github.com/okian/quakeboard/internal/adapters/mq/worker"
	"github.com/okian/quakeboard/internal/adapters/repository"
	"github.com/okian/quakeboard/internal/domain/aggregate"
	"github.com/okian/quakeboard/internal/domain/dedupe"
	"github.com/okian/quakeboard/internal/domain/filter"
	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/internal/domain/query"
	"github.com/okian/quakeboard/internal/domain/style"
	"github.com/okian/quakeboard/pkg/logger"
	"github.com/okian/quakeboard/pkg/metrics"
)

// Fetch modes recorded in metrics.
const (
	modeSync  = "sync"
	modeAsync = "async"
)

// Catalog is the upstream event source.
type Catalog interface {
	Query(ctx context.Context, q query.Query) (catalog.Result, error)
}

// Service implements the API dependencies for the dashboard.
type Service struct {
	mu sync.RWMutex

	catalog Catalog
	holder  *filter.Holder
	store   repository.Store
	deduper dedupe.Deduper
	queue   *queue.InMemoryQueue
	pool    *worker.Pool

	workerCount   int
	queueSize     int
	dedupeSize    int
	lookbackDays  int
	defaultMinMag float64
	defaultRegion *model.BoundingBox
	dropStale     bool
	loc           *time.Location
	now           func() time.Time

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service fetching from c.
func New(c Catalog, opts ...Option) *Service {
	s := &Service{
		catalog:       c,
		workerCount:   2,
		queueSize:     64,
		dedupeSize:    dedupe.DefaultMaxSize,
		lookbackDays:  filter.DefaultLookbackDays,
		defaultMinMag: filter.DefaultMinMagnitude,
		dropStale:     true,
		loc:           time.Local,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	initial := filter.Defaults(s.now(), s.loc, s.lookbackDays, s.defaultMinMag)
	initial.Region = s.defaultRegion
	s.holder = filter.NewHolder(initial)
	s.store = repository.NewMemoryStore(repository.WithDropStale(s.dropStale))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	return s
}

// Start launches the async fetch workers.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.catalog == nil {
		return ErrNoCatalog
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s)
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "dashboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Bool("dropStale", s.dropStale),
		logger.String("timezone", s.loc.String()),
	)
	return nil
}

// Stop drains queued jobs and stops the workers.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	ctx := context.Background()
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown", logger.Error(err))
	}
	s.cancel()
	s.started = false
	s.logger.Info(ctx, "dashboard service stopped")
}

// Location returns the session time zone.
func (s *Service) Location() *time.Location { return s.loc }

// Fetch validates in, queries the catalog and publishes the result. On a
// validation error nothing but the status message changes. On a catalog
// error the reset snapshot is published and the error returned with it.
func (s *Service) Fetch(ctx context.Context, in filter.Input) (repository.Snapshot, error) {
	f, err := s.validate(ctx, in, modeSync)
	if err != nil {
		return s.store.Current(ctx), err
	}
	return s.run(ctx, f, modeSync, "")
}

// RunJob executes a queued fetch. It satisfies worker.Fetcher.
func (s *Service) RunJob(ctx context.Context, j queue.Job) error {
	f, err := s.validate(ctx, j.Input, modeAsync)
	if err != nil {
		return err
	}
	_, err = s.run(ctx, f, modeAsync, j.ID)
	return err
}

// Submit queues a fetch. A repeated requestID is acknowledged as a
// duplicate without running again.
func (s *Service) Submit(ctx context.Context, requestID string, in filter.Input) (job queue.Job, duplicate bool, err error) {
	s.mu.RLock()
	started := s.started
	s.mu.RUnlock()
	if !started {
		return queue.Job{}, false, ErrNotStarted
	}

	if _, err := s.validate(ctx, in, modeAsync); err != nil {
		return queue.Job{}, false, err
	}
	if requestID != "" && s.deduper.SeenAndRecord(ctx, requestID) {
		metrics.RecordJobDuplicate()
		s.logger.Debug(ctx, "duplicate fetch submission", logger.String("request_id", requestID))
		return queue.Job{RequestID: requestID, Input: in}, true, nil
	}

	job = queue.Job{
		ID:          uuid.NewString(),
		RequestID:   requestID,
		Input:       in,
		SubmittedAt: s.now(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		if requestID != "" {
			s.deduper.Unrecord(ctx, requestID)
		}
		return queue.Job{}, false, fmt.Errorf("enqueue fetch: %w", err)
	}
	return job, false, nil
}

// SetRegion replaces the region of interest used by subsequent fetches.
func (s *Service) SetRegion(ctx context.Context, b model.BoundingBox) error {
	if err := s.holder.SetRegion(b); err != nil {
		metrics.RecordValidationError(filter.ErrInvalidRegion.Error())
		return err
	}
	s.logger.Debug(ctx, "region updated", logger.Any("bbox", b))
	return nil
}

// ClearRegion reverts subsequent fetches to the default envelope.
func (s *Service) ClearRegion(ctx context.Context) {
	s.holder.ClearRegion()
	s.logger.Debug(ctx, "region cleared")
}

// Filter returns the filter state.
func (s *Service) Filter() model.FilterState { return s.holder.Snapshot() }

// Current returns the snapshot on display.
func (s *Service) Current(ctx context.Context) repository.Snapshot { return s.store.Current(ctx) }

// Loading reports whether a fetch is still in flight.
func (s *Service) Loading(ctx context.Context) bool { return s.store.Loading(ctx) }

// Stats is the service state reported on /stats.
type Stats struct {
	Started       bool   `json:"started"`
	WorkerCount   int    `json:"workerCount"`
	QueueSize     int    `json:"queueSize"`
	QueueLength   int    `json:"queueLength"`
	DedupeSize    int    `json:"dedupeSize"`
	DedupeEntries int64  `json:"dedupeEntries"`
	DropStale     bool   `json:"dropStale"`
	Timezone      string `json:"timezone"`
	Loading       bool   `json:"loading"`
	Sequence      uint64 `json:"sequence"`
	EventCount    int    `json:"eventCount"`
	RegionSet     bool   `json:"regionSet"`
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	cur := s.store.Current(ctx)
	st := Stats{
		Started:       s.started,
		WorkerCount:   s.workerCount,
		QueueSize:     s.queueSize,
		DedupeSize:    s.dedupeSize,
		DedupeEntries: s.deduper.Size(),
		DropStale:     s.dropStale,
		Timezone:      s.loc.String(),
		Loading:       s.store.Loading(ctx),
		Sequence:      cur.Sequence,
		EventCount:    cur.Result.Count,
		RegionSet:     s.holder.Snapshot().Region != nil,
	}
	if s.started {
		st.QueueLength = s.queue.Len(ctx)
	}
	return st
}

// Ready reports why fetches cannot be served, or nil.
func (s *Service) Ready(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch {
	case s.catalog == nil:
		return ErrNoCatalog
	case !s.started:
		return ErrNotStarted
	}
	return nil
}

func (s *Service) validate(ctx context.Context, in filter.Input, mode string) (model.FilterState, error) {
	f, err := filter.Parse(in, s.loc)
	if err == nil {
		return f, nil
	}
	reason := "invalid"
	var ve *filter.ValidationError
	if errors.As(err, &ve) {
		reason = ve.Reason.Error()
	}
	metrics.RecordValidationError(reason)
	metrics.RecordFetch("invalid", mode)
	s.store.SetMessage(ctx, model.Failure(err.Error()))
	s.logger.Debug(ctx, "filter rejected", logger.Error(err))
	return model.FilterState{}, err
}

func (s *Service) run(ctx context.Context, f model.FilterState, mode, fetchID string) (repository.Snapshot, error) {
	if s.catalog == nil {
		return s.store.Current(ctx), ErrNoCatalog
	}
	if fetchID == "" {
		fetchID = uuid.NewString()
	}

	merged := s.holder.Apply(f)
	q := query.Build(merged)
	seq := s.store.Begin(ctx)
	log := s.logger.With(logger.String("fetch_id", fetchID), logger.Int64("sequence", int64(seq)))

	res, fetchErr := s.catalog.Query(ctx, q)

	var snap repository.Snapshot
	if fetchErr != nil {
		snap = repository.EmptySnapshot()
		msg := model.Failure("Failed to fetch earthquake data: " + fetchErr.Error())
		snap.Message = &msg
		log.Warn(ctx, "catalog fetch failed", logger.Error(fetchErr))
	} else {
		snap = s.build(q, res.Events)
		if res.Dropped > 0 {
			log.Debug(ctx, "dropped records without coordinates", logger.Int("dropped", res.Dropped))
		}
	}
	snap.Sequence = seq
	snap.FetchID = fetchID
	snap.Query = &q

	if err := s.store.Publish(ctx, snap); err != nil {
		if errors.Is(err, repository.ErrStale) {
			metrics.RecordFetch("stale", mode)
			log.Info(ctx, "discarded superseded fetch result")
			return s.store.Current(ctx), nil
		}
		return s.store.Current(ctx), err
	}

	if fetchErr != nil {
		metrics.RecordFetch("error", mode)
		return snap, fetchErr
	}
	metrics.RecordFetch("ok", mode)
	log.Info(ctx, "fetch published", logger.Int("events", snap.Result.Count), logger.String("mode", mode))
	return snap, nil
}

func (s *Service) build(q query.Query, events []model.Event) repository.Snapshot {
	start, end := q.Dates()
	result := aggregate.Compute(events, start, end, s.loc)

	quakes := make([]repository.Quake, len(events))
	for i, e := range events {
		quakes[i] = repository.Quake{Event: e, Marker: style.ForMagnitude(e.Magnitude)}
	}

	var msg model.Message
	if len(events) == 0 {
		msg = model.Info("No earthquakes found for the selected filters.")
	} else {
		msg = model.Success(fmt.Sprintf("Loaded %d earthquakes.", len(events)))
	}
	return repository.Snapshot{
		Quakes:  quakes,
		Result:  result,
		Summary: result.Summary(s.loc),
		Message: &msg,
	}
}
