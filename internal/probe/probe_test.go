package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/quakeboard/internal/adapters/repository"
	"github.com/okian/quakeboard/internal/domain/aggregate"
	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

type fakeService struct {
	mu       sync.Mutex
	seen     map[string]bool
	posts    int64
	polls    int64
	capacity int64
	lastMin  float64
	status   int
}

func (f *fakeService) snapshot() repository.Snapshot {
	r := aggregate.Empty()
	msg := model.Info("No earthquakes found for the selected filters.")
	return repository.Snapshot{
		Sequence: 1,
		Result:   r,
		Summary:  r.Summary(time.UTC),
		Message:  &msg,
	}
}

func (f *fakeService) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("# metrics\n"))
	})
	mux.HandleFunc("/api/quakes", func(w http.ResponseWriter, r *http.Request) {
		if f.status != 0 {
			w.WriteHeader(f.status)
			_ = json.NewEncoder(w).Encode(errorResponse{Code: "invalid_filter", Message: "Please select a start date."})
			return
		}
		if r.URL.Query().Get("start") == "" || r.URL.Query().Get("minmag") != "4.5" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_ = json.NewEncoder(w).Encode(f.snapshot())
	})
	mux.HandleFunc("/api/fetch", func(w http.ResponseWriter, r *http.Request) {
		var req fetchRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		n := atomic.AddInt64(&f.posts, 1)
		f.mu.Lock()
		defer f.mu.Unlock()
		if req.MinMagnitude > f.lastMin {
			f.lastMin = req.MinMagnitude
		}
		switch {
		case f.capacity > 0 && n > f.capacity:
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(errorResponse{Code: "backpressure"})
		case f.seen[req.RequestID]:
			_ = json.NewEncoder(w).Encode(ackResponse{Status: "duplicate", Duplicate: true})
		default:
			f.seen[req.RequestID] = true
			w.WriteHeader(http.StatusAccepted)
			_ = json.NewEncoder(w).Encode(ackResponse{Status: "accepted", JobID: req.RequestID})
		}
	})
	mux.HandleFunc("/api/session", func(w http.ResponseWriter, _ *http.Request) {
		loading := atomic.AddInt64(&f.polls, 1) < 3
		_ = json.NewEncoder(w).Encode(sessionResponse{Loading: loading, Snapshot: f.snapshot()})
	})
	return mux
}

func TestRun(t *testing.T) {
	_ = logger.Init()

	convey.Convey("Given a running service", t, func() {
		f := &fakeService{seen: map[string]bool{}}
		srv := httptest.NewServer(f.handler())
		defer srv.Close()

		cfg := &Config{
			BaseURL:      srv.URL,
			StartDate:    "2024-01-01",
			EndDate:      "2024-01-31",
			MinMagnitude: 4.5,
			Workers:      4,
			PollInterval: 5 * time.Millisecond,
			SettleWait:   time.Second,
		}

		convey.Convey("When only the synchronous fetch runs", func() {
			var out bytes.Buffer
			stats, err := Run(context.Background(), cfg, &out)

			convey.So(err, convey.ShouldBeNil)
			convey.So(stats.Submitted, convey.ShouldEqual, 0)
			convey.So(out.String(), convey.ShouldContainSubstring, "Total:       0 (no data)")
			convey.So(out.String(), convey.ShouldContainSubstring, "[info] No earthquakes found")
			convey.So(atomic.LoadInt64(&f.polls), convey.ShouldEqual, 0)
		})

		convey.Convey("When a burst is submitted", func() {
			cfg.Burst = 10
			var out bytes.Buffer
			stats, err := Run(context.Background(), cfg, &out)

			convey.So(err, convey.ShouldBeNil)
			convey.So(stats.Submitted, convey.ShouldEqual, 10)
			convey.So(stats.Accepted, convey.ShouldEqual, 10)
			convey.So(stats.Failed, convey.ShouldEqual, 0)
			convey.So(f.lastMin, convey.ShouldAlmostEqual, 5.4, 1e-9)
			convey.So(atomic.LoadInt64(&f.polls), convey.ShouldEqual, 3)
		})

		convey.Convey("When the queue pushes back", func() {
			cfg.Burst = 6
			f.capacity = 4
			stats, err := Run(context.Background(), cfg, nil)

			convey.So(err, convey.ShouldBeNil)
			convey.So(stats.Accepted, convey.ShouldEqual, 4)
			convey.So(stats.Backpressure, convey.ShouldEqual, 2)
		})

		convey.Convey("When the synchronous fetch is rejected", func() {
			f.status = http.StatusBadRequest
			_, err := Run(context.Background(), cfg, nil)

			convey.So(err, convey.ShouldNotBeNil)
			convey.So(err.Error(), convey.ShouldContainSubstring, "invalid_filter")
		})
	})

	convey.Convey("Given no service", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		_, err := Run(context.Background(), &Config{BaseURL: srv.URL, MinMagnitude: 4}, nil)
		convey.So(err, convey.ShouldNotBeNil)
		convey.So(err.Error(), convey.ShouldContainSubstring, "health check")
	})
}

func TestApplyDefaults(t *testing.T) {
	convey.Convey("Given an empty config", t, func() {
		cfg := &Config{MinMagnitude: 4}
		applyDefaults(cfg)

		convey.So(cfg.BaseURL, convey.ShouldEqual, DefaultBaseURL)
		convey.So(cfg.Timeout, convey.ShouldEqual, DefaultTimeout)
		convey.So(cfg.Workers, convey.ShouldEqual, 1)
		convey.So(cfg.StartDate, convey.ShouldNotBeEmpty)
		convey.So(cfg.EndDate, convey.ShouldNotBeEmpty)
		convey.So(cfg.StartDate < cfg.EndDate, convey.ShouldBeTrue)
	})
}

func TestWaitSettled(t *testing.T) {
	_ = logger.Init()

	convey.Convey("Given a session that never settles", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_ = json.NewEncoder(w).Encode(sessionResponse{Loading: true})
		}))
		defer srv.Close()

		cfg := &Config{PollInterval: 5 * time.Millisecond, SettleWait: 30 * time.Millisecond}
		_, err := waitSettled(context.Background(), newClient(srv.URL, time.Second), cfg)
		convey.So(errors.Is(err, ErrNotSettled), convey.ShouldBeTrue)
		convey.So(err.Error(), convey.ShouldContainSubstring, "fetches did not settle")
	})
}
