package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/okian/quakeboard/internal/adapters/repository"
	"github.com/okian/quakeboard/pkg/logger"
)

// client wraps http.Client with the service base URL.
type client struct {
	http *http.Client
	base string
}

func newClient(base string, timeout time.Duration) *client {
	return &client{http: &http.Client{Timeout: timeout}, base: base}
}

func (c *client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.http.Do(req)
}

func (c *client) post(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.http.Do(req)
}

// decode reads and closes the body, decoding it into v.
func decode(resp *http.Response, v any) error {
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// fetchSync runs GET /api/quakes and returns the published snapshot.
func fetchSync(ctx context.Context, c *client, cfg *Config) (repository.Snapshot, error) {
	q := url.Values{}
	q.Set("start", cfg.StartDate)
	q.Set("end", cfg.EndDate)
	q.Set("minmag", strconv.FormatFloat(cfg.MinMagnitude, 'f', -1, 64))

	resp, err := c.get(ctx, "/api/quakes", q)
	if err != nil {
		return repository.Snapshot{}, fmt.Errorf("fetch request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e errorResponse
		if derr := decode(resp, &e); derr != nil {
			return repository.Snapshot{}, fmt.Errorf("fetch failed with status %d", resp.StatusCode)
		}
		return repository.Snapshot{}, fmt.Errorf("fetch failed with status %d: %s: %s", resp.StatusCode, e.Code, e.Message)
	}
	var snap repository.Snapshot
	if err := decode(resp, &snap); err != nil {
		return repository.Snapshot{}, err
	}
	return snap, nil
}

// session reads GET /api/session.
func session(ctx context.Context, c *client) (sessionResponse, error) {
	resp, err := c.get(ctx, "/api/session", nil)
	if err != nil {
		return sessionResponse{}, fmt.Errorf("session request failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return sessionResponse{}, fmt.Errorf("session failed with status %d", resp.StatusCode)
	}
	var s sessionResponse
	if err := decode(resp, &s); err != nil {
		return sessionResponse{}, err
	}
	return s, nil
}

// submitBurst posts cfg.Burst async fetches concurrently. Each submission
// raises the magnitude floor by magStep so the last one issued is the one
// whose result should stay on display.
func submitBurst(ctx context.Context, c *client, cfg *Config, stats *Stats) {
	log := logger.Get()
	log.Info(ctx, "submitting fetch burst", logger.Int("burst", cfg.Burst), logger.Int("workers", cfg.Workers))

	var accepted, duplicate, backpressure, failed, submitted int64

	reqs := make(chan fetchRequest, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range reqs {
				res := submitOne(ctx, c, r)
				atomic.AddInt64(&submitted, 1)
				switch res {
				case resultAccepted:
					atomic.AddInt64(&accepted, 1)
				case resultDuplicate:
					atomic.AddInt64(&duplicate, 1)
				case resultBackpressure:
					atomic.AddInt64(&backpressure, 1)
				default:
					atomic.AddInt64(&failed, 1)
				}
				if cfg.Verbose {
					log.Debug(ctx, "submission", logger.String("request_id", r.RequestID),
						logger.Float64("minmag", r.MinMagnitude), logger.String("result", res))
				}
			}
		}()
	}

	go func() {
		defer close(reqs)
		for i := 0; i < cfg.Burst; i++ {
			r := fetchRequest{
				RequestID:    uuid.NewString(),
				StartDate:    cfg.StartDate,
				EndDate:      cfg.EndDate,
				MinMagnitude: cfg.MinMagnitude + float64(i)*magStep,
			}
			select {
			case <-ctx.Done():
				return
			case reqs <- r:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(atomic.LoadInt64(&submitted))
	stats.Accepted = int(atomic.LoadInt64(&accepted))
	stats.Duplicate = int(atomic.LoadInt64(&duplicate))
	stats.Backpressure = int(atomic.LoadInt64(&backpressure))
	stats.Failed = int(atomic.LoadInt64(&failed))
}

func submitOne(ctx context.Context, c *client, r fetchRequest) string {
	resp, err := c.post(ctx, "/api/fetch", r)
	if err != nil {
		return resultFailed
	}
	var ack ackResponse
	_ = decode(resp, &ack)

	switch resp.StatusCode {
	case http.StatusAccepted:
		return resultAccepted
	case http.StatusOK:
		return resultDuplicate
	case http.StatusTooManyRequests:
		return resultBackpressure
	default:
		return resultFailed
	}
}
