// Package catalog fetches earthquake events from an FDSN event web service.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/okian/quakeboard/internal/domain/model"
	"github.com/okian/quakeboard/internal/domain/query"
	"github.com/okian/quakeboard/pkg/metrics"
)

// DefaultURL is the USGS FDSN event query endpoint.
const DefaultURL = "https://earthquake.usgs.gov/fdsnws/event/1/query"

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxErrorBody = 4 << 10
)

// Result carries the decoded events and the count of discarded records.
type Result struct {
	Events  []model.Event
	Dropped int
}

// Client issues catalog queries.
type Client struct {
	base         string
	http         *http.Client
	timeout      time.Duration
	maxErrorBody int64
}

// New creates a Client for the endpoint base; an empty base uses DefaultURL.
func New(base string, opts ...Option) *Client {
	if base == "" {
		base = DefaultURL
	}
	c := &Client{
		base:         base,
		http:         &http.Client{},
		timeout:      defaultTimeout,
		maxErrorBody: defaultMaxErrorBody,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Base returns the configured endpoint.
func (c *Client) Base() string { return c.base }

// Fetch issues q and returns the decoded events, dropping records that lack
// coordinates.
func (c *Client) Fetch(ctx context.Context, q query.Query) ([]model.Event, error) {
	res, err := c.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	return res.Events, nil
}

// Query is Fetch with the dropped-record count.
func (c *Client) Query(ctx context.Context, q query.Query) (Result, error) {
	u, err := q.URL(c.base)
	if err != nil {
		return Result{}, &CatalogError{Kind: ErrTransport, Err: err}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Result{}, &CatalogError{Kind: ErrTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordCatalogRequest("transport", latency)
		return Result{}, &CatalogError{Kind: ErrTransport, Err: fmt.Errorf("request catalog: %w", err)}
	}
	defer resp.Body.Close()
	metrics.RecordCatalogRequest(strconv.Itoa(resp.StatusCode), latency)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, c.maxErrorBody))
		return Result{}, &CatalogError{
			Kind:       ErrStatus,
			StatusCode: resp.StatusCode,
			Detail:     statusDetail(resp.StatusCode, string(body)),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return Result{}, &CatalogError{Kind: ErrTransport, Err: err}
		}
		return Result{}, &CatalogError{Kind: ErrTransport, Err: fmt.Errorf("read body: %w", err)}
	}

	events, dropped, err := decodeCollection(body)
	if err != nil {
		return Result{}, &CatalogError{Kind: ErrMalformed, Err: err}
	}
	metrics.RecordEventsFetched(len(events), dropped)
	return Result{Events: events, Dropped: dropped}, nil
}

// statusDetail formats "status statusText. detail".
func statusDetail(code int, body string) string {
	s := fmt.Sprintf("%d %s", code, http.StatusText(code))
	if body = strings.TrimSpace(body); body != "" {
		s += ". " + body
	}
	return s
}
