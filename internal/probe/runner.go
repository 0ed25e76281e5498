package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/quakeboard/internal/adapters/repository"
	"github.com/okian/quakeboard/internal/domain/filter"
	"github.com/okian/quakeboard/pkg/logger"
)

// ErrNotSettled is returned when fetches are still in flight after SettleWait.
var ErrNotSettled = errors.New("fetches did not settle")

// Run executes the probe and writes the final summary to out.
func Run(ctx context.Context, cfg *Config, out io.Writer) (*Stats, error) {
	applyDefaults(cfg)
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get()

	log.Info(ctx, "starting quakeboard probe",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("start", cfg.StartDate),
		logger.String("end", cfg.EndDate),
		logger.Float64("minmag", cfg.MinMagnitude),
		logger.Int("burst", cfg.Burst),
		logger.Duration("timeout", cfg.Timeout))

	c := newClient(cfg.BaseURL, cfg.Timeout)

	if err := checkHealth(ctx, c); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	snap, err := fetchSync(ctx, c, cfg)
	if err != nil {
		return stats, err
	}
	log.Info(ctx, "synchronous fetch published",
		logger.Int64("sequence", int64(snap.Sequence)), logger.Int("count", snap.Result.Count))

	if cfg.Burst > 0 {
		submitBurst(ctx, c, cfg, stats)
		snap, err = waitSettled(ctx, c, cfg)
		if err != nil {
			return stats, err
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	writeSummary(out, snap)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.SettleWait <= 0 {
		cfg.SettleWait = DefaultSettleWait
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.StartDate == "" || cfg.EndDate == "" {
		d := filter.Format(filter.Defaults(time.Now(), time.Local, filter.DefaultLookbackDays, cfg.MinMagnitude))
		if cfg.StartDate == "" {
			cfg.StartDate = d.StartDate
		}
		if cfg.EndDate == "" {
			cfg.EndDate = d.EndDate
		}
	}
}

func checkHealth(ctx context.Context, c *client) error {
	resp, err := c.get(ctx, "/healthz", nil)
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}
	return nil
}

// waitSettled polls the session until no fetch is in flight.
func waitSettled(ctx context.Context, c *client, cfg *Config) (repository.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.SettleWait)
	defer cancel()

	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()
	for {
		s, err := session(ctx, c)
		if err == nil && !s.Loading {
			return s.Snapshot, nil
		}
		select {
		case <-ctx.Done():
			if err != nil {
				return repository.Snapshot{}, fmt.Errorf("%w: %w", ErrNotSettled, err)
			}
			return repository.Snapshot{}, ErrNotSettled
		case <-ticker.C:
		}
	}
}

func writeSummary(out io.Writer, snap repository.Snapshot) {
	if out == nil {
		return
	}
	if snap.Message != nil {
		_, _ = fmt.Fprintf(out, "[%s] %s\n", snap.Message.Severity, snap.Message.Text)
	}
	s := snap.Summary
	_, _ = fmt.Fprintf(out, "Total:       %s\n", s.Total)
	_, _ = fmt.Fprintf(out, "Max:         %s\n", s.MaxMagnitude)
	_, _ = fmt.Fprintf(out, "Average:     %s\n", s.AverageMagnitude)
	_, _ = fmt.Fprintf(out, "Deepest:     %s\n", s.Deepest)
	_, _ = fmt.Fprintf(out, "Shallowest:  %s\n", s.Shallowest)
	if snap.Query != nil {
		_, _ = fmt.Fprintf(out, "Min mag:     %g\n", snap.Query.MinMagnitude)
	}
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var acceptRate float64
	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.Submitted) * percentageMultiplier
	}
	logger.Get().Info(ctx, "final statistics",
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("backpressure", stats.Backpressure),
		logger.Int("failed", stats.Failed),
		logger.Float64("acceptRate", acceptRate),
		logger.Duration("duration", stats.Duration))
}
