package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/quakeboard/internal/adapters/repository"
	service "github.com/okian/quakeboard/internal/app"
	"github.com/okian/quakeboard/pkg/metrics"
)

// Response headers describing the session on /healthz.
const (
	HeaderSequence = "X-Quakeboard-Sequence"
	HeaderLoading  = "X-Quakeboard-Loading"
)

// HealthDependencies reports whether fetches can be served.
type HealthDependencies interface {
	Ready(ctx context.Context) error
	Current(ctx context.Context) repository.Snapshot
	Loading(ctx context.Context) bool
}

// StatsProvider reports service statistics.
type StatsProvider interface {
	GetStats() service.Stats
}

// HealthHandler serves the operational endpoints: readiness with metrics,
// and the service counters.
type HealthHandler struct {
	deps    HealthDependencies
	stats   StatsProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps HealthDependencies, stats StatsProvider) *HealthHandler {
	return &HealthHandler{
		deps:    deps,
		stats:   stats,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz. A ready service answers with the
// Prometheus exposition and the current snapshot sequence and loading flag
// in headers; otherwise 503 with the reason.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	const op = "api.healthz"
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	ctx := r.Context()
	if err := h.deps.Ready(ctx); err != nil {
		herr := WrapKind(op, ErrUnavailable, err)
		status, code := classify(herr)
		writeError(w, status, code, herr)
		return
	}
	w.Header().Set(HeaderSequence, strconv.FormatUint(h.deps.Current(ctx).Sequence, 10))
	w.Header().Set(HeaderLoading, strconv.FormatBool(h.deps.Loading(ctx)))
	h.metrics.ServeHTTP(w, r)
}

// HandleStats handles GET /stats.
func (h *HealthHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.stats.GetStats())
}
