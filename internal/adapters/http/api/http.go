// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/quakeboard/internal/adapters/catalog"
	"github.com/okian/quakeboard/internal/adapters/repository"
	service "github.com/okian/quakeboard/internal/app"
	"github.com/okian/quakeboard/internal/domain/filter"
	"github.com/okian/quakeboard/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	HealthDependencies
	FetchDependencies
	SessionDependencies
	RegionDependencies
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler  *HealthHandler
	quakesHandler  *QuakesHandler
	sessionHandler *SessionHandler
	regionHandler  *RegionHandler
	styleHandler   *StyleHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(deps, statsProvider),
		quakesHandler:  NewQuakesHandler(deps),
		sessionHandler: NewSessionHandler(deps),
		regionHandler:  NewRegionHandler(deps),
		styleHandler:   NewStyleHandler(),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.healthHandler.HandleStats, "stats"))
	mux.HandleFunc("/api/quakes", MetricsMiddleware(s.quakesHandler.HandleGetQuakes, "quakes"))
	mux.HandleFunc("/api/fetch", MetricsMiddleware(s.quakesHandler.HandlePostFetch, "fetch"))
	mux.HandleFunc("/api/session", MetricsMiddleware(s.sessionHandler.HandleGetSession, "session"))
	mux.HandleFunc("/api/region", MetricsMiddleware(s.regionHandler.HandleRegion, "region"))
	mux.HandleFunc("/api/style", MetricsMiddleware(s.styleHandler.HandleGetStyle, "style"))
}

// errorResponse carries a user-facing message; Op names the handler that
// failed for diagnostics.
type errorResponse struct {
	Code     string               `json:"code"`
	Message  string               `json:"message"`
	Op       string               `json:"op,omitempty"`
	Snapshot *repository.Snapshot `json:"snapshot,omitempty"`
}

func newErrorResponse(code string, err error) errorResponse {
	resp := errorResponse{Code: code, Message: err.Error()}
	var ae *Error
	if errors.As(err, &ae) {
		resp.Op = ae.Op
		resp.Message = ae.Reason()
	}
	return resp
}

// sessionResponse is what the dashboard restores on load.
type sessionResponse struct {
	Filter   filter.Input        `json:"filter"`
	Region   *model.BoundingBox  `json:"region"`
	Loading  bool                `json:"loading"`
	Snapshot repository.Snapshot `json:"snapshot"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	if err == nil {
		writeJSON(w, status, errorResponse{Code: code, Message: http.StatusText(status)})
		return
	}
	writeJSON(w, status, newErrorResponse(code, err))
}

// classify maps service errors to a status code and error code.
func classify(err error) (int, string) {
	switch {
	case filter.IsValidation(err), errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, "invalid_filter"
	case catalog.IsCatalog(err):
		return http.StatusBadGateway, "catalog_error"
	case errors.Is(err, ErrBackpressure):
		return http.StatusTooManyRequests, "backpressure"
	case errors.Is(err, ErrUnavailable), errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrNoCatalog):
		return http.StatusServiceUnavailable, "unavailable"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
