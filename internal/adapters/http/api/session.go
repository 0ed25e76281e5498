package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/quakeboard/internal/adapters/repository"
	"github.com/okian/quakeboard/internal/domain/filter"
	"github.com/okian/quakeboard/internal/domain/model"
)

// SessionDependencies exposes the state on display.
type SessionDependencies interface {
	Filter() model.FilterState
	Current(ctx context.Context) repository.Snapshot
	Loading(ctx context.Context) bool
}

// RegionDependencies receives region-of-interest feedback from the map.
type RegionDependencies interface {
	SessionDependencies
	SetRegion(ctx context.Context, b model.BoundingBox) error
	ClearRegion(ctx context.Context)
}

// SessionHandler handles session requests.
type SessionHandler struct {
	deps SessionDependencies
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(deps SessionDependencies) *SessionHandler {
	return &SessionHandler{deps: deps}
}

// HandleGetSession handles GET /api/session requests.
func (h *SessionHandler) HandleGetSession(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, session(r.Context(), h.deps))
}

func session(ctx context.Context, deps SessionDependencies) sessionResponse {
	f := deps.Filter()
	return sessionResponse{
		Filter:   filter.Format(f),
		Region:   f.Region,
		Loading:  deps.Loading(ctx),
		Snapshot: deps.Current(ctx),
	}
}

// RegionHandler handles PUT and DELETE /api/region.
type RegionHandler struct {
	deps RegionDependencies
}

// NewRegionHandler creates a new region handler.
func NewRegionHandler(deps RegionDependencies) *RegionHandler {
	return &RegionHandler{deps: deps}
}

// HandleRegion replaces or clears the region used by later fetches.
func (h *RegionHandler) HandleRegion(w http.ResponseWriter, r *http.Request) {
	const op = "api.region"
	switch r.Method {
	case http.MethodPut:
		var b model.BoundingBox
		if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		if err := h.deps.SetRegion(r.Context(), b); err != nil {
			status, code := classify(err)
			writeError(w, status, code, Wrap(op, err))
			return
		}
	case http.MethodDelete:
		h.deps.ClearRegion(r.Context())
	default:
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, session(r.Context(), h.deps))
}
