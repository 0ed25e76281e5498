package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/quakeboard/internal/adapters/mq/queue"
	"github.com/okian/quakeboard/internal/adapters/repository"
	"github.com/okian/quakeboard/internal/domain/filter"
)

// FetchDependencies runs fetch cycles.
type FetchDependencies interface {
	Fetch(ctx context.Context, in filter.Input) (repository.Snapshot, error)
	Submit(ctx context.Context, requestID string, in filter.Input) (queue.Job, bool, error)
}

// QuakesHandler serves synchronous and queued fetches.
type QuakesHandler struct {
	deps FetchDependencies
}

// NewQuakesHandler creates a new quakes handler.
func NewQuakesHandler(deps FetchDependencies) *QuakesHandler {
	return &QuakesHandler{deps: deps}
}

// fetchRequest mirrors the OpenAPI schema for POST /api/fetch.
type fetchRequest struct {
	RequestID    string      `json:"request_id"`
	StartDate    string      `json:"start"`
	EndDate      string      `json:"end"`
	MinMagnitude json.Number `json:"minmag"`
}

func (f fetchRequest) input() filter.Input {
	return filter.Input{StartDate: f.StartDate, EndDate: f.EndDate, MinMagnitude: f.MinMagnitude.String()}
}

type ackResponse struct {
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate"`
	JobID     string `json:"job_id,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// HandleGetQuakes handles GET /api/quakes?start=&end=&minmag=.
func (h *QuakesHandler) HandleGetQuakes(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_quakes"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	v := r.URL.Query()
	in := filter.Input{StartDate: v.Get("start"), EndDate: v.Get("end"), MinMagnitude: v.Get("minmag")}

	snap, err := h.deps.Fetch(r.Context(), in)
	if err != nil {
		status, code := classify(err)
		resp := newErrorResponse(code, Wrap(op, err))
		if status == http.StatusBadGateway {
			resp.Snapshot = &snap
			if snap.Message != nil {
				resp.Message = snap.Message.Text
			}
		}
		writeJSON(w, status, resp)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandlePostFetch handles POST /api/fetch requests.
func (h *QuakesHandler) HandlePostFetch(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_fetch"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req fetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	job, duplicate, err := h.deps.Submit(r.Context(), req.RequestID, req.input())
	if err != nil {
		if errors.Is(err, queue.ErrFull) || errors.Is(err, queue.ErrClosed) {
			err = WrapKind(op, ErrBackpressure, err)
		} else {
			err = Wrap(op, err)
		}
		status, code := classify(err)
		writeError(w, status, code, err)
		return
	}
	if duplicate {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true, RequestID: req.RequestID})
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", JobID: job.ID, RequestID: job.RequestID})
}
