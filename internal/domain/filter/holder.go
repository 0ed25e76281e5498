package filter

import (
	"sync"

	"github.com/okian/quakeboard/internal/domain/model"
)

// Holder keeps the one live filter of a session. The dashboard touches it
// from HTTP handlers and fetch workers, so access is serialized.
type Holder struct {
	mu    sync.RWMutex
	state model.FilterState
}

// NewHolder creates a holder seeded with initial.
func NewHolder(initial model.FilterState) *Holder {
	h := &Holder{}
	h.Set(initial)
	return h
}

// Snapshot returns a copy of the current filter.
func (h *Holder) Snapshot() model.FilterState {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return clone(h.state)
}

// Set replaces dates and magnitude floor and keeps the drawn region.
func (h *Holder) Set(f model.FilterState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	region := h.state.Region
	h.state = clone(f)
	if f.Region == nil {
		h.state.Region = region
	}
}

// Apply stores the dates and magnitude of f and returns the merged filter
// including the current region.
func (h *Holder) Apply(f model.FilterState) model.FilterState {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.StartDate = f.StartDate
	h.state.EndDate = f.EndDate
	h.state.MinMagnitude = f.MinMagnitude
	return clone(h.state)
}

// SetRegion records a user-drawn rectangle.
func (h *Holder) SetRegion(b model.BoundingBox) error {
	if err := b.Validate(); err != nil {
		return invalid(ErrInvalidRegion, "region", err.Error())
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Region = &b
	return nil
}

// ClearRegion reverts to the default envelope.
func (h *Holder) ClearRegion() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.state.Region = nil
}

func clone(f model.FilterState) model.FilterState {
	if f.Region != nil {
		b := *f.Region
		f.Region = &b
	}
	return f
}
