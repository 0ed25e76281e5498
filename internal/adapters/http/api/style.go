package api

import (
	"net/http"

	"github.com/okian/quakeboard/internal/domain/filter"
	"github.com/okian/quakeboard/internal/domain/style"
)

// StyleHandler exposes the marker style function.
type StyleHandler struct{}

// NewStyleHandler creates a new style handler.
func NewStyleHandler() *StyleHandler {
	return &StyleHandler{}
}

// HandleGetStyle handles GET /api/style?mag=; an absent mag yields the
// undefined-magnitude style.
func (h *StyleHandler) HandleGetStyle(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_style"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	text := r.URL.Query().Get("mag")
	if text == "" {
		writeJSON(w, http.StatusOK, style.ForMagnitude(nil))
		return
	}
	mag, err := filter.ParseMagnitude(text)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	writeJSON(w, http.StatusOK, style.ForMagnitude(&mag))
}
