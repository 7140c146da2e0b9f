package httpx

import (
	"net/http"

	"github.com/quillworks/quill-api/internal/service"
)

// StatsHandlers contains the HTTP handlers for the admin dashboard.
type StatsHandlers struct {
	Svc *service.StatsService
}

// Dashboard handles GET /api/stats (administrators only, enforced in routing).
func (h *StatsHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.Dashboard(r.Context())
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, stats)
}
