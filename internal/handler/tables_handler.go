package handlers

import (
	"log/slog"
	"net/http"
)

// Health reports database reachability and the number of public tables.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status, err := h.TablesService.Check(r.Context())
	if err != nil {
		h.Log.Warn("health check failed", slog.String("error", err.Error()))
		WriteJSON(w, http.StatusServiceUnavailable, Response{
			Success: false,
			Message: "Service unavailable",
			Data:    status,
		})
		return
	}

	WriteSuccess(w, http.StatusOK, "Service is healthy", status)
}
