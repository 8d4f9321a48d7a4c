package api

import (
	"database/sql"
	"log/slog"
	"net/http"
)

// HealthHandler handles the store connectivity probe.
type HealthHandler struct {
	DB *sql.DB
}

// Check handles GET /healthcheck: a SELECT 1 round-trip through the store.
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	var one int
	err := h.DB.QueryRowContext(r.Context(), `SELECT 1`).Scan(&one)
	if err != nil || one != 1 {
		slog.Error("healthcheck failed", "error", err)
		jsonError(w, http.StatusServiceUnavailable, "database unhealthy")
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{
		"status":   "healthy",
		"database": "connected",
	})
}
