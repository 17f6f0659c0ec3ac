package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/vip-store/internal/core/port"
)

type HealthHandler struct {
	checker port.HealthChecker
}

func NewHealthHandler(checker port.HealthChecker) HealthHandler {
	if checker == nil {
		panic("nil health checker") // develop mistake
	}
	return HealthHandler{checker}
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	const op = "HealthHandler.Health"

	if err := h.checker.Ping(r.Context()); err != nil {
		slog.With("op", op).Error("storage ping failed", "err", err)
		writeJSON(w, http.StatusServiceUnavailable, HealthResponse{
			Status:  "unavailable",
			Message: "Storage is unreachable",
		})
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "ok",
		Message: "VIP Backend is running",
	})
}
