package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/satriastudio/studio-be/internal/http/respond"
	"github.com/satriastudio/studio-be/internal/logging"
	"github.com/satriastudio/studio-be/internal/models"
	"github.com/satriastudio/studio-be/internal/routes"
)

// Counter reports record counts used as a storage liveness probe.
type Counter interface {
	Counts(ctx context.Context) (models.Counts, error)
}

// HealthHandler returns uptime and storage status.
type HealthHandler struct {
	startedAt time.Time
	store     Counter
}

// NewHealthHandler creates a health endpoint handler.
func NewHealthHandler(startedAt time.Time, store Counter) *HealthHandler {
	return &HealthHandler{startedAt: startedAt, store: store}
}

type healthResponse struct {
	Status string         `json:"status"`
	Uptime string         `json:"uptime"`
	Counts *models.Counts `json:"counts,omitempty"`
}

// Register wires the handler into the router.
func (h *HealthHandler) Register(r *mux.Router) {
	r.HandleFunc(routes.Health, h.handle).Methods(http.MethodGet)
}

func (h *HealthHandler) handle(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	uptime := time.Since(h.startedAt).Truncate(time.Second).String()
	counts, err := h.store.Counts(ctx)
	if err != nil {
		logging.Logger.WithError(err).Error("health check: storage unreachable")
		respond.JSON(w, http.StatusServiceUnavailable, healthResponse{Status: "error", Uptime: uptime})
		return
	}
	respond.JSON(w, http.StatusOK, healthResponse{Status: "ok", Uptime: uptime, Counts: &counts})
}
