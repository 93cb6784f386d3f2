package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memview-backend/application/events"
	"memview-backend/application/services"
	pkgerrors "memview-backend/pkg/errors"
	"memview-backend/pkg/observability"
)

// GraphHandler handles snapshot refreshes, generation and push events
type GraphHandler struct {
	composer *services.ViewComposer
	registry *events.HandlerRegistry
	metrics  *observability.Collector
	logger   *zap.Logger
}

// NewGraphHandler creates a graph handler
func NewGraphHandler(
	composer *services.ViewComposer,
	registry *events.HandlerRegistry,
	metrics *observability.Collector,
	logger *zap.Logger,
) *GraphHandler {
	return &GraphHandler{
		composer: composer,
		registry: registry,
		metrics:  metrics,
		logger:   logger,
	}
}

// Refresh handles POST /api/refresh (a forced refetch)
func (h *GraphHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.composer.Refresh(r.Context(), true); err != nil {
		h.metrics.RefreshesTotal.WithLabelValues("error").Inc()
		respondError(w, h.logger, err)
		return
	}
	h.metrics.RefreshesTotal.WithLabelValues("ok").Inc()
	respondJSON(w, h.logger, http.StatusOK, h.composer.Compose())
}

// Generate handles POST /api/generate
func (h *GraphHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if body.Text == "" {
		respondError(w, h.logger, pkgerrors.NewValidation("text is required"))
		return
	}

	report, err := h.composer.Generate(r.Context(), body.Text)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, report)
}

// PushEvent handles POST /api/events, the ingress for the memory store's
// real-time notification channel
func (h *GraphHandler) PushEvent(w http.ResponseWriter, r *http.Request) {
	var event events.Event
	if err := decodeJSON(r, &event); err != nil {
		respondError(w, h.logger, err)
		return
	}
	if event.Type == "" {
		respondError(w, h.logger, pkgerrors.NewValidation("event type is required"))
		return
	}

	h.registry.Dispatch(r.Context(), event)
	respondJSON(w, h.logger, http.StatusAccepted, map[string]string{"status": "dispatched"})
}
