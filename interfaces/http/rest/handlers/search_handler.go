package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memview-backend/application/services"
)

// SearchHandler handles highlight-search HTTP requests
type SearchHandler struct {
	composer *services.ViewComposer
	engine   *services.HighlightEngine
	logger   *zap.Logger
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(composer *services.ViewComposer, engine *services.HighlightEngine, logger *zap.Logger) *SearchHandler {
	return &SearchHandler{
		composer: composer,
		engine:   engine,
		logger:   logger,
	}
}

// Submit handles POST /api/search
func (h *SearchHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Query string `json:"query"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	outcome, err := h.engine.Submit(r.Context(), body.Query, h.composer.Nodes())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, outcome)
}

// Clear handles DELETE /api/search
func (h *SearchHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.engine.Clear()
	respondJSON(w, h.logger, http.StatusOK, map[string]string{"status": "cleared"})
}
