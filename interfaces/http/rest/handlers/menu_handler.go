package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memview-backend/application/services"
)

// MenuHandler drives the context-menu state machine over HTTP
type MenuHandler struct {
	composer *services.ViewComposer
	menu     *services.ContextMenu
	logger   *zap.Logger
}

// NewMenuHandler creates a menu handler
func NewMenuHandler(composer *services.ViewComposer, menu *services.ContextMenu, logger *zap.Logger) *MenuHandler {
	return &MenuHandler{
		composer: composer,
		menu:     menu,
		logger:   logger,
	}
}

// Open handles POST /api/menu/open (the right-click path)
func (h *MenuHandler) Open(w http.ResponseWriter, r *http.Request) {
	var body struct {
		NodeID string  `json:"node_id"`
		X      float64 `json:"x"`
		Y      float64 `json:"y"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	node, found := h.composer.NodeByID(body.NodeID)
	var err error
	if found {
		err = h.menu.Open(&node, services.MenuPosition{X: body.X, Y: body.Y})
	} else {
		err = h.menu.Open(nil, services.MenuPosition{})
	}
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, h.menu.State())
}

// Dispatch handles POST /api/menu/action
func (h *MenuHandler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Action string `json:"action"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.menu.Dispatch(r.Context(), services.MenuAction(body.Action)); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, h.menu.State())
}

// Resolve handles POST /api/menu/confirm
func (h *MenuHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.menu.Resolve(r.Context(), body.Accept); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, h.logger, http.StatusOK, h.menu.State())
}

// Close handles DELETE /api/menu (outside click or Escape)
func (h *MenuHandler) Close(w http.ResponseWriter, r *http.Request) {
	h.menu.Close()
	respondJSON(w, h.logger, http.StatusOK, h.menu.State())
}
