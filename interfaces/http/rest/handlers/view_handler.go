package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"memview-backend/application/services"
	domainservices "memview-backend/domain/services"
	"memview-backend/infrastructure/notify"
	"memview-backend/infrastructure/renderer"
)

// ViewHandler serves the composed graph view and its settings
type ViewHandler struct {
	composer *services.ViewComposer
	engine   *services.HighlightEngine
	menu     *services.ContextMenu
	headless *renderer.Headless
	notifier *notify.BufferedNotifier
	logger   *zap.Logger
}

// NewViewHandler creates a view handler
func NewViewHandler(
	composer *services.ViewComposer,
	engine *services.HighlightEngine,
	menu *services.ContextMenu,
	headless *renderer.Headless,
	notifier *notify.BufferedNotifier,
	logger *zap.Logger,
) *ViewHandler {
	return &ViewHandler{
		composer: composer,
		engine:   engine,
		menu:     menu,
		headless: headless,
		notifier: notifier,
		logger:   logger,
	}
}

// viewResponse is the full payload the browser shell polls
type viewResponse struct {
	View        services.ViewModel   `json:"view"`
	Frame       renderer.Frame       `json:"frame"`
	SearchState services.SearchState `json:"search_state"`
	Menu        services.MenuState   `json:"menu"`
	Notices     []notify.Notice      `json:"notices,omitempty"`
}

// GetView handles GET /api/view
func (h *ViewHandler) GetView(w http.ResponseWriter, r *http.Request) {
	resp := viewResponse{
		View:        h.composer.Compose(),
		Frame:       h.headless.Snapshot(),
		SearchState: h.engine.State(),
		Menu:        h.menu.State(),
		Notices:     h.notifier.Drain(),
	}
	respondJSON(w, h.logger, http.StatusOK, resp)
}

// ApplyFilters handles PUT /api/view/filters
func (h *ViewHandler) ApplyFilters(w http.ResponseWriter, r *http.Request) {
	var filter services.FilterState
	if err := decodeJSON(r, &filter); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.composer.ApplyFilter(filter)
	respondJSON(w, h.logger, http.StatusOK, h.composer.Compose())
}

// SetSizing handles PUT /api/view/sizing
func (h *ViewHandler) SetSizing(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Mode string `json:"mode"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, h.logger, err)
		return
	}

	mode, err := domainservices.ParseSizingMode(body.Mode)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.composer.SetSizingMode(mode)
	respondJSON(w, h.logger, http.StatusOK, h.composer.Compose())
}
