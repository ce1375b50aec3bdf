package analytics_api

import (
	"net/http"

	"ms-eventplatform/internal/analytics"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

// Handler handles analytics HTTP endpoints
type Handler struct {
	Service *analytics.Service
	Logger  *logger.Logger
}

func NewHandler(service *analytics.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events/{eventID}", h.GetEventStats)
}

func (h *Handler) GetEventStats(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "eventID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	stats, err := h.Service.GetEventStats(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
