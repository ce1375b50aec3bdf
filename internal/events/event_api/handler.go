package event_api

import (
	"net/http"

	"ms-eventplatform/internal/events"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	EventService *events.EventService
	Validator    *validation.Validator
	Logger       *logger.Logger
}

func NewHandler(svc *events.EventService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{EventService: svc, Validator: v, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateEvent)
	r.Get("/", h.ListEvents)
	r.Get("/{eventID}", h.GetEvent)
	r.Put("/{eventID}", h.UpdateEvent)
	r.Delete("/{eventID}", h.DeleteEvent)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var in models.EventCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	event, err := h.EventService.CreateEvent(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) GetEvent(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "eventID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	event, err := h.EventService.GetEvent(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) ListEvents(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.EventService.ListEvents(r.Context(), page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "eventID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	var in models.EventUpdate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	event, err := h.EventService.UpdateEvent(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, event)
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "eventID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	if err := h.EventService.DeleteEvent(r.Context(), id); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.NoContent(w)
}
