package location_api

import (
	"net/http"

	"ms-eventplatform/internal/locations"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	LocationService *locations.LocationService
	Validator       *validation.Validator
	Logger          *logger.Logger
}

func NewHandler(svc *locations.LocationService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{LocationService: svc, Validator: v, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateLocation)
	r.Get("/", h.ListLocations)
	r.Get("/{locationID}", h.GetLocation)
	r.Put("/{locationID}", h.UpdateLocation)
	r.Delete("/{locationID}", h.DeleteLocation)
}

func (h *Handler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var in models.LocationCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	loc, err := h.LocationService.CreateLocation(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "locationID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	loc, err := h.LocationService.GetLocation(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) ListLocations(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.LocationService.ListLocations(r.Context(), page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "locationID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	var in models.LocationUpdate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	loc, err := h.LocationService.UpdateLocation(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, loc)
}

func (h *Handler) DeleteLocation(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "locationID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	if err := h.LocationService.DeleteLocation(r.Context(), id); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.NoContent(w)
}
