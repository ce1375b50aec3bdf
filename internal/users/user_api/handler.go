package user_api

import (
	"net/http"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/users"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	UserService *users.UserService
	Validator   *validation.Validator
	// AdminOnly guards list, delete and statistics. Nil leaves them open.
	AdminOnly func(http.Handler) http.Handler
	Logger    *logger.Logger
}

func NewHandler(svc *users.UserService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{UserService: svc, Validator: v, Logger: log}
}

// RegisterRoutes mounts the user endpoints. Every one of them sits behind the auth gate,
// which the router applies to r before calling this.
func (h *Handler) RegisterRoutes(r chi.Router) {
	admin := r
	if h.AdminOnly != nil {
		admin = r.With(h.AdminOnly)
	}

	r.Post("/", h.CreateUser)
	admin.Get("/", h.ListUsers)
	admin.Get("/statistics", h.Statistics)
	r.Get("/{userID}", h.GetUser)
	r.Put("/{userID}", h.UpdateUser)
	admin.Delete("/{userID}", h.DeleteUser)
}

func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	user, err := h.UserService.CreateUser(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "userID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	user, err := h.UserService.GetUser(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.UserService.ListUsers(r.Context(), page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "userID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	var in models.UserUpdate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	user, err := h.UserService.UpdateUser(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, user)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "userID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	if err := h.UserService.DeleteUser(r.Context(), id); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.NoContent(w)
}

func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.UserService.Statistics(r.Context())
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, stats)
}
