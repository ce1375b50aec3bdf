package notification_api

import (
	"net/http"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/notifications"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	NotificationService *notifications.NotificationService
	Validator           *validation.Validator
	Logger              *logger.Logger
}

func NewHandler(svc *notifications.NotificationService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{NotificationService: svc, Validator: v, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateNotification)
	r.Get("/", h.ListNotifications)
	r.Get("/{notificationID}", h.GetNotification)
	r.Put("/{notificationID}/read", h.MarkRead)
}

func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var in models.NotificationCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	n, err := h.NotificationService.CreateNotification(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "notificationID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	n, err := h.NotificationService.GetNotification(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, n)
}

func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	userID, err := validation.QueryID(r, "user_id")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.NotificationService.ListNotifications(r.Context(), userID, page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "notificationID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	n, err := h.NotificationService.MarkRead(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, n)
}
