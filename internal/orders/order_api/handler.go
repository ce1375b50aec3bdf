package order_api

import (
	"net/http"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/orders"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	OrderService *orders.OrderService
	Validator    *validation.Validator
	Logger       *logger.Logger
}

func NewHandler(svc *orders.OrderService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{OrderService: svc, Validator: v, Logger: log}
}

// RegisterRoutes exposes create, get and list only; orders are never edited over HTTP.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateOrder)
	r.Get("/", h.ListOrders)
	r.Get("/{orderID}", h.GetOrder)
}

func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var in models.OrderCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	order, err := h.OrderService.CreateOrder(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "orderID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	order, err := h.OrderService.GetOrder(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, order)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.OrderService.ListOrders(r.Context(), page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}
