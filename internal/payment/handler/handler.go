package handler

import (
	"net/http"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/payment"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	PaymentService *payment.PaymentService
	Validator      *validation.Validator
	Logger         *logger.Logger
}

func NewPaymentHandler(svc *payment.PaymentService, v *validation.Validator, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{PaymentService: svc, Validator: v, Logger: log}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreatePayment)
	r.Get("/", h.ListPayments)
	r.Get("/{paymentID}", h.GetPayment)
	r.Put("/{paymentID}", h.UpdatePayment)
}

func (h *PaymentHandler) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var in models.PaymentCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	p, err := h.PaymentService.CreatePayment(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "paymentID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	p, err := h.PaymentService.GetPayment(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *PaymentHandler) ListPayments(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	orderID, err := validation.QueryID(r, "order_id")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.PaymentService.ListPayments(r.Context(), orderID, page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *PaymentHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "paymentID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	var in models.PaymentUpdate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	p, err := h.PaymentService.UpdatePayment(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, p)
}
