package auth_api

import (
	"net/http"

	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	AccountService *auth.AccountService
	Validator      *validation.Validator
	Logger         *logger.Logger
}

func NewHandler(svc *auth.AccountService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{AccountService: svc, Validator: v, Logger: log}
}

// RegisterRoutes mounts the public credential endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}

// Register answers 201 with a token for the new account.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var in models.RegisterRequest
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	resp, err := h.AccountService.Register(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in models.LoginRequest
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	resp, err := h.AccountService.Login(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, resp)
}
