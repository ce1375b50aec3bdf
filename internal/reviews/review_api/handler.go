package review_api

import (
	"net/http"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/reviews"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	ReviewService *reviews.ReviewService
	Validator     *validation.Validator
	Logger        *logger.Logger
}

func NewHandler(svc *reviews.ReviewService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{ReviewService: svc, Validator: v, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateReview)
	r.Get("/", h.ListReviews)
	r.Get("/{reviewID}", h.GetReview)
	r.Delete("/{reviewID}", h.DeleteReview)
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var in models.ReviewCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	review, err := h.ReviewService.CreateReview(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, review)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "reviewID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	review, err := h.ReviewService.GetReview(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, review)
}

// ListReviews accepts an optional ?event_id= filter.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	eventID, err := validation.QueryID(r, "event_id")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.ReviewService.ListReviews(r.Context(), eventID, page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "reviewID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	if err := h.ReviewService.DeleteReview(r.Context(), id); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.NoContent(w)
}
