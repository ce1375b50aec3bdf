package category_api

import (
	"net/http"

	"ms-eventplatform/internal/categories"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	CategoryService *categories.CategoryService
	Validator       *validation.Validator
	Logger          *logger.Logger
}

func NewHandler(svc *categories.CategoryService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{CategoryService: svc, Validator: v, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/", h.CreateCategory)
	r.Get("/", h.ListCategories)
	r.Get("/{categoryID}", h.GetCategory)
	r.Put("/{categoryID}", h.UpdateCategory)
	r.Delete("/{categoryID}", h.DeleteCategory)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	cat, err := h.CategoryService.CreateCategory(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cat)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "categoryID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	cat, err := h.CategoryService.GetCategory(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cat)
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.CategoryService.ListCategories(r.Context(), page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "categoryID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	var in models.CategoryUpdate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	cat, err := h.CategoryService.UpdateCategory(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, cat)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "categoryID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	if err := h.CategoryService.DeleteCategory(r.Context(), id); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.NoContent(w)
}
