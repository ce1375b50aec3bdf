package audit_api

import (
	"net/http"

	"ms-eventplatform/internal/audit"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	AuditService *audit.AuditService
	Logger       *logger.Logger
}

func NewHandler(svc *audit.AuditService, log *logger.Logger) *Handler {
	return &Handler{AuditService: svc, Logger: log}
}

// RegisterRoutes mounts the read-only audit trail; callers wrap r with the auth gate.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.ListAuditLogs)
}

func (h *Handler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	rows, err := h.AuditService.List(r.Context(), page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, rows)
}
