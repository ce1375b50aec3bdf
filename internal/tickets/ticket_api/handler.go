package ticket_api

import (
	"net/http"
	"strconv"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	tickets "ms-eventplatform/internal/tickets/service"
	"ms-eventplatform/internal/utils"
	"ms-eventplatform/internal/validation"

	"github.com/go-chi/chi/v5"
)

const (
	defaultQRSize = 256
	minQRSize     = 64
	maxQRSize     = 1024
)

type Handler struct {
	TicketService     *tickets.TicketService
	TicketTypeService *tickets.TicketTypeService
	Validator         *validation.Validator
	Logger            *logger.Logger
}

func NewHandler(ticketService *tickets.TicketService, typeService *tickets.TicketTypeService, v *validation.Validator, log *logger.Logger) *Handler {
	return &Handler{
		TicketService:     ticketService,
		TicketTypeService: typeService,
		Validator:         v,
		Logger:            log,
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/types", h.CreateTicketType)
	r.Get("/types/{typeID}", h.GetTicketType)
	r.Put("/types/{typeID}", h.UpdateTicketType)
	r.Delete("/types/{typeID}", h.DeleteTicketType)
	r.Get("/event/{eventID}/types", h.ListTicketTypesByEvent)

	r.Post("/scan", h.CheckinTicket)
	r.Post("/", h.CreateTicket)
	r.Get("/", h.ListTickets)
	r.Get("/{ticketID}", h.ViewTicket)
	r.Put("/{ticketID}", h.UpdateTicket)
	r.Delete("/{ticketID}", h.DeleteTicket)
	r.Get("/{ticketID}/qr", h.TicketQR)
}

func (h *Handler) CreateTicketType(w http.ResponseWriter, r *http.Request) {
	var in models.TicketTypeCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	tt, err := h.TicketTypeService.CreateTicketType(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tt)
}

func (h *Handler) GetTicketType(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "typeID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	tt, err := h.TicketTypeService.GetTicketType(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tt)
}

func (h *Handler) ListTicketTypesByEvent(w http.ResponseWriter, r *http.Request) {
	eventID, err := validation.PathID(r, "eventID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	page, err := validation.PageFrom(r)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	list, err := h.TicketTypeService.ListTicketTypesByEvent(r.Context(), eventID, page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateTicketType(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "typeID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	var in models.TicketTypeUpdate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	tt, err := h.TicketTypeService.UpdateTicketType(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tt)
}

func (h *Handler) DeleteTicketType(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "typeID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	if err := h.TicketTypeService.DeleteTicketType(r.Context(), id); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.NoContent(w)
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var in models.TicketCreate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	ticket, err := h.TicketService.PlaceTicket(r.Context(), in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) ViewTicket(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "ticketID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	ticket, err := h.TicketService.GetTicket(r.Context(), id)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}

// ListTickets accepts an optional ?order_id= filter.
func (h *Handler) ListTickets(w http.ResponseWriter, r *http.Request) {
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

	list, err := h.TicketService.ListTickets(r.Context(), orderID, page.Skip, page.Limit)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, list)
}

func (h *Handler) UpdateTicket(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "ticketID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	var in models.TicketUpdate
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	ticket, err := h.TicketService.UpdateTicket(r.Context(), id, in)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}

func (h *Handler) DeleteTicket(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "ticketID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	if err := h.TicketService.CancelTicket(r.Context(), id); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.NoContent(w)
}

// TicketQR serves the ticket's signed QR code as a PNG; ?size= sets the edge in pixels.
func (h *Handler) TicketQR(w http.ResponseWriter, r *http.Request) {
	id, err := validation.PathID(r, "ticketID")
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minQRSize || n > maxQRSize {
			utils.WriteError(w, r, h.Logger, apperr.InvalidField("size", "must be an integer between 64 and 1024"))
			return
		}
		size = n
	}

	png, err := h.TicketService.TicketQR(r.Context(), id, size)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Warn("API", "Failed to write QR image: "+err.Error())
	}
}

// CheckinTicket handles a scan at the door.
// Expected POST request body: {"payload": "<text read from the QR code>"}
func (h *Handler) CheckinTicket(w http.ResponseWriter, r *http.Request) {
	var in models.TicketScan
	if err := h.Validator.Bind(r, &in); err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}

	ticket, err := h.TicketService.Checkin(r.Context(), *in.Payload)
	if err != nil {
		utils.WriteError(w, r, h.Logger, err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, ticket)
}
