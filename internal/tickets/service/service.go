package tickets

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
	qr "ms-eventplatform/internal/tickets/qr_generator"

	"github.com/google/uuid"
)

type TicketDBLayer interface {
	Create(ctx context.Context, row *models.Ticket) error
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
	List(ctx context.Context, offset, limit int) ([]models.Ticket, error)
	ListBy(ctx context.Context, column string, value any, offset, limit int) ([]models.Ticket, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.Ticket]) (*models.Ticket, error)
	Delete(ctx context.Context, id int64) error
}

// Existence answers whether a referenced row is present.
type Existence interface {
	ExistsBy(ctx context.Context, column string, value any) (bool, error)
}

// Locker serializes check-ins of one ticket across service instances. Optional.
type Locker interface {
	Lock(ctx context.Context, name, owner string) (bool, error)
	Unlock(ctx context.Context, name, owner string) error
}

type TicketService struct {
	DB          TicketDBLayer
	TicketTypes Existence
	QR          *qr.QRGenerator
	Locker      Locker
	Publisher   kafka.Publisher
	Logger      *logger.Logger
}

func NewTicketService(db TicketDBLayer, ticketTypes Existence, qrGen *qr.QRGenerator, publisher kafka.Publisher, log *logger.Logger) *TicketService {
	return &TicketService{
		DB:          db,
		TicketTypes: ticketTypes,
		QR:          qrGen,
		Publisher:   publisher,
		Logger:      log,
	}
}

// PlaceTicket issues a ticket. Without a caller-supplied code one is generated; a code
// already in use is a Conflict.
func (s *TicketService) PlaceTicket(ctx context.Context, in models.TicketCreate) (*models.Ticket, error) {
	ticket := in.ToModel()
	if err := s.checkTicketType(ctx, ticket.TicketTypeID); err != nil {
		metrics.RecordOperation("ticket", "create", err)
		return nil, err
	}
	if ticket.QRCode == "" {
		ticket.QRCode = s.QR.NewCode()
	}

	err := s.DB.Create(ctx, ticket)
	metrics.RecordOperation("ticket", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create ticket: %w", err)
	}

	s.Logger.LogResource("ticket", "issued", ticket.ID)
	s.publish(ctx, kafka.EventTicketIssued, ticket)
	return ticket, nil
}

func (s *TicketService) GetTicket(ctx context.Context, id int64) (*models.Ticket, error) {
	ticket, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation("ticket", "get", err)
	if err != nil {
		return nil, fmt.Errorf("get ticket %d: %w", id, err)
	}
	return ticket, nil
}

// ListTickets returns every ticket, or only those of orderID when it is set.
func (s *TicketService) ListTickets(ctx context.Context, orderID *int64, skip, limit int) ([]models.Ticket, error) {
	var (
		list []models.Ticket
		err  error
	)
	if orderID != nil {
		list, err = s.DB.ListBy(ctx, "order_id", *orderID, skip, limit)
	} else {
		list, err = s.DB.List(ctx, skip, limit)
	}
	metrics.RecordOperation("ticket", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	return list, nil
}

func (s *TicketService) UpdateTicket(ctx context.Context, id int64, in models.TicketUpdate) (*models.Ticket, error) {
	ticket, err := s.DB.Update(ctx, id, in)
	metrics.RecordOperation("ticket", "update", err)
	if err != nil {
		return nil, fmt.Errorf("update ticket %d: %w", id, err)
	}
	return ticket, nil
}

func (s *TicketService) CancelTicket(ctx context.Context, id int64) error {
	err := s.DB.Delete(ctx, id)
	metrics.RecordOperation("ticket", "delete", err)
	if err != nil {
		return fmt.Errorf("delete ticket %d: %w", id, err)
	}
	s.Logger.LogResource("ticket", "deleted", id)
	return nil
}

// TicketQR renders the signed QR image for a stored ticket.
func (s *TicketService) TicketQR(ctx context.Context, id int64, size int) ([]byte, error) {
	ticket, err := s.GetTicket(ctx, id)
	if err != nil {
		return nil, err
	}
	png, err := s.QR.PNG(ticket.QRCode, size)
	if err != nil {
		return nil, apperr.Unexpected(err, "failed to render QR code")
	}
	return png, nil
}

// Checkin verifies a scanned payload and moves the ticket from valid to used. A ticket
// that is already used or void is a Conflict and stays unchanged.
func (s *TicketService) Checkin(ctx context.Context, payload string) (*models.Ticket, error) {
	code, err := s.QR.Verify(payload)
	if err != nil {
		return nil, apperr.InvalidField("payload", "invalid or forged QR payload")
	}

	if s.Locker != nil {
		owner := uuid.NewString()
		ok, err := s.Locker.Lock(ctx, code, owner)
		if err != nil {
			// Redis is an optimization; the row lock below still holds.
			s.Logger.Warn("REDIS", fmt.Sprintf("Scan lock unavailable for %s: %v", code, err))
		} else if !ok {
			return nil, apperr.Conflict(nil, "ticket is already being checked in")
		} else {
			defer func() {
				if err := s.Locker.Unlock(context.WithoutCancel(ctx), code, owner); err != nil {
					s.Logger.Warn("REDIS", fmt.Sprintf("Failed to release scan lock for %s: %v", code, err))
				}
			}()
		}
	}

	found, err := s.DB.ListBy(ctx, "qr_code", code, 0, 1)
	if err != nil {
		return nil, fmt.Errorf("find ticket by code: %w", err)
	}
	if len(found) == 0 {
		return nil, apperr.NotFound("ticket not found")
	}

	var before models.TicketStatus
	ticket, err := s.DB.Update(ctx, found[0].ID, storage.PatchFunc[models.Ticket](func(row *models.Ticket) []string {
		before = row.Status
		if row.Status != models.TicketStatusValid {
			return nil
		}
		row.Status = models.TicketStatusUsed
		return []string{"status"}
	}))
	if err == nil && before != models.TicketStatusValid {
		err = apperr.Conflict(nil, "ticket is %s and cannot be checked in", before)
	}
	metrics.RecordOperation("ticket", "checkin", err)
	if err != nil {
		return nil, fmt.Errorf("check in ticket: %w", err)
	}

	s.Logger.LogResource("ticket", "checked_in", ticket.ID)
	s.publish(ctx, kafka.EventTicketCheckedIn, ticket)
	return ticket, nil
}

func (s *TicketService) checkTicketType(ctx context.Context, id int64) error {
	if s.TicketTypes == nil {
		return nil
	}
	ok, err := s.TicketTypes.ExistsBy(ctx, "id", id)
	if err != nil {
		return fmt.Errorf("check ticket type %d: %w", id, err)
	}
	if !ok {
		return apperr.InvalidField("ticket_type_id", "ticket type does not exist")
	}
	return nil
}

func (s *TicketService) publish(ctx context.Context, eventType string, ticket *models.Ticket) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, eventType, kafka.KeyOf(ticket.ID), ticket); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for ticket %d: %v", eventType, ticket.ID, err))
	}
}
