package tickets

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

type TicketTypeDBLayer interface {
	Create(ctx context.Context, row *models.TicketType) error
	GetByID(ctx context.Context, id int64) (*models.TicketType, error)
	ListBy(ctx context.Context, column string, value any, offset, limit int) ([]models.TicketType, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.TicketType]) (*models.TicketType, error)
	Delete(ctx context.Context, id int64) error
}

// TicketTypeService manages the priced ticket tiers of an event.
type TicketTypeService struct {
	DB     TicketTypeDBLayer
	Events Existence
	Logger *logger.Logger
}

func NewTicketTypeService(db TicketTypeDBLayer, events Existence, log *logger.Logger) *TicketTypeService {
	return &TicketTypeService{DB: db, Events: events, Logger: log}
}

func (s *TicketTypeService) CreateTicketType(ctx context.Context, in models.TicketTypeCreate) (*models.TicketType, error) {
	tt := in.ToModel()
	if s.Events != nil {
		ok, err := s.Events.ExistsBy(ctx, "id", tt.EventID)
		if err != nil {
			return nil, fmt.Errorf("check event %d: %w", tt.EventID, err)
		}
		if !ok {
			err := apperr.InvalidField("event_id", "event does not exist")
			metrics.RecordOperation("ticket_type", "create", err)
			return nil, err
		}
	}

	err := s.DB.Create(ctx, tt)
	metrics.RecordOperation("ticket_type", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create ticket type: %w", err)
	}
	s.Logger.LogResource("ticket_type", "created", tt.ID)
	return tt, nil
}

func (s *TicketTypeService) GetTicketType(ctx context.Context, id int64) (*models.TicketType, error) {
	tt, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation("ticket_type", "get", err)
	if err != nil {
		return nil, fmt.Errorf("get ticket type %d: %w", id, err)
	}
	return tt, nil
}

// ListTicketTypesByEvent is empty, not NotFound, for an event with no tiers.
func (s *TicketTypeService) ListTicketTypesByEvent(ctx context.Context, eventID int64, skip, limit int) ([]models.TicketType, error) {
	list, err := s.DB.ListBy(ctx, "event_id", eventID, skip, limit)
	metrics.RecordOperation("ticket_type", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list ticket types of event %d: %w", eventID, err)
	}
	return list, nil
}

func (s *TicketTypeService) UpdateTicketType(ctx context.Context, id int64, in models.TicketTypeUpdate) (*models.TicketType, error) {
	tt, err := s.DB.Update(ctx, id, in)
	metrics.RecordOperation("ticket_type", "update", err)
	if err != nil {
		return nil, fmt.Errorf("update ticket type %d: %w", id, err)
	}
	return tt, nil
}

func (s *TicketTypeService) DeleteTicketType(ctx context.Context, id int64) error {
	err := s.DB.Delete(ctx, id)
	metrics.RecordOperation("ticket_type", "delete", err)
	if err != nil {
		return fmt.Errorf("delete ticket type %d: %w", id, err)
	}
	return nil
}
