package events

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

const resource = "event"

type EventDBLayer interface {
	Create(ctx context.Context, row *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, offset, limit int) ([]models.Event, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.Event]) (*models.Event, error)
	Delete(ctx context.Context, id int64) error
}

// Existence answers whether a referenced row is present.
type Existence interface {
	ExistsBy(ctx context.Context, column string, value any) (bool, error)
}

type EventService struct {
	DB        EventDBLayer
	Locations Existence
	Logger    *logger.Logger
}

func NewEventService(db EventDBLayer, locations Existence, log *logger.Logger) *EventService {
	return &EventService{DB: db, Locations: locations, Logger: log}
}

// CreateEvent stores a new event as a draft, whatever the caller asked for.
func (s *EventService) CreateEvent(ctx context.Context, in models.EventCreate) (*models.Event, error) {
	event := in.ToModel()
	if err := s.checkLocation(ctx, event.LocationID); err != nil {
		metrics.RecordOperation(resource, "create", err)
		return nil, err
	}

	err := s.DB.Create(ctx, event)
	metrics.RecordOperation(resource, "create", err)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.Logger.LogResource(resource, "created", event.ID)
	return event, nil
}

func (s *EventService) GetEvent(ctx context.Context, id int64) (*models.Event, error) {
	event, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation(resource, "get", err)
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	return event, nil
}

func (s *EventService) ListEvents(ctx context.Context, skip, limit int) ([]models.Event, error) {
	list, err := s.DB.List(ctx, skip, limit)
	metrics.RecordOperation(resource, "list", err)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return list, nil
}

func (s *EventService) UpdateEvent(ctx context.Context, id int64, in models.EventUpdate) (*models.Event, error) {
	if in.LocationID != nil {
		if err := s.checkLocation(ctx, *in.LocationID); err != nil {
			metrics.RecordOperation(resource, "update", err)
			return nil, err
		}
	}

	event, err := s.DB.Update(ctx, id, in)
	metrics.RecordOperation(resource, "update", err)
	if err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	s.Logger.LogResource(resource, "updated", id)
	return event, nil
}

func (s *EventService) DeleteEvent(ctx context.Context, id int64) error {
	err := s.DB.Delete(ctx, id)
	metrics.RecordOperation(resource, "delete", err)
	if err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	s.Logger.LogResource(resource, "deleted", id)
	return nil
}

func (s *EventService) checkLocation(ctx context.Context, locationID int64) error {
	if s.Locations == nil {
		return nil
	}
	ok, err := s.Locations.ExistsBy(ctx, "id", locationID)
	if err != nil {
		return fmt.Errorf("check location %d: %w", locationID, err)
	}
	if !ok {
		return apperr.InvalidField("location_id", "location does not exist")
	}
	return nil
}
