package locations

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

const resource = "location"

type LocationDBLayer interface {
	Create(ctx context.Context, row *models.Location) error
	GetByID(ctx context.Context, id int64) (*models.Location, error)
	List(ctx context.Context, offset, limit int) ([]models.Location, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.Location]) (*models.Location, error)
	Delete(ctx context.Context, id int64) error
}

type LocationService struct {
	DB     LocationDBLayer
	Logger *logger.Logger
}

func NewLocationService(db LocationDBLayer, log *logger.Logger) *LocationService {
	return &LocationService{DB: db, Logger: log}
}

func (s *LocationService) CreateLocation(ctx context.Context, in models.LocationCreate) (*models.Location, error) {
	loc := in.ToModel()
	err := s.DB.Create(ctx, loc)
	metrics.RecordOperation(resource, "create", err)
	if err != nil {
		return nil, fmt.Errorf("create location: %w", err)
	}
	s.Logger.LogResource(resource, "created", loc.ID)
	return loc, nil
}

func (s *LocationService) GetLocation(ctx context.Context, id int64) (*models.Location, error) {
	loc, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation(resource, "get", err)
	if err != nil {
		return nil, fmt.Errorf("get location %d: %w", id, err)
	}
	return loc, nil
}

func (s *LocationService) ListLocations(ctx context.Context, skip, limit int) ([]models.Location, error) {
	list, err := s.DB.List(ctx, skip, limit)
	metrics.RecordOperation(resource, "list", err)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return list, nil
}

func (s *LocationService) UpdateLocation(ctx context.Context, id int64, in models.LocationUpdate) (*models.Location, error) {
	loc, err := s.DB.Update(ctx, id, in)
	metrics.RecordOperation(resource, "update", err)
	if err != nil {
		return nil, fmt.Errorf("update location %d: %w", id, err)
	}
	s.Logger.LogResource(resource, "updated", id)
	return loc, nil
}

func (s *LocationService) DeleteLocation(ctx context.Context, id int64) error {
	err := s.DB.Delete(ctx, id)
	metrics.RecordOperation(resource, "delete", err)
	if err != nil {
		return fmt.Errorf("delete location %d: %w", id, err)
	}
	s.Logger.LogResource(resource, "deleted", id)
	return nil
}
