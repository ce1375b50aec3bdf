package reviews

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
)

type ReviewDBLayer interface {
	Create(ctx context.Context, row *models.Review) error
	GetByID(ctx context.Context, id int64) (*models.Review, error)
	List(ctx context.Context, offset, limit int) ([]models.Review, error)
	ListBy(ctx context.Context, column string, value any, offset, limit int) ([]models.Review, error)
	Delete(ctx context.Context, id int64) error
}

type Existence interface {
	ExistsBy(ctx context.Context, column string, value any) (bool, error)
}

type ReviewService struct {
	DB     ReviewDBLayer
	Events Existence
	Logger *logger.Logger
}

func NewReviewService(db ReviewDBLayer, events Existence, log *logger.Logger) *ReviewService {
	return &ReviewService{DB: db, Events: events, Logger: log}
}

func (s *ReviewService) CreateReview(ctx context.Context, in models.ReviewCreate) (*models.Review, error) {
	review := in.ToModel()
	if s.Events != nil {
		ok, err := s.Events.ExistsBy(ctx, "id", review.EventID)
		if err != nil {
			return nil, fmt.Errorf("check event %d: %w", review.EventID, err)
		}
		if !ok {
			return nil, apperr.InvalidField("event_id", "event does not exist")
		}
	}

	err := s.DB.Create(ctx, review)
	metrics.RecordOperation("review", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) GetReview(ctx context.Context, id int64) (*models.Review, error) {
	review, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation("review", "get", err)
	if err != nil {
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	return review, nil
}

func (s *ReviewService) ListReviews(ctx context.Context, eventID *int64, skip, limit int) ([]models.Review, error) {
	var (
		list []models.Review
		err  error
	)
	if eventID != nil {
		list, err = s.DB.ListBy(ctx, "event_id", *eventID, skip, limit)
	} else {
		list, err = s.DB.List(ctx, skip, limit)
	}
	metrics.RecordOperation("review", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return list, nil
}

func (s *ReviewService) DeleteReview(ctx context.Context, id int64) error {
	err := s.DB.Delete(ctx, id)
	metrics.RecordOperation("review", "delete", err)
	if err != nil {
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	return nil
}
