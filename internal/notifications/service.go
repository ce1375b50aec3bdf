package notifications

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

type NotificationDBLayer interface {
	Create(ctx context.Context, row *models.Notification) error
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	List(ctx context.Context, offset, limit int) ([]models.Notification, error)
	ListBy(ctx context.Context, column string, value any, offset, limit int) ([]models.Notification, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.Notification]) (*models.Notification, error)
}

// NotificationService stores notifications for later pickup. Nothing here sends them.
type NotificationService struct {
	DB     NotificationDBLayer
	Logger *logger.Logger
}

func NewNotificationService(db NotificationDBLayer, log *logger.Logger) *NotificationService {
	return &NotificationService{DB: db, Logger: log}
}

func (s *NotificationService) CreateNotification(ctx context.Context, in models.NotificationCreate) (*models.Notification, error) {
	n := in.ToModel()
	err := s.DB.Create(ctx, n)
	metrics.RecordOperation("notification", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

func (s *NotificationService) GetNotification(ctx context.Context, id int64) (*models.Notification, error) {
	n, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation("notification", "get", err)
	if err != nil {
		return nil, fmt.Errorf("get notification %d: %w", id, err)
	}
	return n, nil
}

func (s *NotificationService) ListNotifications(ctx context.Context, userID *int64, skip, limit int) ([]models.Notification, error) {
	var (
		list []models.Notification
		err  error
	)
	if userID != nil {
		list, err = s.DB.ListBy(ctx, "user_id", *userID, skip, limit)
	} else {
		list, err = s.DB.List(ctx, skip, limit)
	}
	metrics.RecordOperation("notification", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}

// MarkRead is idempotent: reading an already-read notification succeeds.
func (s *NotificationService) MarkRead(ctx context.Context, id int64) (*models.Notification, error) {
	n, err := s.DB.Update(ctx, id, models.NotificationRead{})
	metrics.RecordOperation("notification", "mark_read", err)
	if err != nil {
		return nil, fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return n, nil
}
