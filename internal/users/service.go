package users

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

const resource = "user"

type UserDBLayer interface {
	Create(ctx context.Context, row *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context, offset, limit int) ([]models.User, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.User]) (*models.User, error)
	Delete(ctx context.Context, id int64) error
	ExistsBy(ctx context.Context, column string, value any) (bool, error)
	Count(ctx context.Context) (int, error)
	CountBy(ctx context.Context, column string, value any) (int, error)
}

// AuditRecorder is satisfied by *audit.AuditService.
type AuditRecorder interface {
	Record(ctx context.Context, actorID *int64, action, entity, details string)
}

type UserService struct {
	DB        UserDBLayer
	Audit     AuditRecorder
	Publisher kafka.Publisher
	HashCost  int
	Logger    *logger.Logger
}

func NewUserService(db UserDBLayer, audit AuditRecorder, publisher kafka.Publisher, log *logger.Logger) *UserService {
	return &UserService{DB: db, Audit: audit, Publisher: publisher, HashCost: auth.DefaultHashCost, Logger: log}
}

// CreateUser rejects a taken email up front. The unique constraint still decides races
// between two concurrent creates.
func (s *UserService) CreateUser(ctx context.Context, in models.UserCreate) (*models.User, error) {
	user := in.ToModel()
	if in.Password != nil {
		hash, err := auth.HashPassword(*in.Password, s.HashCost)
		if err != nil {
			return nil, apperr.Unexpected(err, "failed to hash password")
		}
		user.PasswordHash = &hash
	}

	taken, err := s.DB.ExistsBy(ctx, "email", user.Email)
	if err != nil {
		metrics.RecordOperation(resource, "create", err)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		err := apperr.Conflict(storage.ErrConstraintViolation, "user with this email already exists")
		metrics.RecordOperation(resource, "create", err)
		return nil, err
	}

	err = s.DB.Create(ctx, user)
	metrics.RecordOperation(resource, "create", err)
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.Logger.LogResource(resource, "created", user.ID)
	s.record(ctx, auth.ActorID(ctx), "user.create", resource, fmt.Sprintf("id=%d email=%s", user.ID, user.Email))
	s.publish(ctx, user)
	return user, nil
}

func (s *UserService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	user, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation(resource, "get", err)
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context, skip, limit int) ([]models.User, error) {
	users, err := s.DB.List(ctx, skip, limit)
	metrics.RecordOperation(resource, "list", err)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	user, err := s.DB.Update(ctx, id, in)
	metrics.RecordOperation(resource, "update", err)
	if err != nil {
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}

	s.Logger.LogResource(resource, "updated", id)
	s.record(ctx, auth.ActorID(ctx), "user.update", resource, fmt.Sprintf("id=%d", id))
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	err := s.DB.Delete(ctx, id)
	metrics.RecordOperation(resource, "delete", err)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}

	s.Logger.LogResource(resource, "deleted", id)
	s.record(ctx, auth.ActorID(ctx), "user.delete", resource, fmt.Sprintf("id=%d", id))
	return nil
}

// Statistics counts all users and those that are active or suspended.
func (s *UserService) Statistics(ctx context.Context) (*models.UserStatistics, error) {
	var (
		stats models.UserStatistics
		err   error
	)
	stats.Total, err = s.DB.Count(ctx)
	if err == nil {
		stats.Active, err = s.DB.CountBy(ctx, "status", models.UserStatusActive)
	}
	if err == nil {
		stats.Suspended, err = s.DB.CountBy(ctx, "status", models.UserStatusSuspended)
	}
	metrics.RecordOperation(resource, "statistics", err)
	if err != nil {
		return nil, fmt.Errorf("user statistics: %w", err)
	}
	return &stats, nil
}

func (s *UserService) publish(ctx context.Context, user *models.User) {
	if s.Publisher == nil {
		return
	}
	if err := s.Publisher.Publish(ctx, kafka.EventUserCreated, kafka.KeyOf(user.ID), user); err != nil {
		s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for user %d: %v", kafka.EventUserCreated, user.ID, err))
	}
}

func (s *UserService) record(ctx context.Context, actorID *int64, action, entity, details string) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, actorID, action, entity, details)
}
