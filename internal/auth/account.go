package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/config"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

const accountResource = "account"

type AccountDBLayer interface {
	Create(ctx context.Context, row *models.User) error
	ListBy(ctx context.Context, column string, value any, offset, limit int) ([]models.User, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.User]) (*models.User, error)
	ExistsBy(ctx context.Context, column string, value any) (bool, error)
}

// AuditRecorder is satisfied by *audit.AuditService.
type AuditRecorder interface {
	Record(ctx context.Context, actorID *int64, action, entity, details string)
}

// AccountService registers users with a password and exchanges credentials for tokens
// the Gate accepts.
type AccountService struct {
	DB        AccountDBLayer
	Audit     AuditRecorder
	Publisher kafka.Publisher
	Config    config.AuthConfig
	HashCost  int
	Logger    *logger.Logger
}

func NewAccountService(db AccountDBLayer, audit AuditRecorder, publisher kafka.Publisher, cfg config.AuthConfig, log *logger.Logger) *AccountService {
	return &AccountService{
		DB:        db,
		Audit:     audit,
		Publisher: publisher,
		Config:    cfg,
		HashCost:  DefaultHashCost,
		Logger:    log,
	}
}

// Register creates an active account. A taken email, compared case-insensitively, is a
// Conflict.
func (s *AccountService) Register(ctx context.Context, in models.RegisterRequest) (*models.AuthResponse, error) {
	hash, err := HashPassword(*in.Password, s.HashCost)
	if err != nil {
		return nil, apperr.Unexpected(err, "failed to hash password")
	}
	user := in.ToModel(hash)

	taken, err := s.DB.ExistsBy(ctx, "email", user.Email)
	if err != nil {
		metrics.RecordOperation(accountResource, "register", err)
		return nil, fmt.Errorf("check email: %w", err)
	}
	if taken {
		err := apperr.Conflict(storage.ErrConstraintViolation, "user with this email already exists")
		metrics.RecordOperation(accountResource, "register", err)
		return nil, err
	}

	err = s.DB.Create(ctx, user)
	metrics.RecordOperation(accountResource, "register", err)
	if err != nil {
		return nil, fmt.Errorf("register user: %w", err)
	}

	s.Logger.LogResource("user", "registered", user.ID)
	s.record(ctx, user.ID, "user.register", fmt.Sprintf("id=%d email=%s", user.ID, user.Email))
	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, kafka.EventUserCreated, kafka.KeyOf(user.ID), user); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for user %d: %v", kafka.EventUserCreated, user.ID, err))
		}
	}
	return s.issue(user)
}

// Login checks the password before the account status, so only the owner learns that an
// account is suspended.
func (s *AccountService) Login(ctx context.Context, in models.LoginRequest) (*models.AuthResponse, error) {
	email := models.NormalizeEmail(*in.Email)
	found, err := s.DB.ListBy(ctx, "email", email, 0, 1)
	if err != nil {
		metrics.RecordOperation(accountResource, "login", err)
		return nil, fmt.Errorf("find user by email: %w", err)
	}

	if len(found) == 0 || found[0].PasswordHash == nil || !CheckPassword(*in.Password, *found[0].PasswordHash) {
		err := apperr.Unauthenticated("invalid email or password")
		metrics.RecordOperation(accountResource, "login", err)
		s.Logger.LogSecurity("LOGIN_FAILED", "email="+email)
		return nil, err
	}
	user := &found[0]
	if user.Status != models.UserStatusActive {
		err := apperr.Unauthenticated("user account is %s", user.Status)
		metrics.RecordOperation(accountResource, "login", err)
		s.Logger.LogSecurity("LOGIN_REFUSED", fmt.Sprintf("user %d is %s", user.ID, user.Status))
		return nil, err
	}

	now := time.Now().UTC()
	user, err = s.DB.Update(ctx, user.ID, storage.PatchFunc[models.User](func(row *models.User) []string {
		row.LastLogin = &now
		return []string{"last_login"}
	}))
	metrics.RecordOperation(accountResource, "login", err)
	if err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	s.record(ctx, user.ID, "user.login", fmt.Sprintf("id=%d", user.ID))
	return s.issue(user)
}

func (s *AccountService) issue(user *models.User) (*models.AuthResponse, error) {
	token, err := IssueToken(s.Config, strconv.FormatInt(user.ID, 10), map[string]interface{}{
		"email":     user.Email,
		"user_type": string(user.UserType),
	}, s.Config.TokenTTL)
	if err != nil {
		return nil, apperr.Unexpected(err, "failed to issue token")
	}
	return &models.AuthResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(s.Config.TokenTTL / time.Second),
		UserID:    user.ID,
		Email:     user.Email,
		Name:      user.Name,
		UserType:  user.UserType,
	}, nil
}

func (s *AccountService) record(ctx context.Context, actorID int64, action, details string) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, &actorID, action, "user", details)
}
