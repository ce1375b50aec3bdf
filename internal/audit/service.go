package audit

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
)

type AuditDBLayer interface {
	Create(ctx context.Context, row *models.AuditLog) error
	List(ctx context.Context, offset, limit int) ([]models.AuditLog, error)
}

type AuditService struct {
	DB     AuditDBLayer
	Logger *logger.Logger
}

func NewAuditService(db AuditDBLayer, log *logger.Logger) *AuditService {
	return &AuditService{DB: db, Logger: log}
}

// Record writes one audit row. A failed write is logged and never fails the caller,
// whose own change is already committed.
func (s *AuditService) Record(ctx context.Context, actorID *int64, action, entity, details string) {
	entry := &models.AuditLog{
		AdminID: actorID,
		Action:  action,
		Entity:  entity,
	}
	if details != "" {
		entry.Details = &details
	}

	err := s.DB.Create(ctx, entry)
	metrics.RecordOperation("audit_log", "create", err)
	if err != nil {
		s.Logger.Error("AUDIT", fmt.Sprintf("Failed to record %s on %s: %v", action, entity, err))
	}
}

func (s *AuditService) List(ctx context.Context, skip, limit int) ([]models.AuditLog, error) {
	rows, err := s.DB.List(ctx, skip, limit)
	metrics.RecordOperation("audit_log", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list audit logs: %w", err)
	}
	return rows, nil
}
