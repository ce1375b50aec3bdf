package payment

import (
	"context"
	"fmt"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
)

type PaymentDBLayer interface {
	Create(ctx context.Context, row *models.Payment) error
	GetByID(ctx context.Context, id int64) (*models.Payment, error)
	List(ctx context.Context, offset, limit int) ([]models.Payment, error)
	ListBy(ctx context.Context, column string, value any, offset, limit int) ([]models.Payment, error)
	Update(ctx context.Context, id int64, patch storage.Patch[models.Payment]) (*models.Payment, error)
}

// Existence answers whether a referenced row is present.
type Existence interface {
	ExistsBy(ctx context.Context, column string, value any) (bool, error)
}

// PaymentService records payments reported by the caller. It talks to no gateway and
// does not move orders between states.
type PaymentService struct {
	DB     PaymentDBLayer
	Orders Existence
	Logger *logger.Logger
}

func NewPaymentService(db PaymentDBLayer, orders Existence, log *logger.Logger) *PaymentService {
	return &PaymentService{DB: db, Orders: orders, Logger: log}
}

func (s *PaymentService) CreatePayment(ctx context.Context, in models.PaymentCreate) (*models.Payment, error) {
	p := in.ToModel()
	if s.Orders != nil {
		ok, err := s.Orders.ExistsBy(ctx, "id", p.OrderID)
		if err != nil {
			return nil, fmt.Errorf("check order %d: %w", p.OrderID, err)
		}
		if !ok {
			err := apperr.InvalidField("order_id", "order does not exist")
			metrics.RecordOperation("payment", "create", err)
			return nil, err
		}
	}

	err := s.DB.Create(ctx, p)
	metrics.RecordOperation("payment", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}
	s.Logger.LogResource("payment", "recorded", p.ID)
	return p, nil
}

func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	p, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation("payment", "get", err)
	if err != nil {
		return nil, fmt.Errorf("get payment %d: %w", id, err)
	}
	return p, nil
}

func (s *PaymentService) ListPayments(ctx context.Context, orderID *int64, skip, limit int) ([]models.Payment, error) {
	var (
		list []models.Payment
		err  error
	)
	if orderID != nil {
		list, err = s.DB.ListBy(ctx, "order_id", *orderID, skip, limit)
	} else {
		list, err = s.DB.List(ctx, skip, limit)
	}
	metrics.RecordOperation("payment", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	return list, nil
}

func (s *PaymentService) UpdatePayment(ctx context.Context, id int64, in models.PaymentUpdate) (*models.Payment, error) {
	p, err := s.DB.Update(ctx, id, in)
	metrics.RecordOperation("payment", "update", err)
	if err != nil {
		return nil, fmt.Errorf("update payment %d: %w", id, err)
	}
	s.Logger.LogResource("payment", "updated", id)
	return p, nil
}
