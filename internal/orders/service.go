package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/metrics"
	"ms-eventplatform/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	OrderNumberPrefix = "ORD-"
	// maxNumberAttempts bounds retries after an order-number collision.
	maxNumberAttempts = 3
)

type OrderDBLayer interface {
	Create(ctx context.Context, row *models.Order) error
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, offset, limit int) ([]models.Order, error)
}

type OrderService struct {
	DB        OrderDBLayer
	Publisher kafka.Publisher
	Logger    *logger.Logger
	// NewNumber is swapped in tests to force collisions.
	NewNumber func() string
}

func NewOrderService(db OrderDBLayer, publisher kafka.Publisher, log *logger.Logger) *OrderService {
	return &OrderService{
		DB:        db,
		Publisher: publisher,
		Logger:    log,
		NewNumber: NewOrderNumber,
	}
}

// NewOrderNumber is "ORD-" followed by 8 upper-case hex characters of a random UUID.
func NewOrderNumber() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return OrderNumberPrefix + strings.ToUpper(hex[:8])
}

// CreateOrder opens a pending order with a zero total. Line pricing is not computed here,
// so nothing the caller sends can set the amount. The buyer defaults to the caller when
// the request carried a valid token.
func (s *OrderService) CreateOrder(ctx context.Context, in models.OrderCreate) (*models.Order, error) {
	buyerID := in.BuyerID
	if buyerID == nil {
		buyerID = auth.ActorID(ctx)
	}

	var (
		order *models.Order
		err   error
	)
	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		order = &models.Order{
			OrderNumber:  s.NewNumber(),
			PurchaseDate: time.Now().UTC(),
			Status:       models.OrderStatusPending,
			TotalAmount:  decimal.Zero,
			BuyerID:      buyerID,
		}
		err = s.DB.Create(ctx, order)
		if err == nil || !apperr.IsConflict(err) {
			break
		}
		s.Logger.Warn("ORDER", fmt.Sprintf("Order number %s collided (attempt %d/%d)", order.OrderNumber, attempt, maxNumberAttempts))
	}
	metrics.RecordOperation("order", "create", err)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.Logger.LogResource("order", "created", order.ID)
	if s.Publisher != nil {
		if err := s.Publisher.Publish(ctx, kafka.EventOrderCreated, kafka.KeyOf(order.ID), order); err != nil {
			s.Logger.Warn("KAFKA", fmt.Sprintf("Failed to publish %s for order %d: %v", kafka.EventOrderCreated, order.ID, err))
		}
	}
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := s.DB.GetByID(ctx, id)
	metrics.RecordOperation("order", "get", err)
	if err != nil {
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}
	return order, nil
}

func (s *OrderService) ListOrders(ctx context.Context, skip, limit int) ([]models.Order, error) {
	list, err := s.DB.List(ctx, skip, limit)
	metrics.RecordOperation("order", "list", err)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return list, nil
}
