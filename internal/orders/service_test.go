package orders_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/orders"
	"ms-eventplatform/internal/storage"
	"ms-eventplatform/internal/storage/storagetest"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderDBLayer struct {
	mock.Mock
}

func (m *MockOrderDBLayer) Create(ctx context.Context, row *models.Order) error {
	return m.Called(ctx, row).Error(0)
}

func (m *MockOrderDBLayer) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func (m *MockOrderDBLayer) List(ctx context.Context, offset, limit int) ([]models.Order, error) {
	args := m.Called(ctx, offset, limit)
	return args.Get(0).([]models.Order), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	return m.Called(ctx, eventType, key, data).Error(0)
}

func ptr[V any](v V) *V { return &v }

var numberPattern = regexp.MustCompile(`^ORD-[0-9A-F]{8}$`)

func line() models.OrderCreate {
	return models.OrderCreate{TicketTypeID: ptr(int64(1)), Quantity: ptr(2)}
}

func TestNewOrderNumberFormat(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		n := orders.NewOrderNumber()
		require.Regexp(t, numberPattern, n)
		seen[n] = true
	}
	assert.Greater(t, len(seen), 190)
}

func TestCreateOrderIsPendingWithZeroTotal(t *testing.T) {
	db := storagetest.NewDB(t)
	svc := orders.NewOrderService(storage.NewTable[models.Order](db), kafka.LogPublisher{Logger: logger.NewNop()}, logger.NewNop())

	order, err := svc.CreateOrder(context.Background(), line())
	require.NoError(t, err)

	assert.Regexp(t, numberPattern, order.OrderNumber)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.Zero))
	assert.Nil(t, order.BuyerID)

	stored, err := svc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.OrderNumber, stored.OrderNumber)
	assert.Equal(t, "0.00", stored.TotalAmount.StringFixed(2))
}

func TestCreateOrderRetriesNumberCollision(t *testing.T) {
	db := storagetest.NewDB(t)
	svc := orders.NewOrderService(storage.NewTable[models.Order](db), nil, logger.NewNop())

	numbers := []string{"ORD-AAAAAAAA", "ORD-AAAAAAAA", "ORD-BBBBBBBB"}
	var mu sync.Mutex
	svc.NewNumber = func() string {
		mu.Lock()
		defer mu.Unlock()
		n := numbers[0]
		numbers = numbers[1:]
		return n
	}

	first, err := svc.CreateOrder(context.Background(), line())
	require.NoError(t, err)
	assert.Equal(t, "ORD-AAAAAAAA", first.OrderNumber)

	second, err := svc.CreateOrder(context.Background(), line())
	require.NoError(t, err)
	assert.Equal(t, "ORD-BBBBBBBB", second.OrderNumber)

	list, err := svc.ListOrders(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCreateOrderGivesUpAfterRepeatedCollisions(t *testing.T) {
	mockDB := new(MockOrderDBLayer)
	svc := orders.NewOrderService(mockDB, nil, logger.NewNop())

	mockDB.On("Create", mock.Anything, mock.Anything).Return(apperr.Conflict(storage.ErrConstraintViolation, "order with this order_number already exists"))

	_, err := svc.CreateOrder(context.Background(), line())

	assert.True(t, apperr.IsConflict(err))
	mockDB.AssertNumberOfCalls(t, "Create", 3)
}

func TestCreateOrderDoesNotRetryUnexpectedErrors(t *testing.T) {
	mockDB := new(MockOrderDBLayer)
	mockPub := new(MockPublisher)
	svc := orders.NewOrderService(mockDB, mockPub, logger.NewNop())

	mockDB.On("Create", mock.Anything, mock.Anything).Return(apperr.Unexpected(errors.New("conn reset"), "database error"))

	_, err := svc.CreateOrder(context.Background(), line())

	assert.Equal(t, apperr.KindUnexpected, apperr.KindOf(err))
	mockDB.AssertNumberOfCalls(t, "Create", 1)
	mockPub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestBuyerDefaultsToCaller(t *testing.T) {
	mockDB := new(MockOrderDBLayer)
	mockPub := new(MockPublisher)
	svc := orders.NewOrderService(mockDB, mockPub, logger.NewNop())

	mockDB.On("Create", mock.Anything, mock.MatchedBy(func(o *models.Order) bool {
		return o.BuyerID != nil && *o.BuyerID == 8
	})).Return(nil)
	mockPub.On("Publish", mock.Anything, kafka.EventOrderCreated, mock.Anything, mock.Anything).Return(nil)

	ctx := auth.WithClaims(context.Background(), jwt.MapClaims{"sub": "8"})
	_, err := svc.CreateOrder(ctx, line())

	require.NoError(t, err)
	mockDB.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}
