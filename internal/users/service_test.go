package users_test

import (
	"context"
	"testing"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/auth"
	"ms-eventplatform/internal/kafka"
	"ms-eventplatform/internal/logger"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
	"ms-eventplatform/internal/users"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUserDBLayer struct {
	mock.Mock
}

func (m *MockUserDBLayer) Create(ctx context.Context, row *models.User) error {
	args := m.Called(ctx, row)
	if args.Error(0) == nil {
		row.ID = 1
	}
	return args.Error(0)
}

func (m *MockUserDBLayer) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserDBLayer) List(ctx context.Context, offset, limit int) ([]models.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserDBLayer) Update(ctx context.Context, id int64, patch storage.Patch[models.User]) (*models.User, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserDBLayer) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserDBLayer) ExistsBy(ctx context.Context, column string, value any) (bool, error) {
	args := m.Called(ctx, column, value)
	return args.Bool(0), args.Error(1)
}

type MockAuditRecorder struct {
	mock.Mock
}

func (m *MockAuditRecorder) Record(ctx context.Context, actorID *int64, action, entity, details string) {
	m.Called(ctx, actorID, action, entity, details)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, eventType, key string, data interface{}) error {
	args := m.Called(ctx, eventType, key, data)
	return args.Error(0)
}

func ptr[V any](v V) *V { return &v }

func (m *MockUserDBLayer) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockUserDBLayer) CountBy(ctx context.Context, column string, value any) (int, error) {
	args := m.Called(ctx, column, value)
	return args.Int(0), args.Error(1)
}

func newUserInput(email string) models.UserCreate {
	return models.UserCreate{Name: ptr("Ada"), Email: ptr(email), UserType: ptr("buyer")}
}

func TestCreateUserDuplicateEmailIsConflict(t *testing.T) {
	mockDB := new(MockUserDBLayer)
	mockAudit := new(MockAuditRecorder)
	svc := users.NewUserService(mockDB, mockAudit, nil, logger.NewNop())

	mockDB.On("ExistsBy", mock.Anything, "email", "ada@example.com").Return(true, nil)

	_, err := svc.CreateUser(context.Background(), newUserInput("ada@example.com"))

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	mockDB.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mockAudit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCreateUserAuditsWithCallerAndPublishes(t *testing.T) {
	mockDB := new(MockUserDBLayer)
	mockAudit := new(MockAuditRecorder)
	mockPub := new(MockPublisher)
	svc := users.NewUserService(mockDB, mockAudit, mockPub, logger.NewNop())

	ctx := auth.WithClaims(context.Background(), jwt.MapClaims{"sub": "42"})

	mockDB.On("ExistsBy", mock.Anything, "email", "ada@example.com").Return(false, nil)
	mockDB.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)
	mockAudit.On("Record", mock.Anything, mock.MatchedBy(func(id *int64) bool {
		return id != nil && *id == 42
	}), "user.create", "user", mock.Anything).Return()
	mockPub.On("Publish", mock.Anything, kafka.EventUserCreated, "1", mock.Anything).Return(nil)

	user, err := svc.CreateUser(ctx, newUserInput("ada@example.com"))

	require.NoError(t, err)
	assert.Equal(t, models.UserStatusActive, user.Status)
	mockDB.AssertExpectations(t)
	mockAudit.AssertExpectations(t)
	mockPub.AssertExpectations(t)
}

func TestDeleteUserMissingIsNotFoundAndNotAudited(t *testing.T) {
	mockDB := new(MockUserDBLayer)
	mockAudit := new(MockAuditRecorder)
	svc := users.NewUserService(mockDB, mockAudit, nil, logger.NewNop())

	mockDB.On("Delete", mock.Anything, int64(9)).Return(apperr.NotFound("user not found"))

	err := svc.DeleteUser(context.Background(), 9)

	assert.True(t, apperr.IsNotFound(err))
	mockAudit.AssertNotCalled(t, "Record", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateUserAuditsWithoutCaller(t *testing.T) {
	mockDB := new(MockUserDBLayer)
	mockAudit := new(MockAuditRecorder)
	svc := users.NewUserService(mockDB, mockAudit, nil, logger.NewNop())

	in := models.UserUpdate{Name: ptr("Grace")}
	mockDB.On("Update", mock.Anything, int64(3), in).Return(&models.User{Name: "Grace"}, nil)
	mockAudit.On("Record", mock.Anything, (*int64)(nil), "user.update", "user", "id=3").Return()

	user, err := svc.UpdateUser(context.Background(), 3, in)

	require.NoError(t, err)
	assert.Equal(t, "Grace", user.Name)
	mockAudit.AssertExpectations(t)
}

func TestStatistics(t *testing.T) {
	mockDB := new(MockUserDBLayer)
	svc := users.NewUserService(mockDB, nil, nil, logger.NewNop())

	mockDB.On("Count", mock.Anything).Return(5, nil)
	mockDB.On("CountBy", mock.Anything, "status", models.UserStatusActive).Return(3, nil)
	mockDB.On("CountBy", mock.Anything, "status", models.UserStatusSuspended).Return(1, nil)

	stats, err := svc.Statistics(context.Background())

	require.NoError(t, err)
	assert.Equal(t, models.UserStatistics{Total: 5, Active: 3, Suspended: 1}, *stats)
	mockDB.AssertExpectations(t)
}

func TestCreateUserStoresLowercasedEmailAndHashedPassword(t *testing.T) {
	mockDB := new(MockUserDBLayer)
	svc := users.NewUserService(mockDB, nil, nil, logger.NewNop())
	svc.HashCost = bcrypt.MinCost

	mockDB.On("ExistsBy", mock.Anything, "email", "ada@example.com").Return(false, nil)
	mockDB.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil)

	in := newUserInput("  Ada@Example.COM")
	in.Password = ptr("analytical-engine")
	user, err := svc.CreateUser(context.Background(), in)

	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	require.NotNil(t, user.PasswordHash)
	assert.True(t, auth.CheckPassword("analytical-engine", *user.PasswordHash))
	mockDB.AssertExpectations(t)
}
