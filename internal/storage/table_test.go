package storage_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"ms-eventplatform/internal/apperr"
	"ms-eventplatform/internal/models"
	"ms-eventplatform/internal/storage"
	"ms-eventplatform/internal/storage/storagetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	return &models.User{
		Name:     "Test User",
		Email:    email,
		UserType: models.UserTypeBuyer,
		Status:   models.UserStatusActive,
	}
}

func TestCreateAssignsIDAndTimestamps(t *testing.T) {
	db := storagetest.NewDB(t)
	users := storage.NewTable[models.User](db)
	ctx := context.Background()

	u := newUser("a@example.com")
	require.NoError(t, users.Create(ctx, u))

	assert.NotZero(t, u.ID)
	assert.False(t, u.CreatedAt.IsZero())
	assert.False(t, u.UpdatedAt.IsZero())

	got, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, got.Email)
	assert.Equal(t, u.Name, got.Name)
	assert.Equal(t, models.UserStatusActive, got.Status)
	assert.Nil(t, got.PhoneNumber)
}

func TestGetMissingRowIsNotFound(t *testing.T) {
	users := storage.NewTable[models.User](storagetest.NewDB(t))

	got, err := users.GetByID(context.Background(), 999)
	assert.Nil(t, got)
	assert.True(t, apperr.IsNotFound(err))
	assert.EqualError(t, err, "user not found")
}

func TestDuplicateUniqueValueIsConflict(t *testing.T) {
	users := storage.NewTable[models.User](storagetest.NewDB(t))
	ctx := context.Background()

	require.NoError(t, users.Create(ctx, newUser("dup@example.com")))
	err := users.Create(ctx, newUser("dup@example.com"))

	require.Error(t, err)
	assert.True(t, apperr.IsConflict(err))
	assert.True(t, errors.Is(err, storage.ErrConstraintViolation))
	assert.Contains(t, err.Error(), "email")

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "failed insert must not leave a row behind")
}

func TestListIsOrderedAndPaged(t *testing.T) {
	categories := storage.NewTable[models.Category](storagetest.NewDB(t))
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, categories.Create(ctx, &models.Category{Name: fmt.Sprintf("cat-%d", i)}))
	}

	page, err := categories.List(ctx, 1, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "cat-1", page[0].Name)
	assert.Equal(t, "cat-2", page[1].Name)

	all, err := categories.List(ctx, 0, 100)
	require.NoError(t, err)
	assert.Len(t, all, 5)
}

func TestListEmptyTableIsEmptySlice(t *testing.T) {
	locations := storage.NewTable[models.Location](storagetest.NewDB(t))

	rows, err := locations.List(context.Background(), 0, 100)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	rows, err = locations.List(context.Background(), 0, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestListByFiltersOnColumn(t *testing.T) {
	types := storage.NewTable[models.TicketType](storagetest.NewDB(t))
	ctx := context.Background()

	for _, eventID := range []int64{1, 2, 1} {
		require.NoError(t, types.Create(ctx, &models.TicketType{
			Name:     "General",
			Price:    decimal.RequireFromString("25.50"),
			Quantity: 100,
			EventID:  eventID,
		}))
	}

	rows, err := types.ListBy(ctx, "event_id", int64(1), 0, 100)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, int64(1), row.EventID)
		assert.True(t, decimal.RequireFromString("25.50").Equal(row.Price))
	}
}

func TestUpdateWritesOnlySuppliedColumns(t *testing.T) {
	users := storage.NewTable[models.User](storagetest.NewDB(t))
	ctx := context.Background()

	u := newUser("patch@example.com")
	u.PhoneNumber = ptr("555-0100")
	require.NoError(t, users.Create(ctx, u))
	before := u.UpdatedAt
	time.Sleep(5 * time.Millisecond)

	name := "Renamed"
	updated, err := users.Update(ctx, u.ID, models.UserUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "555-0100", *updated.PhoneNumber)
	assert.True(t, updated.UpdatedAt.After(before))

	reloaded, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", reloaded.Name)
	assert.Equal(t, "patch@example.com", reloaded.Email)
	assert.Equal(t, "555-0100", *reloaded.PhoneNumber)
}

func TestUpdateMissingRowIsNotFound(t *testing.T) {
	users := storage.NewTable[models.User](storagetest.NewDB(t))

	name := "x"
	_, err := users.Update(context.Background(), 42, models.UserUpdate{Name: &name})
	assert.True(t, apperr.IsNotFound(err))
}

func TestUpdateIntoUniqueCollisionIsConflict(t *testing.T) {
	categories := storage.NewTable[models.Category](storagetest.NewDB(t))
	ctx := context.Background()

	require.NoError(t, categories.Create(ctx, &models.Category{Name: "Music"}))
	sports := &models.Category{Name: "Sports"}
	require.NoError(t, categories.Create(ctx, sports))

	name := "Music"
	_, err := categories.Update(ctx, sports.ID, models.CategoryUpdate{Name: &name})
	assert.True(t, apperr.IsConflict(err))

	reloaded, err := categories.GetByID(ctx, sports.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sports", reloaded.Name, "rolled back update must not be visible")
}

func TestDeleteTwiceIsNotFound(t *testing.T) {
	events := storage.NewTable[models.Event](storagetest.NewDB(t))
	ctx := context.Background()

	ev := &models.Event{
		Name:                  "Gig",
		Date:                  time.Now().UTC().Add(48 * time.Hour),
		Category:              "Music",
		Capacity:              10,
		EventStatus:           models.EventStatusDraft,
		MaxTicketsPerPurchase: 4,
		LocationID:            1,
	}
	require.NoError(t, events.Create(ctx, ev))

	require.NoError(t, events.Delete(ctx, ev.ID))
	assert.True(t, apperr.IsNotFound(events.Delete(ctx, ev.ID)))

	_, err := events.GetByID(ctx, ev.ID)
	assert.True(t, apperr.IsNotFound(err))
}

func TestExistsBy(t *testing.T) {
	users := storage.NewTable[models.User](storagetest.NewDB(t))
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, newUser("here@example.com")))

	ok, err := users.ExistsBy(ctx, "email", "here@example.com")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = users.ExistsBy(ctx, "email", "gone@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCountAndCountBy(t *testing.T) {
	users := storage.NewTable[models.User](storagetest.NewDB(t))
	ctx := context.Background()

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	suspended := newUser("s@example.com")
	suspended.Status = models.UserStatusSuspended
	require.NoError(t, users.Create(ctx, newUser("a@example.com")))
	require.NoError(t, users.Create(ctx, newUser("b@example.com")))
	require.NoError(t, users.Create(ctx, suspended))

	n, err = users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n, err = users.CountBy(ctx, "status", models.UserStatusActive)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = users.CountBy(ctx, "status", models.UserStatusInactive)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestConcurrentCreatesOnUniqueFieldOneWins(t *testing.T) {
	users := storage.NewTable[models.User](storagetest.NewDB(t))
	ctx := context.Background()

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = users.Create(ctx, newUser("race@example.com"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, apperr.IsConflict(err), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)
}

func ptr[V any](v V) *V { return &v }
