package service_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sweet-shop/internal/domain"
	"github.com/spec-kit/sweet-shop/internal/events"
	"github.com/spec-kit/sweet-shop/internal/repository"
	"github.com/spec-kit/sweet-shop/internal/service"
	apperrors "github.com/spec-kit/sweet-shop/pkg/util"
)

type eventRecorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *eventRecorder) record(_ context.Context, event events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) byType(eventType events.EventType) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []events.Event
	for _, event := range r.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func newSweetFixture(threshold int) (*service.SweetService, *fakeSweetRepo, *fakeCache, *eventRecorder) {
	repo := newFakeSweetRepo()
	cache := &fakeCache{}
	recorder := &eventRecorder{}

	dispatcher := events.NewInMemoryDispatcher()
	dispatcher.Subscribe(events.EventSweetPurchased, recorder.record)
	dispatcher.Subscribe(events.EventSweetRestocked, recorder.record)
	dispatcher.Subscribe(events.EventLowStock, recorder.record)

	svc := service.NewSweetService(repo, cache, dispatcher, threshold)
	return svc, repo, cache, recorder
}

func addSweet(t *testing.T, svc *service.SweetService, name string, quantity int) *domain.Sweet {
	t.Helper()
	sweet, err := svc.AddSweet(context.Background(), service.SweetInput{
		Name:     name,
		Category: "chocolate",
		Price:    2.5,
		Quantity: quantity,
	})
	require.NoError(t, err)
	return sweet
}

func TestSweetService_AddSweet(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active item", func(t *testing.T) {
		svc, _, cache, _ := newSweetFixture(5)
		sweet := addSweet(t, svc, "Fudge", 10)
		assert.NotEmpty(t, sweet.ID)
		assert.True(t, sweet.Active)
		assert.Equal(t, 1, cache.invalidates)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		svc, _, _, _ := newSweetFixture(5)
		_, err := svc.AddSweet(ctx, service.SweetInput{Price: -1})
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}

func TestSweetService_ListSweets(t *testing.T) {
	ctx := context.Background()

	t.Run("populates the cache on miss", func(t *testing.T) {
		svc, repo, cache, _ := newSweetFixture(5)
		addSweet(t, svc, "Fudge", 10)

		listed, err := svc.ListSweets(ctx)
		require.NoError(t, err)
		assert.Len(t, listed, 1)
		assert.Equal(t, 1, repo.lists)
		assert.Equal(t, 1, cache.sets)
	})

	t.Run("serves from cache on hit", func(t *testing.T) {
		svc, repo, _, _ := newSweetFixture(5)
		addSweet(t, svc, "Fudge", 10)

		_, err := svc.ListSweets(ctx)
		require.NoError(t, err)
		_, err = svc.ListSweets(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, repo.lists)
	})

	t.Run("mutations invalidate the cached listing", func(t *testing.T) {
		svc, repo, _, _ := newSweetFixture(5)
		sweet := addSweet(t, svc, "Fudge", 10)

		_, err := svc.ListSweets(ctx)
		require.NoError(t, err)

		_, err = svc.Restock(ctx, "admin@example.com", sweet.ID, 5)
		require.NoError(t, err)

		_, err = svc.ListSweets(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, repo.lists)
	})
}

func TestSweetService_Purchase(t *testing.T) {
	ctx := context.Background()

	t.Run("decrements stock and publishes an event", func(t *testing.T) {
		svc, _, _, recorder := newSweetFixture(2)
		sweet := addSweet(t, svc, "Fudge", 10)

		updated, err := svc.Purchase(ctx, "bob@example.com", sweet.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, 7, updated.Quantity)

		purchased := recorder.byType(events.EventSweetPurchased)
		require.Len(t, purchased, 1)
		assert.Equal(t, sweet.ID, purchased[0].SweetID)
		assert.Equal(t, "bob@example.com", purchased[0].Subject)
		assert.Empty(t, recorder.byType(events.EventLowStock))
	})

	t.Run("fires low stock at the threshold", func(t *testing.T) {
		svc, _, _, recorder := newSweetFixture(2)
		sweet := addSweet(t, svc, "Fudge", 3)

		_, err := svc.Purchase(ctx, "bob@example.com", sweet.ID, 1)
		require.NoError(t, err)

		lowStock := recorder.byType(events.EventLowStock)
		require.Len(t, lowStock, 1)
		payload, ok := lowStock[0].Payload.(events.LowStockPayload)
		require.True(t, ok)
		assert.Equal(t, 2, payload.Quantity)
	})

	t.Run("rejects orders exceeding stock and leaves quantity unchanged", func(t *testing.T) {
		svc, repo, _, _ := newSweetFixture(2)
		sweet := addSweet(t, svc, "Fudge", 2)

		_, err := svc.Purchase(ctx, "bob@example.com", sweet.ID, 5)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)

		stored, getErr := repo.GetByID(ctx, sweet.ID)
		require.NoError(t, getErr)
		assert.Equal(t, 2, stored.Quantity)
	})

	t.Run("rejects inactive items", func(t *testing.T) {
		svc, _, _, _ := newSweetFixture(2)
		sweet := addSweet(t, svc, "Fudge", 5)
		require.NoError(t, svc.DeleteSweet(ctx, sweet.ID))

		_, err := svc.Purchase(ctx, "bob@example.com", sweet.ID, 1)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "CONFLICT", domainErr.Code)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, _, _, _ := newSweetFixture(2)
		sweet := addSweet(t, svc, "Fudge", 5)

		_, err := svc.Purchase(ctx, "bob@example.com", sweet.ID, 0)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})

	t.Run("missing item maps to not found", func(t *testing.T) {
		svc, _, _, _ := newSweetFixture(2)
		_, err := svc.Purchase(ctx, "bob@example.com", "missing", 1)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "NOT_FOUND", domainErr.Code)
	})
}

func TestSweetService_Restock(t *testing.T) {
	ctx := context.Background()

	t.Run("increments stock and publishes an event", func(t *testing.T) {
		svc, _, _, recorder := newSweetFixture(2)
		sweet := addSweet(t, svc, "Fudge", 1)

		updated, err := svc.Restock(ctx, "admin@example.com", sweet.ID, 9)
		require.NoError(t, err)
		assert.Equal(t, 10, updated.Quantity)
		assert.Len(t, recorder.byType(events.EventSweetRestocked), 1)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc, _, _, _ := newSweetFixture(2)
		sweet := addSweet(t, svc, "Fudge", 1)

		_, err := svc.Restock(ctx, "admin@example.com", sweet.ID, -1)
		var domainErr *apperrors.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
	})
}

func TestSweetService_DeleteSweet(t *testing.T) {
	ctx := context.Background()

	svc, repo, _, _ := newSweetFixture(2)
	sweet := addSweet(t, svc, "Fudge", 5)

	require.NoError(t, svc.DeleteSweet(ctx, sweet.ID))

	stored, err := repo.GetByID(ctx, sweet.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	listed, err := svc.ListSweets(ctx)
	require.NoError(t, err)
	assert.Empty(t, listed)
}

func TestSweetService_SearchSweets(t *testing.T) {
	ctx := context.Background()

	svc, _, _, _ := newSweetFixture(2)
	addSweet(t, svc, "Fudge", 5)

	category := "chocolate"
	found, err := svc.SearchSweets(ctx, repository.SweetFilter{Category: &category})
	require.NoError(t, err)
	assert.Len(t, found, 1)

	other := "gummy"
	found, err = svc.SearchSweets(ctx, repository.SweetFilter{Category: &other})
	require.NoError(t, err)
	assert.Empty(t, found)
}
