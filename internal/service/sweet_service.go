package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sweet-shop/internal/domain"
	"github.com/spec-kit/sweet-shop/internal/events"
	"github.com/spec-kit/sweet-shop/internal/repository"
	apperrors "github.com/spec-kit/sweet-shop/pkg/util"
)

// CatalogCache caches the active listing. A nil cache disables caching.
type CatalogCache interface {
	Get(ctx context.Context) ([]domain.Sweet, bool)
	Set(ctx context.Context, sweets []domain.Sweet)
	Invalidate(ctx context.Context)
}

// SweetService implements catalog operations and stock control.
type SweetService struct {
	sweets            repository.SweetRepository
	cache             CatalogCache
	dispatcher        events.Dispatcher
	lowStockThreshold int
}

// NewSweetService builds the service.
func NewSweetService(sweets repository.SweetRepository, cache CatalogCache, dispatcher events.Dispatcher, lowStockThreshold int) *SweetService {
	return &SweetService{
		sweets:            sweets,
		cache:             cache,
		dispatcher:        dispatcher,
		lowStockThreshold: lowStockThreshold,
	}
}

// SweetInput carries catalog item fields for create and update.
type SweetInput struct {
	Name        string
	Category    string
	Description string
	Price       float64
	Quantity    int
}

// AddSweet creates an active catalog item.
func (s *SweetService) AddSweet(ctx context.Context, input SweetInput) (*domain.Sweet, error) {
	if err := validateSweetInput(input); err != nil {
		return nil, err
	}

	sweet := &domain.Sweet{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Category:    input.Category,
		Description: input.Description,
		Price:       input.Price,
		Quantity:    input.Quantity,
		Active:      true,
	}
	if err := s.sweets.Create(ctx, sweet); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sweet, nil
}

// ListSweets returns all active items, served from cache when possible.
func (s *SweetService) ListSweets(ctx context.Context) ([]domain.Sweet, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx); ok {
			return cached, nil
		}
	}
	sweets, err := s.sweets.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Set(ctx, sweets)
	}
	return sweets, nil
}

// SearchSweets filters active items by name, category or price range.
func (s *SweetService) SearchSweets(ctx context.Context, filter repository.SweetFilter) ([]domain.Sweet, error) {
	return s.sweets.Search(ctx, filter)
}

// UpdateSweet replaces the item's fields.
func (s *SweetService) UpdateSweet(ctx context.Context, id string, input SweetInput) (*domain.Sweet, error) {
	if err := validateSweetInput(input); err != nil {
		return nil, err
	}

	sweet, err := s.getSweet(ctx, id)
	if err != nil {
		return nil, err
	}

	sweet.Name = input.Name
	sweet.Category = input.Category
	sweet.Description = input.Description
	sweet.Price = input.Price
	sweet.Quantity = input.Quantity

	if err := s.sweets.Update(ctx, sweet); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return sweet, nil
}

// DeleteSweet soft-deletes the item so it drops out of listings.
func (s *SweetService) DeleteSweet(ctx context.Context, id string) error {
	sweet, err := s.getSweet(ctx, id)
	if err != nil {
		return err
	}

	sweet.Active = false
	if err := s.sweets.Update(ctx, sweet); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// Purchase decrements stock for the caller. Inactive items and orders
// exceeding stock are rejected.
func (s *SweetService) Purchase(ctx context.Context, subject, id string, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", nil)
	}

	sweet, err := s.getSweet(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sweet.Active {
		return nil, apperrors.NewConflict("sweet is not available", nil)
	}
	if sweet.Quantity < quantity {
		return nil, apperrors.NewConflict("insufficient stock", map[string]any{
			"available": sweet.Quantity,
			"requested": quantity,
		})
	}

	sweet.Quantity -= quantity
	if err := s.sweets.Update(ctx, sweet); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.publish(ctx, events.EventSweetPurchased, subject, sweet, -quantity)
	if sweet.Quantity <= s.lowStockThreshold {
		s.publishLowStock(ctx, subject, sweet)
	}
	return sweet, nil
}

// Restock increments stock.
func (s *SweetService) Restock(ctx context.Context, subject, id string, quantity int) (*domain.Sweet, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("quantity must be positive", nil)
	}

	sweet, err := s.getSweet(ctx, id)
	if err != nil {
		return nil, err
	}

	sweet.Quantity += quantity
	if err := s.sweets.Update(ctx, sweet); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.publish(ctx, events.EventSweetRestocked, subject, sweet, quantity)
	return sweet, nil
}

func (s *SweetService) getSweet(ctx context.Context, id string) (*domain.Sweet, error) {
	sweet, err := s.sweets.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("sweet", map[string]any{"id": id})
		}
		return nil, err
	}
	return sweet, nil
}

func (s *SweetService) invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
}

func (s *SweetService) publish(ctx context.Context, eventType events.EventType, subject string, sweet *domain.Sweet, delta int) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SweetID:   sweet.ID,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload: events.StockChangedPayload{
			SweetName:   sweet.Name,
			Delta:       delta,
			NewQuantity: sweet.Quantity,
		},
	})
}

func (s *SweetService) publishLowStock(ctx context.Context, subject string, sweet *domain.Sweet) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLowStock,
		SweetID:   sweet.ID,
		Subject:   subject,
		Timestamp: time.Now(),
		Payload: events.LowStockPayload{
			SweetName: sweet.Name,
			Quantity:  sweet.Quantity,
			Threshold: s.lowStockThreshold,
		},
	})
}

func validateSweetInput(input SweetInput) error {
	details := map[string]any{}
	if input.Name == "" {
		details["name"] = "required"
	}
	if input.Category == "" {
		details["category"] = "required"
	}
	if input.Price < 0 {
		details["price"] = "must not be negative"
	}
	if input.Quantity < 0 {
		details["quantity"] = "must not be negative"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid sweet", details)
	}
	return nil
}
