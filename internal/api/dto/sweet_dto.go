package dto

import (
	"time"

	"github.com/spec-kit/sweet-shop/internal/domain"
)

// SweetRequest payload for creating or replacing a catalog item.
type SweetRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
}

// QuantityRequest payload for purchase and restock.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// SweetResponse is the catalog item view returned to clients.
type SweetResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewSweetResponse maps the domain model.
func NewSweetResponse(sweet *domain.Sweet) SweetResponse {
	return SweetResponse{
		ID:          sweet.ID,
		Name:        sweet.Name,
		Category:    sweet.Category,
		Description: sweet.Description,
		Price:       sweet.Price,
		Quantity:    sweet.Quantity,
		Active:      sweet.Active,
		CreatedAt:   sweet.CreatedAt,
		UpdatedAt:   sweet.UpdatedAt,
	}
}
