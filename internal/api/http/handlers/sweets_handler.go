package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sweet-shop/internal/api/dto"
	"github.com/spec-kit/sweet-shop/internal/auth"
	"github.com/spec-kit/sweet-shop/internal/domain"
	"github.com/spec-kit/sweet-shop/internal/repository"
	"github.com/spec-kit/sweet-shop/internal/service"
	apperrors "github.com/spec-kit/sweet-shop/pkg/util"
)

// SweetsHandler exposes catalog endpoints.
type SweetsHandler struct {
	service *service.SweetService
}

// NewSweetsHandler constructs the handler.
func NewSweetsHandler(sweetService *service.SweetService) *SweetsHandler {
	return &SweetsHandler{service: sweetService}
}

// AddSweet handles POST /api/sweets.
func (h *SweetsHandler) AddSweet(c *fiber.Ctx) error {
	var req dto.SweetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	sweet, err := h.service.AddSweet(c.Context(), sweetInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewSweetResponse(sweet)})
}

// ListSweets handles GET /api/sweets.
func (h *SweetsHandler) ListSweets(c *fiber.Ctx) error {
	sweets, err := h.service.ListSweets(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sweetResponses(sweets)})
}

// SearchSweets handles GET /api/sweets/search.
func (h *SweetsHandler) SearchSweets(c *fiber.Ctx) error {
	filter := repository.SweetFilter{}
	if name := c.Query("name"); name != "" {
		filter.Name = &name
	}
	if category := c.Query("category"); category != "" {
		filter.Category = &category
	}
	if minStr, maxStr := c.Query("minPrice"), c.Query("maxPrice"); minStr != "" && maxStr != "" {
		minPrice, errMin := strconv.ParseFloat(minStr, 64)
		maxPrice, errMax := strconv.ParseFloat(maxStr, 64)
		if errMin != nil || errMax != nil {
			return apperrors.NewValidationError("invalid price range", nil)
		}
		filter.MinPrice = &minPrice
		filter.MaxPrice = &maxPrice
	}

	sweets, err := h.service.SearchSweets(c.Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": sweetResponses(sweets)})
}

// UpdateSweet handles PUT /api/sweets/:id.
func (h *SweetsHandler) UpdateSweet(c *fiber.Ctx) error {
	var req dto.SweetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	sweet, err := h.service.UpdateSweet(c.Context(), c.Params("id"), sweetInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSweetResponse(sweet)})
}

// DeleteSweet handles DELETE /api/sweets/:id.
func (h *SweetsHandler) DeleteSweet(c *fiber.Ctx) error {
	if err := h.service.DeleteSweet(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "sweet deleted successfully"}})
}

// PurchaseSweet handles POST /api/sweets/:id/purchase.
func (h *SweetsHandler) PurchaseSweet(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	quantity, err := parseQuantity(c)
	if err != nil {
		return err
	}

	sweet, err := h.service.Purchase(c.Context(), identity.Subject, c.Params("id"), quantity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSweetResponse(sweet)})
}

// RestockSweet handles POST /api/sweets/:id/restock.
func (h *SweetsHandler) RestockSweet(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	quantity, err := parseQuantity(c)
	if err != nil {
		return err
	}

	sweet, err := h.service.Restock(c.Context(), identity.Subject, c.Params("id"), quantity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewSweetResponse(sweet)})
}

// parseQuantity accepts the quantity either as a query parameter or in the
// request body.
func parseQuantity(c *fiber.Ctx) (int, error) {
	if qStr := c.Query("quantity"); qStr != "" {
		quantity, err := strconv.Atoi(qStr)
		if err != nil {
			return 0, apperrors.NewValidationError("invalid quantity", nil)
		}
		return quantity, nil
	}
	var req dto.QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return 0, apperrors.NewValidationError("quantity required", nil)
	}
	return req.Quantity, nil
}

func sweetInput(req dto.SweetRequest) service.SweetInput {
	return service.SweetInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
	}
}

func sweetResponses(sweets []domain.Sweet) []dto.SweetResponse {
	items := make([]dto.SweetResponse, 0, len(sweets))
	for i := range sweets {
		items = append(items, dto.NewSweetResponse(&sweets[i]))
	}
	return items
}
