package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/sweet-shop/internal/api/dto"
	"github.com/spec-kit/sweet-shop/internal/auth"
	"github.com/spec-kit/sweet-shop/internal/service"
	apperrors "github.com/spec-kit/sweet-shop/pkg/util"
)

// loginFailedMessage is deliberately identical for unknown emails and wrong
// passwords so callers cannot enumerate accounts.
const loginFailedMessage = "invalid email or password"

// AuthHandler exposes login, registration and account endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("email and password required", nil)
	}

	token, exp, err := h.auth.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) || errors.Is(err, service.ErrBadCredentials) {
			return apperrors.NewUnauthorizedWrap(loginFailedMessage, err)
		}
		return err
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token, ExpiresAt: exp}})
}

// Register handles POST /api/auth/create.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return apperrors.NewValidationError("name, email, password required", nil)
	}

	user, err := h.auth.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Verify handles GET /api/auth/verify, echoing the caller's identity.
func (h *AuthHandler) Verify(c *fiber.Ctx) error {
	identity, ok := auth.IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{"data": fiber.Map{
		"valid": true,
		"email": identity.Subject,
		"role":  string(identity.Role),
	}})
}

// GetUser handles GET /api/auth/get/:id.
func (h *AuthHandler) GetUser(c *fiber.Ctx) error {
	user, err := h.auth.GetUser(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListUsers handles GET /api/auth/get.
func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.auth.ListUsers(c.Context())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, dto.NewUserResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateUser handles PUT /api/auth/update.
func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	var req dto.UserUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.ID == "" {
		return apperrors.NewValidationError("id required", nil)
	}

	user, err := h.auth.UpdateUser(c.Context(), req.ID, service.UserUpdateInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Enabled:  req.Enabled,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// DeleteUser handles DELETE /api/auth/delete/:id.
func (h *AuthHandler) DeleteUser(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.auth.DeleteUser(c.Context(), id); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": id + " deleted"}})
}
