package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/sweet-shop/internal/auth"
	"github.com/spec-kit/sweet-shop/internal/config"
	"github.com/spec-kit/sweet-shop/internal/domain"
	"github.com/spec-kit/sweet-shop/internal/repository"
	apperrors "github.com/spec-kit/sweet-shop/pkg/util"
)

// Login failure kinds. Handlers must surface both with the same message so
// callers cannot probe which emails are registered.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrBadCredentials = errors.New("bad credentials")
)

// AuthService coordinates registration, login and account management.
type AuthService struct {
	users      repository.UserRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, users repository.UserRepository) *AuthService {
	return &AuthService{
		users:      users,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// Login authenticates by email and password and issues a token carrying
// the stored role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, time.Time, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", time.Time{}, ErrUserNotFound
		}
		return "", time.Time{}, err
	}
	if !user.Enabled {
		return "", time.Time{}, ErrBadCredentials
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return "", time.Time{}, ErrBadCredentials
	}
	return s.tokenMgr.Issue(user.Email, user.Role)
}

// RegisterInput carries the account creation payload.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Register creates a new account. Role defaults to USER and accounts start
// enabled, matching the shop's self-service signup.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("user with this email already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	role := domain.RoleUser
	if input.Role != "" {
		parsed, ok := domain.ParseRole(input.Role)
		if !ok {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": input.Role})
		}
		role = parsed
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		Enabled:      true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetUser fetches one account by id.
func (s *AuthService) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ListUsers returns all accounts.
func (s *AuthService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

// UserUpdateInput carries optional account changes.
type UserUpdateInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *string
	Enabled  *bool
}

// UpdateUser applies the provided fields. A new password is re-hashed; an
// absent one keeps the stored hash.
func (s *AuthService) UpdateUser(ctx context.Context, id string, input UserUpdateInput) (*domain.User, error) {
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.Role != nil {
		role, ok := domain.ParseRole(*input.Role)
		if !ok {
			return nil, apperrors.NewValidationError("unknown role", map[string]any{"role": *input.Role})
		}
		user.Role = role
	}
	if input.Enabled != nil {
		user.Enabled = *input.Enabled
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := auth.HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hash
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account.
func (s *AuthService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("user", nil)
		}
		return err
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
