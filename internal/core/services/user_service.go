package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/utils"
	"github.com/google/uuid"
)

// userService implements portssvc.UserSvcFacade.
type userService struct {
	userRepo portsrepo.UserRepository
	audit    portssvc.AuditRecorder
}

// NewUserService creates the user service.
func NewUserService(userRepo portsrepo.UserRepository, audit portssvc.AuditRecorder) portssvc.UserSvcFacade {
	return &userService{userRepo: userRepo, audit: audit}
}

// CreateUser registers a local user with a bcrypt-hashed password.
func (s *userService) CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if existing, err := s.userRepo.FindUserByEmail(ctx, email); err == nil && existing != nil {
		return nil, fmt.Errorf("%w: email already registered", apperrors.ErrDuplicate)
	} else if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := domain.User{
		UserID:       uuid.NewString(),
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		AuthProvider: "local",
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     "", // self registration
			LastUpdatedAt: now,
		},
	}
	user.CreatedBy = user.UserID
	user.LastUpdatedBy = user.UserID

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, user.UserID, domain.ActionCreated, "user", user.UserID,
		nil, map[string]any{"email": user.Email, "name": user.Name})); err != nil {
		return nil, fmt.Errorf("user created but activity logging failed: %w", err)
	}
	return &user, nil
}

// GetUserByID returns one user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// GetUserByEmail returns the user with the given email.
func (s *userService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userRepo.FindUserByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// FindOrCreateOAuthUser resolves an externally authenticated identity to a
// local user, creating one on first sign-in.
func (s *userService) FindOrCreateOAuthUser(ctx context.Context, provider, providerUserID, email, name string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.FindUserByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	now := time.Now()
	created := domain.User{
		UserID:         uuid.NewString(),
		Name:           name,
		Email:          email,
		AuthProvider:   provider,
		ProviderUserID: providerUserID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	created.CreatedBy = created.UserID
	created.LastUpdatedBy = created.UserID

	if err := s.userRepo.SaveUser(ctx, created); err != nil {
		return nil, fmt.Errorf("failed to save oauth user: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, created.UserID, domain.ActionCreated, "user", created.UserID,
		nil, map[string]any{"email": created.Email, "provider": provider})); err != nil {
		return nil, fmt.Errorf("user created but activity logging failed: %w", err)
	}
	return &created, nil
}

// ListUsers returns users.
func (s *userService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	limit, offset = clampPage(limit, offset)
	return s.userRepo.ListUsers(ctx, limit, offset)
}

// UpdateUser applies profile edits.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	before := map[string]any{"name": user.Name}
	if req.Name != nil {
		user.Name = *req.Name
	}
	user.LastUpdatedAt = time.Now()
	user.LastUpdatedBy = updaterUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, updaterUserID, domain.ActionUpdated, "user", userID,
		before, map[string]any{"name": user.Name})); err != nil {
		return nil, fmt.Errorf("user updated but activity logging failed: %w", err)
	}
	return user, nil
}

// DeleteUser soft-deletes a user.
func (s *userService) DeleteUser(ctx context.Context, userID string, deleterUserID string) error {
	if err := s.userRepo.DeleteUser(ctx, userID, deleterUserID); err != nil {
		return err
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, deleterUserID, domain.ActionDeleted, "user", userID, nil, nil)); err != nil {
		return fmt.Errorf("user deleted but activity logging failed: %w", err)
	}
	return nil
}

// AuthenticateUser checks a password against the stored bcrypt hash.
// Lookup failures and bad passwords are indistinguishable to the caller.
func (s *userService) AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, err
	}
	if user.PasswordHash == "" || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// StoreRefreshToken persists the hash of a newly issued refresh token.
func (s *userService) StoreRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error {
	hash := utils.HashRefreshToken(refreshToken)
	return s.userRepo.UpdateRefreshToken(ctx, userID, &hash, &expiresAt)
}

// ClearRefreshToken invalidates the stored refresh token on logout.
func (s *userService) ClearRefreshToken(ctx context.Context, userID string) error {
	return s.userRepo.UpdateRefreshToken(ctx, userID, nil, nil)
}
