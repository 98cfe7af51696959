package services

import (
	"context"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

// UserSvcFacade manages user accounts.
type UserSvcFacade interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FindOrCreateOAuthUser(ctx context.Context, provider, providerUserID, email, name string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, updaterUserID string) (*domain.User, error)
	DeleteUser(ctx context.Context, userID string, deleterUserID string) error
	AuthenticateUser(ctx context.Context, email, password string) (*domain.User, error)
	StoreRefreshToken(ctx context.Context, userID, refreshToken string, expiresAt time.Time) error
	ClearRefreshToken(ctx context.Context, userID string) error
}

// TokenSvcFacade issues and validates access and refresh tokens.
type TokenSvcFacade interface {
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error)
	ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error)
}

// GoogleOAuthSvcFacade exchanges Google authorization codes for verified
// identities.
type GoogleOAuthSvcFacade interface {
	// ExchangeCode trades an authorization code for tokens and validates the
	// ID token, returning the Google subject, email and display name.
	ExchangeCode(ctx context.Context, code string) (subject, email, name string, err error)
}
