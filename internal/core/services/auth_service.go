package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/platform/config"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// tokenService implements portssvc.TokenSvcFacade for JWT access tokens and
// opaque refresh tokens.
type tokenService struct {
	cfg         *config.Config
	userService portssvc.UserSvcFacade
}

// NewTokenService creates the token service.
func NewTokenService(cfg *config.Config, userService portssvc.UserSvcFacade) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg, userService: userService}
}

// GenerateAccessToken issues a signed JWT for the user.
func (s *tokenService) GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	expiryTime := time.Now().Add(s.cfg.JWTExpiryDuration)
	accessToken, err := utils.GenerateJWT(user.UserID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign access token: %w", err)
	}
	return accessToken, expiryTime, nil
}

// GenerateRefreshToken issues an opaque random refresh token. Only its hash
// is stored, by the caller via UserSvcFacade.StoreRefreshToken.
func (s *tokenService) GenerateRefreshToken(ctx context.Context, user *domain.User) (string, time.Time, error) {
	raw, err := utils.GenerateSecureRandomString(32)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return raw, time.Now().Add(s.cfg.RefreshTokenExpiryDuration), nil
}

// ValidateRefreshToken checks a presented refresh token against the user's
// stored hash and expiry.
func (s *tokenService) ValidateRefreshToken(ctx context.Context, userID, refreshToken string) (*domain.User, error) {
	user, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to load user for refresh validation: %w", err)
	}
	if user.RefreshTokenHash == "" || user.RefreshTokenExpiryTime == nil {
		return nil, apperrors.ErrUnauthorized
	}
	if time.Now().After(*user.RefreshTokenExpiryTime) {
		return nil, apperrors.ErrRefreshTokenExpired
	}
	if !utils.CompareRefreshTokenHash(refreshToken, user.RefreshTokenHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return user, nil
}

// googleOAuthService implements portssvc.GoogleOAuthSvcFacade.
type googleOAuthService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthService creates the Google sign-in service.
func NewGoogleOAuthService(cfg *config.Config) portssvc.GoogleOAuthSvcFacade {
	return &googleOAuthService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// ExchangeCode trades the authorization code for tokens and validates the ID
// token against our client ID.
func (s *googleOAuthService) ExchangeCode(ctx context.Context, code string) (string, string, string, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: code exchange failed: %v", apperrors.ErrUnauthorized, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return "", "", "", fmt.Errorf("%w: no id_token in exchange response", apperrors.ErrUnauthorized)
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, s.cfg.GoogleClientID)
	if err != nil {
		return "", "", "", fmt.Errorf("%w: id token validation failed: %v", apperrors.ErrUnauthorized, err)
	}

	email, _ := payload.Claims["email"].(string)
	name, _ := payload.Claims["name"].(string)
	if email == "" {
		return "", "", "", fmt.Errorf("%w: id token carries no email", apperrors.ErrUnauthorized)
	}
	return payload.Subject, email, name, nil
}
