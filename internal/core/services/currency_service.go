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
)

// currencyService implements portssvc.CurrencySvcFacade.
type currencyService struct {
	currencyRepo portsrepo.CurrencyRepository
	audit        portssvc.AuditRecorder
}

// NewCurrencyService creates the currency service.
func NewCurrencyService(currencyRepo portsrepo.CurrencyRepository, audit portssvc.AuditRecorder) portssvc.CurrencySvcFacade {
	return &currencyService{currencyRepo: currencyRepo, audit: audit}
}

// CreateCurrency adds a currency. When the new currency is flagged as base it
// takes over from the current base atomically.
func (s *currencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}

	now := time.Now()
	currency := domain.Currency{
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		Symbol:        req.Symbol,
		Name:          req.Name,
		DecimalPlaces: req.DecimalPlaces,
		IsBase:        false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.currencyRepo.SaveCurrency(ctx, currency); err != nil {
		return nil, fmt.Errorf("failed to create currency: %w", err)
	}
	if req.IsBase {
		if err := s.currencyRepo.SetBaseCurrency(ctx, currency.CurrencyCode, creatorUserID); err != nil {
			return nil, fmt.Errorf("failed to set base currency: %w", err)
		}
		currency.IsBase = true
	}

	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, creatorUserID, domain.ActionCreated, "currency", currency.CurrencyCode,
		nil, map[string]any{"name": currency.Name, "decimalPlaces": currency.DecimalPlaces, "isBase": currency.IsBase})); err != nil {
		return nil, fmt.Errorf("currency created but activity logging failed: %w", err)
	}
	return &currency, nil
}

// GetCurrencyByCode returns one currency.
func (s *currencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	code = strings.ToUpper(code)
	if len(code) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	return s.currencyRepo.FindCurrencyByCode(ctx, code)
}

// GetBaseCurrency returns the single base currency.
func (s *currencyService) GetBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	return s.currencyRepo.FindBaseCurrency(ctx)
}

// SetBaseCurrency promotes code to base, demoting the previous base in the
// same transaction. A fresh install with no base yet has nothing to demote.
func (s *currencyService) SetBaseCurrency(ctx context.Context, code string, updaterUserID string) error {
	code = strings.ToUpper(code)
	prev, err := s.currencyRepo.FindBaseCurrency(ctx)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if prev != nil && prev.CurrencyCode == code {
		return nil
	}
	if err := s.currencyRepo.SetBaseCurrency(ctx, code, updaterUserID); err != nil {
		return err
	}
	var before map[string]any
	if prev != nil {
		before = map[string]any{"base": prev.CurrencyCode}
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, updaterUserID, domain.ActionUpdated, "currency", code,
		before, map[string]any{"base": code})); err != nil {
		return fmt.Errorf("base currency changed but activity logging failed: %w", err)
	}
	return nil
}

// EnsureBaseCurrency seeds the configured base currency on boot. When a base
// already exists it is left untouched, even if it differs from code. An
// unknown code is created as a minimal 2-decimal currency before promotion.
func (s *currencyService) EnsureBaseCurrency(ctx context.Context, code string) error {
	code = strings.ToUpper(code)
	if len(code) != 3 {
		return fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if _, err := s.currencyRepo.FindBaseCurrency(ctx); err == nil {
		return nil
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return err
	}
	if _, err := s.currencyRepo.FindCurrencyByCode(ctx, code); errors.Is(err, apperrors.ErrNotFound) {
		now := time.Now()
		seed := domain.Currency{
			CurrencyCode:  code,
			Symbol:        code,
			Name:          code,
			DecimalPlaces: 2,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				LastUpdatedAt: now,
			},
		}
		if err := s.currencyRepo.SaveCurrency(ctx, seed); err != nil {
			return fmt.Errorf("failed to seed base currency: %w", err)
		}
	} else if err != nil {
		return err
	}
	return s.SetBaseCurrency(ctx, code, "")
}

// ListCurrencies returns all currencies.
func (s *currencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	return s.currencyRepo.ListCurrencies(ctx)
}
