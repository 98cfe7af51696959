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
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// exchangeRateService implements portssvc.ExchangeRateSvcFacade.
type exchangeRateService struct {
	rateRepo portsrepo.ExchangeRateRepository
	currency portssvc.CurrencySvcFacade
	audit    portssvc.AuditRecorder
}

// NewExchangeRateService creates the exchange rate service.
func NewExchangeRateService(rateRepo portsrepo.ExchangeRateRepository, currency portssvc.CurrencySvcFacade, audit portssvc.AuditRecorder) portssvc.ExchangeRateSvcFacade {
	return &exchangeRateService{rateRepo: rateRepo, currency: currency, audit: audit}
}

// CreateExchangeRate records a rate for a currency pair effective from a
// date. An existing rate for the same pair and date is replaced.
func (s *exchangeRateService) CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error) {
	if req.Rate.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: exchange rate must be positive", apperrors.ErrValidation)
	}
	from := strings.ToUpper(req.FromCurrencyCode)
	to := strings.ToUpper(req.ToCurrencyCode)
	if from == to {
		return nil, fmt.Errorf("%w: from and to currency codes cannot be the same", apperrors.ErrValidation)
	}

	for _, code := range []string{from, to} {
		if _, err := s.currency.GetCurrencyByCode(ctx, code); err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
			}
			return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
		}
	}

	now := time.Now()
	rate := domain.ExchangeRate{
		ExchangeRateID:   uuid.NewString(),
		FromCurrencyCode: from,
		ToCurrencyCode:   to,
		Rate:             req.Rate,
		DateEffective:    req.DateEffective,
		Source:           req.Source,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.rateRepo.SaveExchangeRate(ctx, rate); err != nil {
		return nil, fmt.Errorf("failed to save exchange rate: %w", err)
	}

	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, creatorUserID, domain.ActionCreated, "exchange_rate", rate.ExchangeRateID,
		nil, map[string]any{"from": from, "to": to, "rate": rate.Rate.String(), "dateEffective": rate.DateEffective})); err != nil {
		return nil, fmt.Errorf("exchange rate saved but activity logging failed: %w", err)
	}
	return &rate, nil
}

// GetEffectiveRate returns the most recent rate for the pair effective on or
// before asOf.
func (s *exchangeRateService) GetEffectiveRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	fromCode = strings.ToUpper(fromCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return nil, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	return s.rateRepo.FindEffectiveRate(ctx, fromCode, toCode, asOf)
}

// ListExchangeRates returns rates matching the filters.
func (s *exchangeRateService) ListExchangeRates(ctx context.Context, req dto.ListExchangeRatesRequest) ([]domain.ExchangeRate, int, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	return s.rateRepo.ListExchangeRates(ctx, req.FromCurrency, req.ToCurrency, req.EffectiveDate, page, pageSize)
}
