package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// conversionService implements portssvc.ConversionSvcFacade. It is the only
// code path that touches exchange rates for arithmetic, so every caller gets
// the same rounding and the same missing-rate behavior.
type conversionService struct {
	rateRepo     portsrepo.ExchangeRateRepository
	currencyRepo portsrepo.CurrencyRepository
}

// NewConversionService creates the currency conversion service.
func NewConversionService(rateRepo portsrepo.ExchangeRateRepository, currencyRepo portsrepo.CurrencyRepository) portssvc.ConversionSvcFacade {
	return &conversionService{rateRepo: rateRepo, currencyRepo: currencyRepo}
}

// Convert expresses amount in toCode, rounded half-up to the target
// currency's decimal places. Same-currency conversion returns the value
// unchanged without touching the rate table. A missing rate surfaces as
// apperrors.ErrRateNotFound; there is no fallback rate.
func (s *conversionService) Convert(ctx context.Context, amount domain.MonetaryAmount, toCode string, asOf time.Time) (decimal.Decimal, error) {
	fromCode := strings.ToUpper(amount.CurrencyCode)
	toCode = strings.ToUpper(toCode)
	if len(fromCode) != 3 || len(toCode) != 3 {
		return decimal.Zero, fmt.Errorf("%w: currency codes must be 3 letters", apperrors.ErrValidation)
	}
	if amount.Amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amounts must not be negative", apperrors.ErrValidation)
	}

	if fromCode == toCode {
		return amount.Amount, nil
	}

	target, err := s.currencyRepo.FindCurrencyByCode(ctx, toCode)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to load target currency %s: %w", toCode, err)
	}

	rate, err := s.rateRepo.FindEffectiveRate(ctx, fromCode, toCode, asOf)
	if err != nil {
		return decimal.Zero, err
	}

	return amount.Amount.Mul(rate.Rate).Round(int32(target.DecimalPlaces)), nil
}

// Aggregate converts each amount to toCode and sums. Decimal arithmetic
// keeps the total independent of input order.
func (s *conversionService) Aggregate(ctx context.Context, amounts []domain.MonetaryAmount, toCode string, asOf time.Time) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range amounts {
		converted, err := s.Convert(ctx, a, toCode, asOf)
		if err != nil {
			return decimal.Zero, fmt.Errorf("failed to aggregate %s amount: %w", a.CurrencyCode, err)
		}
		total = total.Add(converted)
	}
	return total, nil
}
