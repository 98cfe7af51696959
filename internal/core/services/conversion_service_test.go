package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/services"
)

// MockExchangeRateRepository is a mock of portsrepo.ExchangeRateRepository.
type MockExchangeRateRepository struct {
	mock.Mock
}

func (m *MockExchangeRateRepository) SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error {
	args := m.Called(ctx, rate)
	return args.Error(0)
}

func (m *MockExchangeRateRepository) FindEffectiveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error) {
	args := m.Called(ctx, fromCurrencyCode, toCurrencyCode, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExchangeRate), args.Error(1)
}

func (m *MockExchangeRateRepository) ListExchangeRates(ctx context.Context, fromCurrency, toCurrency *string, effectiveDate *time.Time, page, pageSize int) ([]domain.ExchangeRate, int, error) {
	args := m.Called(ctx, fromCurrency, toCurrency, effectiveDate, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.ExchangeRate), args.Int(1), args.Error(2)
}

// MockCurrencyRepository is a mock of portsrepo.CurrencyRepository.
type MockCurrencyRepository struct {
	mock.Mock
}

func (m *MockCurrencyRepository) SaveCurrency(ctx context.Context, currency domain.Currency) error {
	args := m.Called(ctx, currency)
	return args.Error(0)
}

func (m *MockCurrencyRepository) FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error) {
	args := m.Called(ctx, currencyCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) FindBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyRepository) SetBaseCurrency(ctx context.Context, currencyCode string, updaterUserID string) error {
	args := m.Called(ctx, currencyCode, updaterUserID)
	return args.Error(0)
}

func (m *MockCurrencyRepository) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

type ConversionServiceTestSuite struct {
	suite.Suite
	mockRateRepo     *MockExchangeRateRepository
	mockCurrencyRepo *MockCurrencyRepository
	service          portssvc.ConversionSvcFacade
	asOf             time.Time
}

func (s *ConversionServiceTestSuite) SetupTest() {
	s.mockRateRepo = new(MockExchangeRateRepository)
	s.mockCurrencyRepo = new(MockCurrencyRepository)
	s.service = services.NewConversionService(s.mockRateRepo, s.mockCurrencyRepo)
	s.asOf = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
}

func (s *ConversionServiceTestSuite) expectRate(from, to string, rate string) {
	s.mockRateRepo.On("FindEffectiveRate", mock.Anything, from, to, s.asOf).
		Return(&domain.ExchangeRate{
			FromCurrencyCode: from,
			ToCurrencyCode:   to,
			Rate:             decimal.RequireFromString(rate),
			DateEffective:    s.asOf.AddDate(0, 0, -10),
		}, nil)
}

func (s *ConversionServiceTestSuite) expectCurrency(code string, decimalPlaces int) {
	s.mockCurrencyRepo.On("FindCurrencyByCode", mock.Anything, code).
		Return(&domain.Currency{CurrencyCode: code, DecimalPlaces: decimalPlaces}, nil)
}

func (s *ConversionServiceTestSuite) TestConvert_SameCurrencySkipsRateLookup() {
	amount := domain.MonetaryAmount{Amount: decimal.RequireFromString("123.45"), CurrencyCode: "ugx"}

	result, err := s.service.Convert(context.Background(), amount, "UGX", s.asOf)

	s.Require().NoError(err)
	s.True(result.Equal(decimal.RequireFromString("123.45")))
	s.mockRateRepo.AssertNotCalled(s.T(), "FindEffectiveRate")
	s.mockCurrencyRepo.AssertNotCalled(s.T(), "FindCurrencyByCode")
}

func (s *ConversionServiceTestSuite) TestConvert_RoundsToTargetDecimalPlaces() {
	s.expectCurrency("UGX", 0)
	s.expectRate("USD", "UGX", "3700.5")
	amount := domain.MonetaryAmount{Amount: decimal.RequireFromString("10.01"), CurrencyCode: "USD"}

	result, err := s.service.Convert(context.Background(), amount, "UGX", s.asOf)

	s.Require().NoError(err)
	// 10.01 * 3700.5 = 37042.005, rounded to zero decimals
	s.True(result.Equal(decimal.RequireFromString("37042")), "got %s", result)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ConversionServiceTestSuite) TestConvert_RoundsHalfUp() {
	s.expectCurrency("EUR", 2)
	s.expectRate("USD", "EUR", "0.5")
	amount := domain.MonetaryAmount{Amount: decimal.RequireFromString("10.01"), CurrencyCode: "USD"}

	result, err := s.service.Convert(context.Background(), amount, "EUR", s.asOf)

	s.Require().NoError(err)
	// 10.01 * 0.5 = 5.005, half-up to 5.01
	s.True(result.Equal(decimal.RequireFromString("5.01")), "got %s", result)
}

func (s *ConversionServiceTestSuite) TestConvert_RoundTripWithinOneSmallestUnit() {
	// With reciprocal-consistent rates the only error is rounding, so a
	// there-and-back conversion may drift by at most one unit of the smallest
	// denomination of the original currency.
	s.expectCurrency("EUR", 2)
	s.expectCurrency("USD", 2)
	s.expectRate("USD", "EUR", "0.5")
	s.expectRate("EUR", "USD", "2")
	smallestUnit := decimal.RequireFromString("0.01")

	for _, raw := range []string{"0.01", "10.01", "99.99", "123.45"} {
		original := decimal.RequireFromString(raw)

		converted, err := s.service.Convert(context.Background(),
			domain.MonetaryAmount{Amount: original, CurrencyCode: "USD"}, "EUR", s.asOf)
		s.Require().NoError(err)
		back, err := s.service.Convert(context.Background(),
			domain.MonetaryAmount{Amount: converted, CurrencyCode: "EUR"}, "USD", s.asOf)
		s.Require().NoError(err)

		drift := back.Sub(original).Abs()
		s.True(drift.LessThanOrEqual(smallestUnit),
			"round trip of %s drifted by %s", raw, drift)
	}
}

func (s *ConversionServiceTestSuite) TestConvert_MissingRateIsAnError() {
	s.expectCurrency("KES", 2)
	s.mockRateRepo.On("FindEffectiveRate", mock.Anything, "USD", "KES", s.asOf).
		Return(nil, fmt.Errorf("%w: USD to KES", apperrors.ErrRateNotFound))
	amount := domain.MonetaryAmount{Amount: decimal.NewFromInt(5), CurrencyCode: "USD"}

	_, err := s.service.Convert(context.Background(), amount, "KES", s.asOf)

	s.ErrorIs(err, apperrors.ErrRateNotFound)
}

func (s *ConversionServiceTestSuite) TestConvert_RejectsNegativeAmount() {
	amount := domain.MonetaryAmount{Amount: decimal.NewFromInt(-1), CurrencyCode: "USD"}

	_, err := s.service.Convert(context.Background(), amount, "UGX", s.asOf)

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRateRepo.AssertNotCalled(s.T(), "FindEffectiveRate")
}

func (s *ConversionServiceTestSuite) TestConvert_RejectsMalformedCurrencyCode() {
	amount := domain.MonetaryAmount{Amount: decimal.NewFromInt(1), CurrencyCode: "US"}

	_, err := s.service.Convert(context.Background(), amount, "UGX", s.asOf)

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ConversionServiceTestSuite) TestAggregate_SumsMixedCurrencies() {
	s.expectCurrency("UGX", 0)
	s.expectRate("USD", "UGX", "3700")
	s.expectRate("EUR", "UGX", "4000")
	amounts := []domain.MonetaryAmount{
		{Amount: decimal.NewFromInt(500000), CurrencyCode: "UGX"},
		{Amount: decimal.NewFromInt(100), CurrencyCode: "USD"},
		{Amount: decimal.NewFromInt(10), CurrencyCode: "EUR"},
	}

	total, err := s.service.Aggregate(context.Background(), amounts, "UGX", s.asOf)

	s.Require().NoError(err)
	// 500000 + 370000 + 40000
	s.True(total.Equal(decimal.NewFromInt(910000)), "got %s", total)
}

func (s *ConversionServiceTestSuite) TestAggregate_OrderIndependent() {
	s.expectCurrency("UGX", 0)
	s.expectRate("USD", "UGX", "3712.37")
	amounts := []domain.MonetaryAmount{
		{Amount: decimal.RequireFromString("0.07"), CurrencyCode: "USD"},
		{Amount: decimal.NewFromInt(41), CurrencyCode: "UGX"},
		{Amount: decimal.RequireFromString("1.13"), CurrencyCode: "USD"},
	}
	reversed := []domain.MonetaryAmount{amounts[2], amounts[1], amounts[0]}

	forward, err := s.service.Aggregate(context.Background(), amounts, "UGX", s.asOf)
	s.Require().NoError(err)
	backward, err := s.service.Aggregate(context.Background(), reversed, "UGX", s.asOf)
	s.Require().NoError(err)

	s.True(forward.Equal(backward))
}

func (s *ConversionServiceTestSuite) TestAggregate_EmptyInputIsZero() {
	total, err := s.service.Aggregate(context.Background(), nil, "UGX", s.asOf)

	s.Require().NoError(err)
	s.True(total.IsZero())
}

func (s *ConversionServiceTestSuite) TestAggregate_PropagatesMissingRate() {
	s.expectCurrency("UGX", 0)
	s.mockRateRepo.On("FindEffectiveRate", mock.Anything, "JPY", "UGX", s.asOf).
		Return(nil, fmt.Errorf("%w: JPY to UGX", apperrors.ErrRateNotFound))
	amounts := []domain.MonetaryAmount{
		{Amount: decimal.NewFromInt(100), CurrencyCode: "JPY"},
	}

	_, err := s.service.Aggregate(context.Background(), amounts, "UGX", s.asOf)

	s.ErrorIs(err, apperrors.ErrRateNotFound)
}

func TestConversionServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ConversionServiceTestSuite))
}
