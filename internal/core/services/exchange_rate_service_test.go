package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

// MockCurrencyService is a mock of portssvc.CurrencySvcFacade.
type MockCurrencyService struct {
	mock.Mock
}

func (m *MockCurrencyService) CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) GetBaseCurrency(ctx context.Context) (*domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Currency), args.Error(1)
}

func (m *MockCurrencyService) SetBaseCurrency(ctx context.Context, code string, updaterUserID string) error {
	args := m.Called(ctx, code, updaterUserID)
	return args.Error(0)
}

func (m *MockCurrencyService) EnsureBaseCurrency(ctx context.Context, code string) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockCurrencyService) ListCurrencies(ctx context.Context) ([]domain.Currency, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Currency), args.Error(1)
}

type ExchangeRateServiceTestSuite struct {
	suite.Suite
	mockRateRepo *MockExchangeRateRepository
	mockCurrency *MockCurrencyService
	mockAudit    *MockAuditRecorder
	service      portssvc.ExchangeRateSvcFacade
}

func (s *ExchangeRateServiceTestSuite) SetupTest() {
	s.mockRateRepo = new(MockExchangeRateRepository)
	s.mockCurrency = new(MockCurrencyService)
	s.mockAudit = new(MockAuditRecorder)
	s.service = services.NewExchangeRateService(s.mockRateRepo, s.mockCurrency, s.mockAudit)
}

func (s *ExchangeRateServiceTestSuite) createRequest() dto.CreateExchangeRateRequest {
	return dto.CreateExchangeRateRequest{
		FromCurrencyCode: "usd",
		ToCurrencyCode:   "ugx",
		Rate:             decimal.RequireFromString("3700.5"),
		DateEffective:    time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Source:           "central_bank",
	}
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_Success() {
	s.mockCurrency.On("GetCurrencyByCode", mock.Anything, "USD").
		Return(&domain.Currency{CurrencyCode: "USD"}, nil)
	s.mockCurrency.On("GetCurrencyByCode", mock.Anything, "UGX").
		Return(&domain.Currency{CurrencyCode: "UGX"}, nil)
	s.mockRateRepo.On("SaveExchangeRate", mock.Anything, mock.MatchedBy(func(r domain.ExchangeRate) bool {
		return r.FromCurrencyCode == "USD" && r.ToCurrencyCode == "UGX" && r.Rate.Equal(decimal.RequireFromString("3700.5"))
	})).Return(nil)
	s.mockAudit.On("Record", mock.Anything, mock.MatchedBy(func(e portssvc.AuditEntry) bool {
		return e.Action == domain.ActionCreated && e.EntityType == "exchange_rate"
	})).Return(&domain.AuditRecord{ID: 1}, nil)

	rate, err := s.service.CreateExchangeRate(context.Background(), s.createRequest(), "user-1")

	s.Require().NoError(err)
	s.Equal("USD", rate.FromCurrencyCode)
	s.Equal("UGX", rate.ToCurrencyCode)
	s.NotEmpty(rate.ExchangeRateID)
	s.mockRateRepo.AssertExpectations(s.T())
	s.mockAudit.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_RejectsNonPositiveRate() {
	req := s.createRequest()
	req.Rate = decimal.Zero

	_, err := s.service.CreateExchangeRate(context.Background(), req, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveExchangeRate")
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_RejectsIdenticalPair() {
	req := s.createRequest()
	req.ToCurrencyCode = "USD"

	_, err := s.service.CreateExchangeRate(context.Background(), req, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExchangeRateServiceTestSuite) TestCreateExchangeRate_RequiresKnownCurrencies() {
	s.mockCurrency.On("GetCurrencyByCode", mock.Anything, "USD").
		Return(nil, apperrors.ErrNotFound)

	_, err := s.service.CreateExchangeRate(context.Background(), s.createRequest(), "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRateRepo.AssertNotCalled(s.T(), "SaveExchangeRate")
}

func (s *ExchangeRateServiceTestSuite) TestGetEffectiveRate_NormalizesCodes() {
	asOf := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	expected := &domain.ExchangeRate{FromCurrencyCode: "USD", ToCurrencyCode: "UGX", Rate: decimal.NewFromInt(3700)}
	s.mockRateRepo.On("FindEffectiveRate", mock.Anything, "USD", "UGX", asOf).
		Return(expected, nil)

	rate, err := s.service.GetEffectiveRate(context.Background(), "usd", "ugx", asOf)

	s.Require().NoError(err)
	s.Equal(expected, rate)
	s.mockRateRepo.AssertExpectations(s.T())
}

func (s *ExchangeRateServiceTestSuite) TestGetEffectiveRate_RejectsMalformedCodes() {
	_, err := s.service.GetEffectiveRate(context.Background(), "US", "UGX", time.Now())

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRateRepo.AssertNotCalled(s.T(), "FindEffectiveRate")
}

func (s *ExchangeRateServiceTestSuite) TestListExchangeRates_DefaultsPagination() {
	from := "USD"
	s.mockRateRepo.On("ListExchangeRates", mock.Anything, &from, (*string)(nil), (*time.Time)(nil), 1, 50).
		Return([]domain.ExchangeRate{}, 0, nil)

	_, total, err := s.service.ListExchangeRates(context.Background(), dto.ListExchangeRatesRequest{FromCurrency: &from})

	s.Require().NoError(err)
	s.Zero(total)
	s.mockRateRepo.AssertExpectations(s.T())
}

func TestExchangeRateServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExchangeRateServiceTestSuite))
}
