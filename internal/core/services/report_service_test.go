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
)

type ReportServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockSaleRepo    *MockSaleRepository
	mockCurrency    *MockCurrencyService
	mockConversion  *MockConversionService
	service         portssvc.ReportSvcFacade
}

func (s *ReportServiceTestSuite) SetupTest() {
	s.mockExpenseRepo = new(MockExpenseRepository)
	s.mockSaleRepo = new(MockSaleRepository)
	s.mockCurrency = new(MockCurrencyService)
	s.mockConversion = new(MockConversionService)
	s.service = services.NewReportService(
		s.mockExpenseRepo,
		s.mockSaleRepo,
		s.mockCurrency,
		s.mockConversion,
	)
}

func (s *ReportServiceTestSuite) TestProgramSummary_ConvertsToBaseCurrency() {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	expenseSums := []domain.MonetaryAmount{
		{Amount: decimal.NewFromInt(100), CurrencyCode: "USD"},
	}
	saleSums := []domain.MonetaryAmount{
		{Amount: decimal.NewFromInt(800000), CurrencyCode: "UGX"},
	}

	s.mockCurrency.On("GetBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyCode: "UGX", IsBase: true}, nil)
	s.mockExpenseRepo.On("SumApprovedExpenses", mock.Anything, "program-1", from, to).
		Return(expenseSums, nil)
	s.mockSaleRepo.On("SumPaidSales", mock.Anything, "program-1", from, to).
		Return(saleSums, nil)
	s.mockConversion.On("Aggregate", mock.Anything, expenseSums, "UGX", to).
		Return(decimal.NewFromInt(370000), nil)
	s.mockConversion.On("Aggregate", mock.Anything, saleSums, "UGX", to).
		Return(decimal.NewFromInt(800000), nil)

	summary, err := s.service.ProgramSummary(context.Background(), "program-1", from, to)

	s.Require().NoError(err)
	s.Equal("UGX", summary.BaseCurrencyCode)
	s.True(summary.TotalExpenses.Equal(decimal.NewFromInt(370000)))
	s.True(summary.TotalIncome.Equal(decimal.NewFromInt(800000)))
	s.True(summary.Net.Equal(decimal.NewFromInt(430000)))
	s.mockConversion.AssertExpectations(s.T())
}

func (s *ReportServiceTestSuite) TestProgramSummary_PropagatesMissingRate() {
	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	s.mockCurrency.On("GetBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyCode: "UGX", IsBase: true}, nil)
	s.mockExpenseRepo.On("SumApprovedExpenses", mock.Anything, "program-1", from, to).
		Return([]domain.MonetaryAmount{{Amount: decimal.NewFromInt(9), CurrencyCode: "JPY"}}, nil)
	s.mockSaleRepo.On("SumPaidSales", mock.Anything, "program-1", from, to).
		Return([]domain.MonetaryAmount{}, nil)
	s.mockConversion.On("Aggregate", mock.Anything, mock.Anything, "UGX", to).
		Return(decimal.Zero, apperrors.ErrRateNotFound)

	_, err := s.service.ProgramSummary(context.Background(), "program-1", from, to)

	s.ErrorIs(err, apperrors.ErrRateNotFound)
}

func TestReportServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ReportServiceTestSuite))
}
