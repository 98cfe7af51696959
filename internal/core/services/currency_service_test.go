package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

type CurrencyServiceTestSuite struct {
	suite.Suite
	mockRepo  *MockCurrencyRepository
	mockAudit *MockAuditRecorder
	service   portssvc.CurrencySvcFacade
}

func (s *CurrencyServiceTestSuite) SetupTest() {
	s.mockRepo = new(MockCurrencyRepository)
	s.mockAudit = new(MockAuditRecorder)
	s.service = services.NewCurrencyService(s.mockRepo, s.mockAudit)
}

func (s *CurrencyServiceTestSuite) expectAuditRecord() {
	s.mockAudit.On("Record", mock.Anything, mock.AnythingOfType("services.AuditEntry")).
		Return(&domain.AuditRecord{ID: 1}, nil)
}

func (s *CurrencyServiceTestSuite) TestCreateCurrency_UppercasesCode() {
	s.mockRepo.On("SaveCurrency", mock.Anything, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "UGX" && !c.IsBase
	})).Return(nil)
	s.expectAuditRecord()

	currency, err := s.service.CreateCurrency(context.Background(), dto.CreateCurrencyRequest{
		CurrencyCode:  "ugx",
		Symbol:        "USh",
		Name:          "Ugandan Shilling",
		DecimalPlaces: 0,
	}, "user-1")

	s.Require().NoError(err)
	s.Equal("UGX", currency.CurrencyCode)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *CurrencyServiceTestSuite) TestCreateCurrency_BaseFlagPromotesAtomically() {
	s.mockRepo.On("SaveCurrency", mock.Anything, mock.AnythingOfType("domain.Currency")).Return(nil)
	s.mockRepo.On("SetBaseCurrency", mock.Anything, "USD", "user-1").Return(nil)
	s.expectAuditRecord()

	currency, err := s.service.CreateCurrency(context.Background(), dto.CreateCurrencyRequest{
		CurrencyCode:  "USD",
		Symbol:        "$",
		Name:          "US Dollar",
		DecimalPlaces: 2,
		IsBase:        true,
	}, "user-1")

	s.Require().NoError(err)
	s.True(currency.IsBase)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *CurrencyServiceTestSuite) TestCreateCurrency_RejectsMalformedCode() {
	_, err := s.service.CreateCurrency(context.Background(), dto.CreateCurrencyRequest{
		CurrencyCode: "12",
		Symbol:       "?",
		Name:         "Nonsense",
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockRepo.AssertNotCalled(s.T(), "SaveCurrency")
}

func (s *CurrencyServiceTestSuite) TestGetCurrencyByCode_NormalizesCase() {
	s.mockRepo.On("FindCurrencyByCode", mock.Anything, "EUR").
		Return(&domain.Currency{CurrencyCode: "EUR"}, nil)

	currency, err := s.service.GetCurrencyByCode(context.Background(), "eur")

	s.Require().NoError(err)
	s.Equal("EUR", currency.CurrencyCode)
}

func (s *CurrencyServiceTestSuite) TestSetBaseCurrency_NoOpWhenAlreadyBase() {
	s.mockRepo.On("FindBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyCode: "UGX", IsBase: true}, nil)

	err := s.service.SetBaseCurrency(context.Background(), "ugx", "user-1")

	s.Require().NoError(err)
	s.mockRepo.AssertNotCalled(s.T(), "SetBaseCurrency")
	s.mockAudit.AssertNotCalled(s.T(), "Record")
}

func (s *CurrencyServiceTestSuite) TestSetBaseCurrency_SwitchesBase() {
	s.mockRepo.On("FindBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyCode: "UGX", IsBase: true}, nil)
	s.mockRepo.On("SetBaseCurrency", mock.Anything, "USD", "user-1").Return(nil)
	s.mockAudit.On("Record", mock.Anything, mock.MatchedBy(func(e portssvc.AuditEntry) bool {
		return e.Action == domain.ActionUpdated && e.EntityID == "USD"
	})).Return(&domain.AuditRecord{ID: 1}, nil)

	err := s.service.SetBaseCurrency(context.Background(), "usd", "user-1")

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
	s.mockAudit.AssertExpectations(s.T())
}

func (s *CurrencyServiceTestSuite) TestSetBaseCurrency_SucceedsWhenNoBaseExists() {
	s.mockRepo.On("FindBaseCurrency", mock.Anything).
		Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("SetBaseCurrency", mock.Anything, "UGX", "user-1").Return(nil)
	s.mockAudit.On("Record", mock.Anything, mock.MatchedBy(func(e portssvc.AuditEntry) bool {
		return e.Action == domain.ActionUpdated && e.EntityID == "UGX" && e.Before == nil
	})).Return(&domain.AuditRecord{ID: 1}, nil)

	err := s.service.SetBaseCurrency(context.Background(), "ugx", "user-1")

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
	s.mockAudit.AssertExpectations(s.T())
}

func (s *CurrencyServiceTestSuite) TestEnsureBaseCurrency_NoOpWhenBaseExists() {
	s.mockRepo.On("FindBaseCurrency", mock.Anything).
		Return(&domain.Currency{CurrencyCode: "USD", IsBase: true}, nil)

	err := s.service.EnsureBaseCurrency(context.Background(), "UGX")

	s.Require().NoError(err)
	s.mockRepo.AssertNotCalled(s.T(), "SaveCurrency")
	s.mockRepo.AssertNotCalled(s.T(), "SetBaseCurrency")
}

func (s *CurrencyServiceTestSuite) TestEnsureBaseCurrency_SeedsUnknownCurrency() {
	s.mockRepo.On("FindBaseCurrency", mock.Anything).
		Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("FindCurrencyByCode", mock.Anything, "UGX").
		Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("SaveCurrency", mock.Anything, mock.MatchedBy(func(c domain.Currency) bool {
		return c.CurrencyCode == "UGX" && c.DecimalPlaces == 2 && !c.IsBase
	})).Return(nil)
	s.mockRepo.On("SetBaseCurrency", mock.Anything, "UGX", "").Return(nil)
	s.expectAuditRecord()

	err := s.service.EnsureBaseCurrency(context.Background(), "ugx")

	s.Require().NoError(err)
	s.mockRepo.AssertExpectations(s.T())
}

func (s *CurrencyServiceTestSuite) TestEnsureBaseCurrency_PromotesExistingCurrency() {
	s.mockRepo.On("FindBaseCurrency", mock.Anything).
		Return(nil, apperrors.ErrNotFound)
	s.mockRepo.On("FindCurrencyByCode", mock.Anything, "UGX").
		Return(&domain.Currency{CurrencyCode: "UGX", DecimalPlaces: 0}, nil)
	s.mockRepo.On("SetBaseCurrency", mock.Anything, "UGX", "").Return(nil)
	s.expectAuditRecord()

	err := s.service.EnsureBaseCurrency(context.Background(), "UGX")

	s.Require().NoError(err)
	s.mockRepo.AssertNotCalled(s.T(), "SaveCurrency")
	s.mockRepo.AssertExpectations(s.T())
}

func TestCurrencyServiceTestSuite(t *testing.T) {
	suite.Run(t, new(CurrencyServiceTestSuite))
}
