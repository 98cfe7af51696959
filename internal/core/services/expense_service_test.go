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

type ExpenseServiceTestSuite struct {
	suite.Suite
	mockExpenseRepo *MockExpenseRepository
	mockProgramRepo *MockProgramRepository
	mockCurrency    *MockCurrencyService
	mockAudit       *MockAuditRecorder
	service         portssvc.ExpenseSvcFacade
}

func (s *ExpenseServiceTestSuite) SetupTest() {
	s.mockExpenseRepo = new(MockExpenseRepository)
	s.mockProgramRepo = new(MockProgramRepository)
	s.mockCurrency = new(MockCurrencyService)
	s.mockAudit = new(MockAuditRecorder)
	s.service = services.NewExpenseService(
		s.mockExpenseRepo,
		s.mockProgramRepo,
		s.mockCurrency,
		s.mockAudit,
	)
}

func pendingExpense() *domain.Expense {
	return &domain.Expense{
		ExpenseID:    "expense-1",
		ProgramID:    "program-1",
		Category:     "transport",
		Amount:       decimal.NewFromInt(50000),
		CurrencyCode: "UGX",
		SpentAt:      time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
		Status:       domain.ExpensePending,
	}
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_StartsPending() {
	s.mockProgramRepo.On("FindProgramByID", mock.Anything, "program-1").
		Return(&domain.Program{ProgramID: "program-1"}, nil)
	s.mockCurrency.On("GetCurrencyByCode", mock.Anything, "UGX").
		Return(&domain.Currency{CurrencyCode: "UGX"}, nil)
	s.mockExpenseRepo.On("SaveExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ExpensePending && e.CurrencyCode == "UGX"
	})).Return(nil)
	s.mockAudit.On("Record", mock.Anything, mock.AnythingOfType("services.AuditEntry")).
		Return(&domain.AuditRecord{ID: 1}, nil)

	expense, err := s.service.CreateExpense(context.Background(), dto.CreateExpenseRequest{
		ProgramID:    "program-1",
		Category:     "transport",
		Amount:       decimal.NewFromInt(50000),
		CurrencyCode: "ugx",
		SpentAt:      time.Date(2025, 2, 10, 0, 0, 0, 0, time.UTC),
	}, "user-1")

	s.Require().NoError(err)
	s.Equal(domain.ExpensePending, expense.Status)
	s.mockExpenseRepo.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_RejectsNonPositiveAmount() {
	_, err := s.service.CreateExpense(context.Background(), dto.CreateExpenseRequest{
		ProgramID:    "program-1",
		Amount:       decimal.Zero,
		CurrencyCode: "UGX",
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "SaveExpense")
}

func (s *ExpenseServiceTestSuite) TestCreateExpense_RequiresKnownCurrency() {
	s.mockProgramRepo.On("FindProgramByID", mock.Anything, "program-1").
		Return(&domain.Program{ProgramID: "program-1"}, nil)
	s.mockCurrency.On("GetCurrencyByCode", mock.Anything, "XXX").
		Return(nil, apperrors.ErrNotFound)

	_, err := s.service.CreateExpense(context.Background(), dto.CreateExpenseRequest{
		ProgramID:    "program-1",
		Amount:       decimal.NewFromInt(10),
		CurrencyCode: "xxx",
	}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *ExpenseServiceTestSuite) TestApproveExpense_MovesPendingToApproved() {
	s.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "expense-1").
		Return(pendingExpense(), nil)
	s.mockExpenseRepo.On("UpdateExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ExpenseApproved
	})).Return(nil)
	s.mockAudit.On("Record", mock.Anything, mock.MatchedBy(func(e portssvc.AuditEntry) bool {
		return e.Action == domain.ActionApproved && e.EntityID == "expense-1"
	})).Return(&domain.AuditRecord{ID: 1}, nil)

	expense, err := s.service.ApproveExpense(context.Background(), "expense-1", "approver-1")

	s.Require().NoError(err)
	s.Equal(domain.ExpenseApproved, expense.Status)
	s.mockAudit.AssertExpectations(s.T())
}

func (s *ExpenseServiceTestSuite) TestApproveExpense_RejectsAlreadySettled() {
	settled := pendingExpense()
	settled.Status = domain.ExpenseRejected
	s.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "expense-1").
		Return(settled, nil)

	_, err := s.service.ApproveExpense(context.Background(), "expense-1", "approver-1")

	s.ErrorIs(err, apperrors.ErrInvalidTransition)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "UpdateExpense")
}

func (s *ExpenseServiceTestSuite) TestRejectExpense_MovesPendingToRejected() {
	s.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "expense-1").
		Return(pendingExpense(), nil)
	s.mockExpenseRepo.On("UpdateExpense", mock.Anything, mock.MatchedBy(func(e domain.Expense) bool {
		return e.Status == domain.ExpenseRejected
	})).Return(nil)
	s.mockAudit.On("Record", mock.Anything, mock.AnythingOfType("services.AuditEntry")).
		Return(&domain.AuditRecord{ID: 1}, nil)

	expense, err := s.service.RejectExpense(context.Background(), "expense-1", "approver-1")

	s.Require().NoError(err)
	s.Equal(domain.ExpenseRejected, expense.Status)
}

func (s *ExpenseServiceTestSuite) TestUpdateExpense_PendingOnly() {
	approved := pendingExpense()
	approved.Status = domain.ExpenseApproved
	s.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "expense-1").
		Return(approved, nil)

	_, err := s.service.UpdateExpense(context.Background(), "expense-1", dto.UpdateExpenseRequest{}, "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "UpdateExpense")
}

func (s *ExpenseServiceTestSuite) TestDeleteExpense_PendingOnly() {
	approved := pendingExpense()
	approved.Status = domain.ExpenseApproved
	s.mockExpenseRepo.On("FindExpenseByID", mock.Anything, "expense-1").
		Return(approved, nil)

	err := s.service.DeleteExpense(context.Background(), "expense-1", "user-1")

	s.ErrorIs(err, apperrors.ErrValidation)
	s.mockExpenseRepo.AssertNotCalled(s.T(), "DeleteExpense")
}

func TestExpenseServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ExpenseServiceTestSuite))
}
