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

// expenseService implements portssvc.ExpenseSvcFacade.
type expenseService struct {
	expenseRepo portsrepo.ExpenseRepository
	programRepo portsrepo.ProgramRepository
	currency    portssvc.CurrencySvcFacade
	audit       portssvc.AuditRecorder
}

// NewExpenseService creates the expense service.
func NewExpenseService(
	expenseRepo portsrepo.ExpenseRepository,
	programRepo portsrepo.ProgramRepository,
	currency portssvc.CurrencySvcFacade,
	audit portssvc.AuditRecorder,
) portssvc.ExpenseSvcFacade {
	return &expenseService{
		expenseRepo: expenseRepo,
		programRepo: programRepo,
		currency:    currency,
		audit:       audit,
	}
}

// CreateExpense records a pending expense against a program.
func (s *expenseService) CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.programRepo.FindProgramByID(ctx, req.ProgramID); err != nil {
		return nil, fmt.Errorf("failed to validate program %s: %w", req.ProgramID, err)
	}
	code := strings.ToUpper(req.CurrencyCode)
	if _, err := s.currency.GetCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
	}

	now := time.Now()
	expense := domain.Expense{
		ExpenseID:    uuid.NewString(),
		ProgramID:    req.ProgramID,
		Category:     req.Category,
		Description:  req.Description,
		Amount:       req.Amount,
		CurrencyCode: code,
		SpentAt:      req.SpentAt,
		Status:       domain.ExpensePending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.expenseRepo.SaveExpense(ctx, expense); err != nil {
		return nil, fmt.Errorf("failed to save expense: %w", err)
	}

	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, creatorUserID, domain.ActionCreated, "expense", expense.ExpenseID,
		nil, expenseSnapshot(expense))); err != nil {
		return nil, fmt.Errorf("expense created but activity logging failed: %w", err)
	}
	return &expense, nil
}

// GetExpenseByID returns one expense.
func (s *expenseService) GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	return s.expenseRepo.FindExpenseByID(ctx, expenseID)
}

// ListExpensesByProgram returns a program's expenses with the total count.
func (s *expenseService) ListExpensesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Expense, int, error) {
	limit, offset = clampPage(limit, offset)
	return s.expenseRepo.ListExpensesByProgram(ctx, programID, limit, offset)
}

// UpdateExpense edits a pending expense. Approved and rejected expenses are
// immutable.
func (s *expenseService) UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, updaterUserID string) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.ExpensePending {
		return nil, fmt.Errorf("%w: only pending expenses can be edited", apperrors.ErrValidation)
	}

	before := expenseSnapshot(*expense)
	if req.Category != nil {
		expense.Category = *req.Category
	}
	if req.Description != nil {
		expense.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		expense.Amount = *req.Amount
	}
	if req.SpentAt != nil {
		expense.SpentAt = *req.SpentAt
	}
	expense.LastUpdatedAt = time.Now()
	expense.LastUpdatedBy = updaterUserID

	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, updaterUserID, domain.ActionUpdated, "expense", expense.ExpenseID,
		before, expenseSnapshot(*expense))); err != nil {
		return nil, fmt.Errorf("expense updated but activity logging failed: %w", err)
	}
	return expense, nil
}

// ApproveExpense moves a pending expense to APPROVED, making it count
// towards budget utilization.
func (s *expenseService) ApproveExpense(ctx context.Context, expenseID string, approverUserID string) (*domain.Expense, error) {
	return s.settleExpense(ctx, expenseID, approverUserID, domain.ExpenseApproved, domain.ActionApproved)
}

// RejectExpense moves a pending expense to REJECTED.
func (s *expenseService) RejectExpense(ctx context.Context, expenseID string, approverUserID string) (*domain.Expense, error) {
	return s.settleExpense(ctx, expenseID, approverUserID, domain.ExpenseRejected, domain.ActionUpdated)
}

func (s *expenseService) settleExpense(ctx context.Context, expenseID, approverUserID string, status domain.ExpenseStatus, action domain.AuditAction) (*domain.Expense, error) {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.Status != domain.ExpensePending {
		return nil, fmt.Errorf("%w: expense is already %s", apperrors.ErrInvalidTransition, expense.Status)
	}

	prev := expense.Status
	expense.Status = status
	expense.LastUpdatedAt = time.Now()
	expense.LastUpdatedBy = approverUserID
	if err := s.expenseRepo.UpdateExpense(ctx, *expense); err != nil {
		return nil, fmt.Errorf("failed to update expense status: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, approverUserID, action, "expense", expense.ExpenseID,
		map[string]any{"status": string(prev)}, map[string]any{"status": string(status)})); err != nil {
		return nil, fmt.Errorf("expense status changed but activity logging failed: %w", err)
	}
	return expense, nil
}

// DeleteExpense removes a pending expense.
func (s *expenseService) DeleteExpense(ctx context.Context, expenseID string, deleterUserID string) error {
	expense, err := s.expenseRepo.FindExpenseByID(ctx, expenseID)
	if err != nil {
		return err
	}
	if expense.Status != domain.ExpensePending {
		return fmt.Errorf("%w: only pending expenses can be deleted", apperrors.ErrValidation)
	}
	if err := s.expenseRepo.DeleteExpense(ctx, expenseID); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, deleterUserID, domain.ActionDeleted, "expense", expenseID,
		expenseSnapshot(*expense), nil)); err != nil {
		return fmt.Errorf("expense deleted but activity logging failed: %w", err)
	}
	return nil
}

func expenseSnapshot(e domain.Expense) map[string]any {
	return map[string]any{
		"programID": e.ProgramID,
		"category":  e.Category,
		"amount":    e.Amount.String(),
		"currency":  e.CurrencyCode,
		"spentAt":   e.SpentAt,
		"status":    string(e.Status),
	}
}
