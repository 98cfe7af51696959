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
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
	"github.com/google/uuid"
)

// budgetService implements portssvc.BudgetSvcFacade.
type budgetService struct {
	budgetRepo  portsrepo.BudgetRepository
	programRepo portsrepo.ProgramRepository
	expenseRepo portsrepo.ExpenseRepository
	saleRepo    portsrepo.SaleRepository
	conversion  portssvc.ConversionSvcFacade
	audit       portssvc.AuditRecorder
}

// NewBudgetService creates the budget service.
func NewBudgetService(
	budgetRepo portsrepo.BudgetRepository,
	programRepo portsrepo.ProgramRepository,
	expenseRepo portsrepo.ExpenseRepository,
	saleRepo portsrepo.SaleRepository,
	conversion portssvc.ConversionSvcFacade,
	audit portssvc.AuditRecorder,
) portssvc.BudgetSvcFacade {
	return &budgetService{
		budgetRepo:  budgetRepo,
		programRepo: programRepo,
		expenseRepo: expenseRepo,
		saleRepo:    saleRepo,
		conversion:  conversion,
		audit:       audit,
	}
}

// CreateBudget creates a draft budget window for a program.
func (s *budgetService) CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.ProgramBudget, error) {
	if err := dto.Validate(req); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", apperrors.ErrValidation)
	}
	if req.IncomeBudget.IsNegative() || req.ExpenseBudget.IsNegative() {
		return nil, apperrors.ErrNegativeBudget
	}
	if _, err := s.programRepo.FindProgramByID(ctx, req.ProgramID); err != nil {
		return nil, fmt.Errorf("failed to validate program %s: %w", req.ProgramID, err)
	}

	now := time.Now()
	budget := domain.ProgramBudget{
		BudgetID:      uuid.NewString(),
		ProgramID:     req.ProgramID,
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
		IncomeBudget:  req.IncomeBudget,
		ExpenseBudget: req.ExpenseBudget,
		CurrencyCode:  strings.ToUpper(req.CurrencyCode),
		State:         domain.BudgetDraft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.budgetRepo.SaveBudget(ctx, budget); err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, creatorUserID, domain.ActionCreated, "program_budget", budget.BudgetID,
		nil, map[string]any{"programID": budget.ProgramID, "expenseBudget": budget.ExpenseBudget.String(), "incomeBudget": budget.IncomeBudget.String(), "currency": budget.CurrencyCode})); err != nil {
		return nil, fmt.Errorf("budget created but activity logging failed: %w", err)
	}
	return &budget, nil
}

// GetBudgetByID returns one budget window.
func (s *budgetService) GetBudgetByID(ctx context.Context, budgetID string) (*domain.ProgramBudget, error) {
	return s.budgetRepo.FindBudgetByID(ctx, budgetID)
}

// ListBudgetsByProgram returns all budget windows for a program.
func (s *budgetService) ListBudgetsByProgram(ctx context.Context, programID string) ([]domain.ProgramBudget, error) {
	return s.budgetRepo.ListBudgetsByProgram(ctx, programID)
}

// UpdateBudget edits a budget window. Only drafts are editable.
func (s *budgetService) UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, updaterUserID string) (*domain.ProgramBudget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if budget.State != domain.BudgetDraft {
		return nil, fmt.Errorf("%w: only draft budgets can be edited", apperrors.ErrValidation)
	}

	before := map[string]any{
		"startDate":     budget.StartDate,
		"endDate":       budget.EndDate,
		"incomeBudget":  budget.IncomeBudget.String(),
		"expenseBudget": budget.ExpenseBudget.String(),
	}
	if req.StartDate != nil {
		budget.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		budget.EndDate = *req.EndDate
	}
	if req.IncomeBudget != nil {
		budget.IncomeBudget = *req.IncomeBudget
	}
	if req.ExpenseBudget != nil {
		budget.ExpenseBudget = *req.ExpenseBudget
	}
	if budget.EndDate.Before(budget.StartDate) {
		return nil, fmt.Errorf("%w: end date before start date", apperrors.ErrValidation)
	}
	if budget.IncomeBudget.IsNegative() || budget.ExpenseBudget.IsNegative() {
		return nil, apperrors.ErrNegativeBudget
	}
	budget.LastUpdatedAt = time.Now()
	budget.LastUpdatedBy = updaterUserID

	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		return nil, fmt.Errorf("failed to update budget: %w", err)
	}

	after := map[string]any{
		"startDate":     budget.StartDate,
		"endDate":       budget.EndDate,
		"incomeBudget":  budget.IncomeBudget.String(),
		"expenseBudget": budget.ExpenseBudget.String(),
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, updaterUserID, domain.ActionUpdated, "program_budget", budget.BudgetID, before, after)); err != nil {
		return nil, fmt.Errorf("budget updated but activity logging failed: %w", err)
	}
	return budget, nil
}

// TransitionBudget advances the budget state machine.
func (s *budgetService) TransitionBudget(ctx context.Context, budgetID string, next domain.BudgetState, updaterUserID string) (*domain.ProgramBudget, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, err
	}
	if !budget.State.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, budget.State, next)
	}

	prev := budget.State
	budget.State = next
	budget.LastUpdatedAt = time.Now()
	budget.LastUpdatedBy = updaterUserID
	if err := s.budgetRepo.UpdateBudget(ctx, *budget); err != nil {
		return nil, fmt.Errorf("failed to transition budget: %w", err)
	}

	action := domain.ActionUpdated
	if next == domain.BudgetApproved {
		action = domain.ActionApproved
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, updaterUserID, action, "program_budget", budget.BudgetID,
		map[string]any{"state": string(prev)}, map[string]any{"state": string(next)})); err != nil {
		return nil, fmt.Errorf("budget transitioned but activity logging failed: %w", err)
	}
	return budget, nil
}

// DeleteBudget removes a budget window. Drafts only; everything else is part
// of the approval history.
func (s *budgetService) DeleteBudget(ctx context.Context, budgetID string, deleterUserID string) error {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return err
	}
	if budget.State != domain.BudgetDraft {
		return fmt.Errorf("%w: only draft budgets can be deleted", apperrors.ErrValidation)
	}
	if err := s.budgetRepo.DeleteBudget(ctx, budgetID); err != nil {
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, deleterUserID, domain.ActionDeleted, "program_budget", budgetID,
		map[string]any{"programID": budget.ProgramID}, nil)); err != nil {
		return fmt.Errorf("budget deleted but activity logging failed: %w", err)
	}
	return nil
}

// GetBudgetStatus computes the derived metrics for a budget window as of a
// date. Actuals come from approved expenses and paid sales inside the
// window, each converted to the budget currency before summation.
func (s *budgetService) GetBudgetStatus(ctx context.Context, budgetID string, asOf time.Time) (*domain.ProgramBudget, *domain.BudgetMetrics, error) {
	budget, err := s.budgetRepo.FindBudgetByID(ctx, budgetID)
	if err != nil {
		return nil, nil, err
	}

	// [start, end+1d) so transactions dated on the final day count.
	windowEnd := budget.EndDate.AddDate(0, 0, 1)

	expenseSums, err := s.expenseRepo.SumApprovedExpenses(ctx, budget.ProgramID, budget.StartDate, windowEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	saleSums, err := s.saleRepo.SumPaidSales(ctx, budget.ProgramID, budget.StartDate, windowEnd)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to sum sales: %w", err)
	}

	actualExpenses, err := s.conversion.Aggregate(ctx, expenseSums, budget.CurrencyCode, asOf)
	if err != nil {
		return nil, nil, err
	}
	actualIncome, err := s.conversion.Aggregate(ctx, saleSums, budget.CurrencyCode, asOf)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := domain.ComputeBudgetMetrics(*budget, actualIncome, actualExpenses, asOf)
	if err != nil {
		return nil, nil, err
	}
	return budget, &metrics, nil
}
