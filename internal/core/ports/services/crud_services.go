package services

import (
	"context"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

// CurrencySvcFacade manages the currency reference table.
type CurrencySvcFacade interface {
	CreateCurrency(ctx context.Context, req dto.CreateCurrencyRequest, creatorUserID string) (*domain.Currency, error)
	GetCurrencyByCode(ctx context.Context, code string) (*domain.Currency, error)
	GetBaseCurrency(ctx context.Context) (*domain.Currency, error)
	SetBaseCurrency(ctx context.Context, code string, updaterUserID string) error
	EnsureBaseCurrency(ctx context.Context, code string) error
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ExchangeRateSvcFacade manages exchange rates.
type ExchangeRateSvcFacade interface {
	CreateExchangeRate(ctx context.Context, req dto.CreateExchangeRateRequest, creatorUserID string) (*domain.ExchangeRate, error)
	GetEffectiveRate(ctx context.Context, fromCode, toCode string, asOf time.Time) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, req dto.ListExchangeRatesRequest) ([]domain.ExchangeRate, int, error)
}

// ProgramSvcFacade manages programs.
type ProgramSvcFacade interface {
	CreateProgram(ctx context.Context, req dto.CreateProgramRequest, creatorUserID string) (*domain.Program, error)
	GetProgramByID(ctx context.Context, programID string) (*domain.Program, error)
	ListPrograms(ctx context.Context, limit, offset int) ([]domain.Program, int, error)
	UpdateProgram(ctx context.Context, programID string, req dto.UpdateProgramRequest, updaterUserID string) (*domain.Program, error)
	DeleteProgram(ctx context.Context, programID string, deleterUserID string) error
}

// ExpenseSvcFacade manages expenses.
type ExpenseSvcFacade interface {
	CreateExpense(ctx context.Context, req dto.CreateExpenseRequest, creatorUserID string) (*domain.Expense, error)
	GetExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpensesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Expense, int, error)
	UpdateExpense(ctx context.Context, expenseID string, req dto.UpdateExpenseRequest, updaterUserID string) (*domain.Expense, error)
	ApproveExpense(ctx context.Context, expenseID string, approverUserID string) (*domain.Expense, error)
	RejectExpense(ctx context.Context, expenseID string, approverUserID string) (*domain.Expense, error)
	DeleteExpense(ctx context.Context, expenseID string, deleterUserID string) error
}

// SaleSvcFacade manages sales.
type SaleSvcFacade interface {
	CreateSale(ctx context.Context, req dto.CreateSaleRequest, creatorUserID string) (*domain.Sale, error)
	GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
	ListSalesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Sale, int, error)
	UpdateSale(ctx context.Context, saleID string, req dto.UpdateSaleRequest, updaterUserID string) (*domain.Sale, error)
	DeleteSale(ctx context.Context, saleID string, deleterUserID string) error
}

// BudgetSvcFacade manages budget windows and their derived metrics.
type BudgetSvcFacade interface {
	CreateBudget(ctx context.Context, req dto.CreateBudgetRequest, creatorUserID string) (*domain.ProgramBudget, error)
	GetBudgetByID(ctx context.Context, budgetID string) (*domain.ProgramBudget, error)
	ListBudgetsByProgram(ctx context.Context, programID string) ([]domain.ProgramBudget, error)
	UpdateBudget(ctx context.Context, budgetID string, req dto.UpdateBudgetRequest, updaterUserID string) (*domain.ProgramBudget, error)
	TransitionBudget(ctx context.Context, budgetID string, next domain.BudgetState, updaterUserID string) (*domain.ProgramBudget, error)
	DeleteBudget(ctx context.Context, budgetID string, deleterUserID string) error
	// GetBudgetStatus aggregates the window's approved expenses and paid
	// sales into the budget currency and computes the derived metrics.
	GetBudgetStatus(ctx context.Context, budgetID string, asOf time.Time) (*domain.ProgramBudget, *domain.BudgetMetrics, error)
}

// ReportSvcFacade produces cross-entity financial summaries.
type ReportSvcFacade interface {
	ProgramSummary(ctx context.Context, programID string, from, to time.Time) (*dto.ProgramSummaryResponse, error)
}
