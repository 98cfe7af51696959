package repositories

import (
	"context"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
)

// AuditRepository defines persistence for the append-only activity log.
// The log supports insert and reads only; there is deliberately no update or
// delete operation.
type AuditRepository interface {
	// AppendAuditRecord inserts a fully hashed record and assigns its ID.
	// The insert serializes against other appends and re-checks that
	// record.PrevHash still matches the stored tail; a mismatch returns
	// apperrors.ErrChainConflict without writing anything.
	AppendAuditRecord(ctx context.Context, record *domain.AuditRecord) error
	// FindTail returns the most recently appended record, or nil when the
	// log is empty.
	FindTail(ctx context.Context) (*domain.AuditRecord, error)
	// FindAuditRecordsAscending returns up to limit records with ID >= afterID,
	// ordered by ID ascending. Used for chain verification walks.
	FindAuditRecordsAscending(ctx context.Context, afterID int64, limit int) ([]domain.AuditRecord, error)
	// FindLastRecordBefore returns the record with the greatest ID strictly
	// below id, or nil when no such record exists. IDs are sequence-assigned
	// and may have gaps, so this is not necessarily id-1.
	FindLastRecordBefore(ctx context.Context, id int64) (*domain.AuditRecord, error)
	// ListAuditRecords returns records matching the filter, newest first.
	ListAuditRecords(ctx context.Context, filter AuditFilter, limit, offset int) ([]domain.AuditRecord, int, error)
}

// AuditFilter narrows activity log listings.
type AuditFilter struct {
	EntityType string
	EntityID   string
	ActorID    string
	Action     string
	From       *time.Time
	To         *time.Time
}

// CurrencyRepository defines persistence operations for currencies.
type CurrencyRepository interface {
	SaveCurrency(ctx context.Context, currency domain.Currency) error
	FindCurrencyByCode(ctx context.Context, currencyCode string) (*domain.Currency, error)
	FindBaseCurrency(ctx context.Context) (*domain.Currency, error)
	// SetBaseCurrency demotes the current base and promotes code in one
	// transaction so exactly one base currency exists at any time.
	SetBaseCurrency(ctx context.Context, currencyCode string, updaterUserID string) error
	ListCurrencies(ctx context.Context) ([]domain.Currency, error)
}

// ExchangeRateRepository defines persistence operations for exchange rates.
type ExchangeRateRepository interface {
	// SaveExchangeRate inserts a rate, or updates it when one already exists
	// for the same pair and effective date.
	SaveExchangeRate(ctx context.Context, rate domain.ExchangeRate) error
	// FindEffectiveRate returns the most recent rate for the exact pair with
	// dateEffective on or before asOf, or apperrors.ErrRateNotFound.
	FindEffectiveRate(ctx context.Context, fromCurrencyCode, toCurrencyCode string, asOf time.Time) (*domain.ExchangeRate, error)
	ListExchangeRates(ctx context.Context, fromCurrency, toCurrency *string, effectiveDate *time.Time, page, pageSize int) ([]domain.ExchangeRate, int, error)
}

// ProgramRepository defines persistence operations for programs.
type ProgramRepository interface {
	SaveProgram(ctx context.Context, program domain.Program) error
	UpdateProgram(ctx context.Context, program domain.Program) error
	FindProgramByID(ctx context.Context, programID string) (*domain.Program, error)
	ListPrograms(ctx context.Context, limit, offset int) ([]domain.Program, int, error)
	DeleteProgram(ctx context.Context, programID string) error
}

// ExpenseRepository defines persistence operations for expenses.
type ExpenseRepository interface {
	SaveExpense(ctx context.Context, expense domain.Expense) error
	UpdateExpense(ctx context.Context, expense domain.Expense) error
	FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListExpensesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Expense, int, error)
	DeleteExpense(ctx context.Context, expenseID string) error
	// SumApprovedExpenses returns per-currency sums of APPROVED expenses for
	// the program with spentAt in [from, to).
	SumApprovedExpenses(ctx context.Context, programID string, from, to time.Time) ([]domain.MonetaryAmount, error)
}

// SaleRepository defines persistence operations for sales.
type SaleRepository interface {
	SaveSale(ctx context.Context, sale domain.Sale) error
	UpdateSale(ctx context.Context, sale domain.Sale) error
	FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error)
	ListSalesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Sale, int, error)
	DeleteSale(ctx context.Context, saleID string) error
	// SumPaidSales returns per-currency sums of PAID sales for the program
	// with soldAt in [from, to).
	SumPaidSales(ctx context.Context, programID string, from, to time.Time) ([]domain.MonetaryAmount, error)
}

// BudgetRepository defines persistence operations for program budgets.
type BudgetRepository interface {
	SaveBudget(ctx context.Context, budget domain.ProgramBudget) error
	UpdateBudget(ctx context.Context, budget domain.ProgramBudget) error
	FindBudgetByID(ctx context.Context, budgetID string) (*domain.ProgramBudget, error)
	ListBudgetsByProgram(ctx context.Context, programID string) ([]domain.ProgramBudget, error)
	DeleteBudget(ctx context.Context, budgetID string) error
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	SaveUser(ctx context.Context, user domain.User) error
	UpdateUser(ctx context.Context, user domain.User) error
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error)
	DeleteUser(ctx context.Context, userID string, deleterUserID string) error
	UpdateRefreshToken(ctx context.Context, userID string, refreshTokenHash *string, expiresAt *time.Time) error
}

// RepositoryProvider bundles all repositories for dependency injection.
type RepositoryProvider struct {
	AuditRepo        AuditRepository
	CurrencyRepo     CurrencyRepository
	ExchangeRateRepo ExchangeRateRepository
	ProgramRepo      ProgramRepository
	ExpenseRepo      ExpenseRepository
	SaleRepo         SaleRepository
	BudgetRepo       BudgetRepository
	UserRepo         UserRepository
}
