package dto

import (
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBudgetRequest is the payload for creating a draft budget window.
type CreateBudgetRequest struct {
	ProgramID     string          `json:"programID" binding:"required"`
	StartDate     time.Time       `json:"startDate" binding:"required"`
	EndDate       time.Time       `json:"endDate" binding:"required"`
	IncomeBudget  decimal.Decimal `json:"incomeBudget"`
	ExpenseBudget decimal.Decimal `json:"expenseBudget"`
	CurrencyCode  string          `json:"currencyCode" binding:"required,len=3" validate:"currency_code"`
}

// UpdateBudgetRequest is the payload for editing a draft budget.
type UpdateBudgetRequest struct {
	StartDate     *time.Time       `json:"startDate"`
	EndDate       *time.Time       `json:"endDate"`
	IncomeBudget  *decimal.Decimal `json:"incomeBudget"`
	ExpenseBudget *decimal.Decimal `json:"expenseBudget"`
}

// BudgetResponse is the API representation of a budget window.
type BudgetResponse struct {
	BudgetID      string             `json:"budgetID"`
	ProgramID     string             `json:"programID"`
	StartDate     time.Time          `json:"startDate"`
	EndDate       time.Time          `json:"endDate"`
	IncomeBudget  decimal.Decimal    `json:"incomeBudget"`
	ExpenseBudget decimal.Decimal    `json:"expenseBudget"`
	CurrencyCode  string             `json:"currencyCode"`
	State         domain.BudgetState `json:"state"`
	CreatedAt     time.Time          `json:"createdAt"`
}

// BudgetStatusResponse pairs a budget with its derived metrics.
type BudgetStatusResponse struct {
	BudgetResponse
	Metrics domain.BudgetMetrics `json:"metrics"`
	AsOf    time.Time            `json:"asOf"`
}

// ToBudgetResponse maps a domain budget to its API representation.
func ToBudgetResponse(b *domain.ProgramBudget) BudgetResponse {
	return BudgetResponse{
		BudgetID:      b.BudgetID,
		ProgramID:     b.ProgramID,
		StartDate:     b.StartDate,
		EndDate:       b.EndDate,
		IncomeBudget:  b.IncomeBudget,
		ExpenseBudget: b.ExpenseBudget,
		CurrencyCode:  b.CurrencyCode,
		State:         b.State,
		CreatedAt:     b.CreatedAt,
	}
}
