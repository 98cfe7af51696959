package dto

import (
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExpenseRequest is the payload for recording an expense.
type CreateExpenseRequest struct {
	ProgramID    string          `json:"programID" binding:"required"`
	Category     string          `json:"category" binding:"required,max=100"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3" validate:"currency_code"`
	SpentAt      time.Time       `json:"spentAt" binding:"required"`
}

// UpdateExpenseRequest is the payload for updating a pending expense.
type UpdateExpenseRequest struct {
	Category    *string          `json:"category" binding:"omitempty,max=100"`
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	SpentAt     *time.Time       `json:"spentAt"`
}

// ExpenseResponse is the API representation of an expense.
type ExpenseResponse struct {
	ExpenseID    string               `json:"expenseID"`
	ProgramID    string               `json:"programID"`
	Category     string               `json:"category"`
	Description  string               `json:"description"`
	Amount       decimal.Decimal      `json:"amount"`
	CurrencyCode string               `json:"currencyCode"`
	SpentAt      time.Time            `json:"spentAt"`
	Status       domain.ExpenseStatus `json:"status"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// ToExpenseResponse maps a domain expense to its API representation.
func ToExpenseResponse(e *domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID:    e.ExpenseID,
		ProgramID:    e.ProgramID,
		Category:     e.Category,
		Description:  e.Description,
		Amount:       e.Amount,
		CurrencyCode: e.CurrencyCode,
		SpentAt:      e.SpentAt,
		Status:       e.Status,
		CreatedAt:    e.CreatedAt,
	}
}
