package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseStatus indicates the approval state of an expense.
type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "PENDING"
	ExpenseApproved ExpenseStatus = "APPROVED"
	ExpenseRejected ExpenseStatus = "REJECTED"
)

// Expense is a single outgoing amount recorded against a program.
// Only APPROVED expenses count towards budget utilization.
type Expense struct {
	ExpenseID    string          `json:"expenseID"` // Primary Key (UUID)
	ProgramID    string          `json:"programID"`
	Category     string          `json:"category"` // e.g., "supplies", "travel"
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"` // positive
	CurrencyCode string          `json:"currencyCode"`
	SpentAt      time.Time       `json:"spentAt"`
	Status       ExpenseStatus   `json:"status"`
	AuditFields
}

// Monetary returns the expense amount as a MonetaryAmount.
func (e Expense) Monetary() MonetaryAmount {
	return MonetaryAmount{Amount: e.Amount, CurrencyCode: e.CurrencyCode}
}
