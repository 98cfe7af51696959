package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProgramSummaryRequest holds the date range for a program financial summary.
type ProgramSummaryRequest struct {
	From time.Time `form:"from" time_format:"2006-01-02" binding:"required"`
	To   time.Time `form:"to" time_format:"2006-01-02" binding:"required"`
}

// ProgramSummaryResponse reports income, expenses and net for a program over
// a range, converted to the base currency.
type ProgramSummaryResponse struct {
	ProgramID        string          `json:"programID"`
	From             time.Time       `json:"from"`
	To               time.Time       `json:"to"`
	BaseCurrencyCode string          `json:"baseCurrencyCode"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Net              decimal.Decimal `json:"net"`
}
