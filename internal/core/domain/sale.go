package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleStatus indicates the payment state of a sale.
type SaleStatus string

const (
	SalePending   SaleStatus = "PENDING"
	SalePaid      SaleStatus = "PAID"
	SaleCancelled SaleStatus = "CANCELLED"
)

// Sale is a single incoming amount (invoiced revenue) recorded against a
// program. Only PAID sales count towards actual income.
type Sale struct {
	SaleID       string          `json:"saleID"` // Primary Key (UUID)
	ProgramID    string          `json:"programID"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount"` // positive
	CurrencyCode string          `json:"currencyCode"`
	SoldAt       time.Time       `json:"soldAt"`
	Status       SaleStatus      `json:"status"`
	AuditFields
}

// Monetary returns the sale amount as a MonetaryAmount.
func (s Sale) Monetary() MonetaryAmount {
	return MonetaryAmount{Amount: s.Amount, CurrencyCode: s.CurrencyCode}
}
