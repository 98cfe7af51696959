package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate stores the conversion rate between two currencies effective
// from a specific date. The most recent rate with dateEffective on or before
// the conversion date wins.
type ExchangeRate struct {
	ExchangeRateID   string          `json:"exchangeRateID"` // Primary Key (UUID)
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"` // strictly positive
	DateEffective    time.Time       `json:"dateEffective"`
	Source           string          `json:"source"` // e.g., "central_bank", "manual"
	AuditFields
}
