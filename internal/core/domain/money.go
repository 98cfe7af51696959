package domain

import "github.com/shopspring/decimal"

// MonetaryAmount pairs a decimal value with its currency. Amounts are never
// negative in this domain; reversals are modeled as separate entries.
type MonetaryAmount struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}
