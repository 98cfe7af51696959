package utils

import (
	"github.com/shopspring/decimal"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
)

// FormatWithCurrencyPrecision formats an amount rounded to the currency's
// configured decimal places.
// Example: 12.3456 with USD (2 places) returns "12.35", with JPY (0) "12".
func FormatWithCurrencyPrecision(amount decimal.Decimal, currency domain.Currency) string {
	return amount.Round(int32(currency.DecimalPlaces)).String()
}

// FormatWithPrecision formats an amount rounded to the given number of
// decimal places.
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.Round(int32(precision)).String()
}
