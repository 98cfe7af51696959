package domain

// Currency represents a supported currency.
type Currency struct {
	CurrencyCode  string `json:"currencyCode"` // Primary Key, ISO 4217 (e.g., "UGX")
	Symbol        string `json:"symbol"`       // e.g., "USh"
	Name          string `json:"name"`         // e.g., "Ugandan Shilling"
	DecimalPlaces int    `json:"decimalPlaces"`
	IsBase        bool   `json:"isBase"` // exactly one currency is the base at any time
	AuditFields
}
