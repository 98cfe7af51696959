package dto

import (
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateExchangeRateRequest is the payload for recording an exchange rate.
type CreateExchangeRateRequest struct {
	FromCurrencyCode string          `json:"fromCurrencyCode" binding:"required,len=3" validate:"currency_code"`
	ToCurrencyCode   string          `json:"toCurrencyCode" binding:"required,len=3" validate:"currency_code"`
	Rate             decimal.Decimal `json:"rate" binding:"required"`
	DateEffective    time.Time       `json:"dateEffective" binding:"required"`
	Source           string          `json:"source"`
}

// ListExchangeRatesRequest holds query filters for listing rates.
type ListExchangeRatesRequest struct {
	FromCurrency  *string    `form:"from"`
	ToCurrency    *string    `form:"to"`
	EffectiveDate *time.Time `form:"effectiveDate" time_format:"2006-01-02"`
	Page          int        `form:"page,default=1" binding:"min=1"`
	PageSize      int        `form:"pageSize,default=50" binding:"min=1,max=200"`
}

// ExchangeRateResponse is the API representation of an exchange rate.
type ExchangeRateResponse struct {
	ExchangeRateID   string          `json:"exchangeRateID"`
	FromCurrencyCode string          `json:"fromCurrencyCode"`
	ToCurrencyCode   string          `json:"toCurrencyCode"`
	Rate             decimal.Decimal `json:"rate"`
	DateEffective    time.Time       `json:"dateEffective"`
	Source           string          `json:"source"`
}

// ToExchangeRateResponse maps a domain rate to its API representation.
func ToExchangeRateResponse(r *domain.ExchangeRate) ExchangeRateResponse {
	return ExchangeRateResponse{
		ExchangeRateID:   r.ExchangeRateID,
		FromCurrencyCode: r.FromCurrencyCode,
		ToCurrencyCode:   r.ToCurrencyCode,
		Rate:             r.Rate,
		DateEffective:    r.DateEffective,
		Source:           r.Source,
	}
}

// ConvertRequest asks for a single amount conversion.
type ConvertRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3" validate:"currency_code"`
	ToCode       string          `json:"toCode" binding:"required,len=3" validate:"currency_code"`
	AsOf         *time.Time      `json:"asOf"`
}

// ConvertResponse carries the converted amount.
type ConvertResponse struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}
