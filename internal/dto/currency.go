package dto

import (
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
)

// CreateCurrencyRequest is the payload for adding a currency.
type CreateCurrencyRequest struct {
	CurrencyCode  string `json:"currencyCode" binding:"required,len=3" validate:"currency_code"`
	Symbol        string `json:"symbol" binding:"required"`
	Name          string `json:"name" binding:"required"`
	DecimalPlaces int    `json:"decimalPlaces" binding:"min=0,max=18"`
	IsBase        bool   `json:"isBase"`
}

// CurrencyResponse is the API representation of a currency.
type CurrencyResponse struct {
	CurrencyCode  string    `json:"currencyCode"`
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	DecimalPlaces int       `json:"decimalPlaces"`
	IsBase        bool      `json:"isBase"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToCurrencyResponse maps a domain currency to its API representation.
func ToCurrencyResponse(c *domain.Currency) CurrencyResponse {
	return CurrencyResponse{
		CurrencyCode:  c.CurrencyCode,
		Symbol:        c.Symbol,
		Name:          c.Name,
		DecimalPlaces: c.DecimalPlaces,
		IsBase:        c.IsBase,
		CreatedAt:     c.CreatedAt,
	}
}
