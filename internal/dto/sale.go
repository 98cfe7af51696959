package dto

import (
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateSaleRequest is the payload for recording a sale.
type CreateSaleRequest struct {
	ProgramID    string          `json:"programID" binding:"required"`
	Description  string          `json:"description"`
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3" validate:"currency_code"`
	SoldAt       time.Time       `json:"soldAt" binding:"required"`
}

// UpdateSaleRequest is the payload for updating a pending sale.
type UpdateSaleRequest struct {
	Description *string          `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	SoldAt      *time.Time       `json:"soldAt"`
	Status      *string          `json:"status" binding:"omitempty,oneof=PENDING PAID CANCELLED"`
}

// SaleResponse is the API representation of a sale.
type SaleResponse struct {
	SaleID       string            `json:"saleID"`
	ProgramID    string            `json:"programID"`
	Description  string            `json:"description"`
	Amount       decimal.Decimal   `json:"amount"`
	CurrencyCode string            `json:"currencyCode"`
	SoldAt       time.Time         `json:"soldAt"`
	Status       domain.SaleStatus `json:"status"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// ToSaleResponse maps a domain sale to its API representation.
func ToSaleResponse(s *domain.Sale) SaleResponse {
	return SaleResponse{
		SaleID:       s.SaleID,
		ProgramID:    s.ProgramID,
		Description:  s.Description,
		Amount:       s.Amount,
		CurrencyCode: s.CurrencyCode,
		SoldAt:       s.SoldAt,
		Status:       s.Status,
		CreatedAt:    s.CreatedAt,
	}
}
