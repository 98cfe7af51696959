package services

import (
	"context"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ConversionSvcFacade converts and aggregates multi-currency amounts. All
// conversions go through this one facade so no call site can fabricate a
// rate.
type ConversionSvcFacade interface {
	// Convert returns amount expressed in toCode, rounded half-up to the
	// target currency's decimal places. Same-currency conversion returns the
	// value unchanged without a rate lookup. A missing rate is
	// apperrors.ErrRateNotFound, never a substituted 1.0.
	Convert(ctx context.Context, amount domain.MonetaryAmount, toCode string, asOf time.Time) (decimal.Decimal, error)
	// Aggregate converts each amount to toCode and returns the sum. The
	// result is independent of input order.
	Aggregate(ctx context.Context, amounts []domain.MonetaryAmount, toCode string, asOf time.Time) (decimal.Decimal, error)
}
