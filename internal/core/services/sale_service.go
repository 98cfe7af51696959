package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// saleService implements portssvc.SaleSvcFacade.
type saleService struct {
	saleRepo    portsrepo.SaleRepository
	programRepo portsrepo.ProgramRepository
	currency    portssvc.CurrencySvcFacade
	audit       portssvc.AuditRecorder
}

// NewSaleService creates the sale service.
func NewSaleService(
	saleRepo portsrepo.SaleRepository,
	programRepo portsrepo.ProgramRepository,
	currency portssvc.CurrencySvcFacade,
	audit portssvc.AuditRecorder,
) portssvc.SaleSvcFacade {
	return &saleService{
		saleRepo:    saleRepo,
		programRepo: programRepo,
		currency:    currency,
		audit:       audit,
	}
}

// CreateSale records a pending sale against a program.
func (s *saleService) CreateSale(ctx context.Context, req dto.CreateSaleRequest, creatorUserID string) (*domain.Sale, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if _, err := s.programRepo.FindProgramByID(ctx, req.ProgramID); err != nil {
		return nil, fmt.Errorf("failed to validate program %s: %w", req.ProgramID, err)
	}
	code := strings.ToUpper(req.CurrencyCode)
	if _, err := s.currency.GetCurrencyByCode(ctx, code); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: currency code '%s' not found", apperrors.ErrValidation, code)
		}
		return nil, fmt.Errorf("failed to validate currency '%s': %w", code, err)
	}

	now := time.Now()
	sale := domain.Sale{
		SaleID:       uuid.NewString(),
		ProgramID:    req.ProgramID,
		Description:  req.Description,
		Amount:       req.Amount,
		CurrencyCode: code,
		SoldAt:       req.SoldAt,
		Status:       domain.SalePending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if err := s.saleRepo.SaveSale(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, creatorUserID, domain.ActionCreated, "sale", sale.SaleID,
		nil, saleSnapshot(sale))); err != nil {
		return nil, fmt.Errorf("sale created but activity logging failed: %w", err)
	}
	return &sale, nil
}

// GetSaleByID returns one sale.
func (s *saleService) GetSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	return s.saleRepo.FindSaleByID(ctx, saleID)
}

// ListSalesByProgram returns a program's sales with the total count.
func (s *saleService) ListSalesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Sale, int, error) {
	limit, offset = clampPage(limit, offset)
	return s.saleRepo.ListSalesByProgram(ctx, programID, limit, offset)
}

// UpdateSale edits a sale. Cancelled sales are immutable; marking a sale
// PAID makes it count towards actual income.
func (s *saleService) UpdateSale(ctx context.Context, saleID string, req dto.UpdateSaleRequest, updaterUserID string) (*domain.Sale, error) {
	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale.Status == domain.SaleCancelled {
		return nil, fmt.Errorf("%w: cancelled sales cannot be edited", apperrors.ErrValidation)
	}

	before := saleSnapshot(*sale)
	if req.Description != nil {
		sale.Description = *req.Description
	}
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
		}
		sale.Amount = *req.Amount
	}
	if req.SoldAt != nil {
		sale.SoldAt = *req.SoldAt
	}
	if req.Status != nil {
		sale.Status = domain.SaleStatus(*req.Status)
	}
	sale.LastUpdatedAt = time.Now()
	sale.LastUpdatedBy = updaterUserID

	if err := s.saleRepo.UpdateSale(ctx, *sale); err != nil {
		return nil, fmt.Errorf("failed to update sale: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, updaterUserID, domain.ActionUpdated, "sale", sale.SaleID,
		before, saleSnapshot(*sale))); err != nil {
		return nil, fmt.Errorf("sale updated but activity logging failed: %w", err)
	}
	return sale, nil
}

// DeleteSale removes a pending sale.
func (s *saleService) DeleteSale(ctx context.Context, saleID string, deleterUserID string) error {
	sale, err := s.saleRepo.FindSaleByID(ctx, saleID)
	if err != nil {
		return err
	}
	if sale.Status != domain.SalePending {
		return fmt.Errorf("%w: only pending sales can be deleted", apperrors.ErrValidation)
	}
	if err := s.saleRepo.DeleteSale(ctx, saleID); err != nil {
		return fmt.Errorf("failed to delete sale: %w", err)
	}
	if _, err := s.audit.Record(ctx, auditEntryFromCtx(ctx, deleterUserID, domain.ActionDeleted, "sale", saleID,
		saleSnapshot(*sale), nil)); err != nil {
		return fmt.Errorf("sale deleted but activity logging failed: %w", err)
	}
	return nil
}

func saleSnapshot(s domain.Sale) map[string]any {
	return map[string]any{
		"programID": s.ProgramID,
		"amount":    s.Amount.String(),
		"currency":  s.CurrencyCode,
		"soldAt":    s.SoldAt,
		"status":    string(s.Status),
	}
}
