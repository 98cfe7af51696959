package services

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

// reportService implements portssvc.ReportSvcFacade.
type reportService struct {
	expenseRepo portsrepo.ExpenseRepository
	saleRepo    portsrepo.SaleRepository
	currency    portssvc.CurrencySvcFacade
	conversion  portssvc.ConversionSvcFacade
}

// NewReportService creates the reporting service.
func NewReportService(
	expenseRepo portsrepo.ExpenseRepository,
	saleRepo portsrepo.SaleRepository,
	currency portssvc.CurrencySvcFacade,
	conversion portssvc.ConversionSvcFacade,
) portssvc.ReportSvcFacade {
	return &reportService{
		expenseRepo: expenseRepo,
		saleRepo:    saleRepo,
		currency:    currency,
		conversion:  conversion,
	}
}

// ProgramSummary reports a program's income, expenses and net over [from,
// to), converted to the base currency.
func (s *reportService) ProgramSummary(ctx context.Context, programID string, from, to time.Time) (*dto.ProgramSummaryResponse, error) {
	base, err := s.currency.GetBaseCurrency(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base currency: %w", err)
	}

	expenseSums, err := s.expenseRepo.SumApprovedExpenses(ctx, programID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}
	saleSums, err := s.saleRepo.SumPaidSales(ctx, programID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum sales: %w", err)
	}

	totalExpenses, err := s.conversion.Aggregate(ctx, expenseSums, base.CurrencyCode, to)
	if err != nil {
		return nil, err
	}
	totalIncome, err := s.conversion.Aggregate(ctx, saleSums, base.CurrencyCode, to)
	if err != nil {
		return nil, err
	}

	return &dto.ProgramSummaryResponse{
		ProgramID:        programID,
		From:             from,
		To:               to,
		BaseCurrencyCode: base.CurrencyCode,
		TotalIncome:      totalIncome,
		TotalExpenses:    totalExpenses,
		Net:              totalIncome.Sub(totalExpenses),
	}, nil
}
