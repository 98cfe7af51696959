package services

import (
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/platform/config"
)

// NewServiceContainer wires every service with its repositories. The audit
// service is built first because every mutating service records through it.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Audit = NewAuditService(repos.AuditRepo)
	audit := portssvc.AuditRecorder(container.Audit)

	container.Currency = NewCurrencyService(repos.CurrencyRepo, audit)
	container.Conversion = NewConversionService(repos.ExchangeRateRepo, repos.CurrencyRepo)
	container.ExchangeRate = NewExchangeRateService(repos.ExchangeRateRepo, container.Currency, audit)
	container.Program = NewProgramService(repos.ProgramRepo, audit)
	container.Expense = NewExpenseService(repos.ExpenseRepo, repos.ProgramRepo, container.Currency, audit)
	container.Sale = NewSaleService(repos.SaleRepo, repos.ProgramRepo, container.Currency, audit)
	container.Budget = NewBudgetService(repos.BudgetRepo, repos.ProgramRepo, repos.ExpenseRepo, repos.SaleRepo, container.Conversion, audit)
	container.Report = NewReportService(repos.ExpenseRepo, repos.SaleRepo, container.Currency, container.Conversion)
	container.User = NewUserService(repos.UserRepo, audit)
	container.Token = NewTokenService(cfg, container.User)
	container.GoogleOAuth = NewGoogleOAuthService(cfg)

	return container
}
