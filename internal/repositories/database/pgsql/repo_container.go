package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all Postgres repositories over a shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AuditRepo:        newPgxAuditRepository(dbPool),
		CurrencyRepo:     newPgxCurrencyRepository(dbPool),
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		ProgramRepo:      newPgxProgramRepository(dbPool),
		ExpenseRepo:      newPgxExpenseRepository(dbPool),
		SaleRepo:         newPgxSaleRepository(dbPool),
		BudgetRepo:       newPgxBudgetRepository(dbPool),
		UserRepo:         newPgxUserRepository(dbPool),
	}
}
