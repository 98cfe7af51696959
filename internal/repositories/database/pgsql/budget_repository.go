package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
)

type PgxBudgetRepository struct {
	BaseRepository
}

func newPgxBudgetRepository(pool *pgxpool.Pool) portsrepo.BudgetRepository {
	return &PgxBudgetRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.BudgetRepository = (*PgxBudgetRepository)(nil)

const budgetColumns = `budget_id, program_id, start_date, end_date, income_budget, expense_budget, currency_code, state, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxBudgetRepository) SaveBudget(ctx context.Context, budget domain.ProgramBudget) error {
	query := `
		INSERT INTO program_budgets (budget_id, program_id, start_date, end_date, income_budget, expense_budget, currency_code, state, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	_, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.ProgramID,
		budget.StartDate,
		budget.EndDate,
		budget.IncomeBudget,
		budget.ExpenseBudget,
		budget.CurrencyCode,
		string(budget.State),
		budget.CreatedAt,
		budget.CreatedBy,
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save budget %s: %w", budget.BudgetID, err)
	}
	return nil
}

func (r *PgxBudgetRepository) UpdateBudget(ctx context.Context, budget domain.ProgramBudget) error {
	query := `
		UPDATE program_budgets
		SET start_date = $2, end_date = $3, income_budget = $4, expense_budget = $5, currency_code = $6, state = $7, last_updated_at = $8, last_updated_by = $9
		WHERE budget_id = $1;
	`

	tag, err := r.Pool.Exec(ctx, query,
		budget.BudgetID,
		budget.StartDate,
		budget.EndDate,
		budget.IncomeBudget,
		budget.ExpenseBudget,
		budget.CurrencyCode,
		string(budget.State),
		budget.LastUpdatedAt,
		budget.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update budget %s: %w", budget.BudgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxBudgetRepository) FindBudgetByID(ctx context.Context, budgetID string) (*domain.ProgramBudget, error) {
	query := `SELECT ` + budgetColumns + ` FROM program_budgets WHERE budget_id = $1;`

	budget, err := scanBudget(r.Pool.QueryRow(ctx, query, budgetID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find budget %s: %w", budgetID, err)
	}
	return budget, nil
}

func (r *PgxBudgetRepository) ListBudgetsByProgram(ctx context.Context, programID string) ([]domain.ProgramBudget, error) {
	query := `SELECT ` + budgetColumns + ` FROM program_budgets WHERE program_id = $1 ORDER BY start_date DESC;`

	rows, err := r.Pool.Query(ctx, query, programID)
	if err != nil {
		return nil, fmt.Errorf("failed to query budgets for program %s: %w", programID, err)
	}
	defer rows.Close()

	budgets := []domain.ProgramBudget{}
	for rows.Next() {
		budget, err := scanBudget(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan budget: %w", err)
		}
		budgets = append(budgets, *budget)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate budgets: %w", err)
	}
	return budgets, nil
}

func (r *PgxBudgetRepository) DeleteBudget(ctx context.Context, budgetID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM program_budgets WHERE budget_id = $1;`, budgetID)
	if err != nil {
		return fmt.Errorf("failed to delete budget %s: %w", budgetID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanBudget(row pgx.Row) (*domain.ProgramBudget, error) {
	var budget domain.ProgramBudget
	var state string
	err := row.Scan(
		&budget.BudgetID,
		&budget.ProgramID,
		&budget.StartDate,
		&budget.EndDate,
		&budget.IncomeBudget,
		&budget.ExpenseBudget,
		&budget.CurrencyCode,
		&state,
		&budget.CreatedAt,
		&budget.CreatedBy,
		&budget.LastUpdatedAt,
		&budget.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	budget.State = domain.BudgetState(state)
	return &budget, nil
}
