package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(pool *pgxpool.Pool) portsrepo.ExpenseRepository {
	return &PgxExpenseRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ExpenseRepository = (*PgxExpenseRepository)(nil)

const expenseColumns = `expense_id, program_id, category, description, amount, currency_code, spent_at, status, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		INSERT INTO expenses (expense_id, program_id, category, description, amount, currency_code, spent_at, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`

	_, err := r.Pool.Exec(ctx, query,
		expense.ExpenseID,
		expense.ProgramID,
		expense.Category,
		expense.Description,
		expense.Amount,
		expense.CurrencyCode,
		expense.SpentAt,
		string(expense.Status),
		expense.CreatedAt,
		expense.CreatedBy,
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save expense %s: %w", expense.ExpenseID, err)
	}
	return nil
}

func (r *PgxExpenseRepository) UpdateExpense(ctx context.Context, expense domain.Expense) error {
	query := `
		UPDATE expenses
		SET category = $2, description = $3, amount = $4, currency_code = $5, spent_at = $6, status = $7, last_updated_at = $8, last_updated_by = $9
		WHERE expense_id = $1;
	`

	tag, err := r.Pool.Exec(ctx, query,
		expense.ExpenseID,
		expense.Category,
		expense.Description,
		expense.Amount,
		expense.CurrencyCode,
		expense.SpentAt,
		string(expense.Status),
		expense.LastUpdatedAt,
		expense.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`

	expense, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense %s: %w", expenseID, err)
	}
	return expense, nil
}

func (r *PgxExpenseRepository) ListExpensesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Expense, int, error) {
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM expenses WHERE program_id = $1`, programID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE program_id = $1 ORDER BY spent_at DESC, expense_id LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, programID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := []domain.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, *expense)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, total, nil
}

func (r *PgxExpenseRepository) DeleteExpense(ctx context.Context, expenseID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM expenses WHERE expense_id = $1;`, expenseID)
	if err != nil {
		return fmt.Errorf("failed to delete expense %s: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SumApprovedExpenses returns per-currency totals of approved expenses for
// the program with spent_at in [from, to).
func (r *PgxExpenseRepository) SumApprovedExpenses(ctx context.Context, programID string, from, to time.Time) ([]domain.MonetaryAmount, error) {
	query := `
		SELECT currency_code, COALESCE(SUM(amount), 0)
		FROM expenses
		WHERE program_id = $1 AND status = $2 AND spent_at >= $3 AND spent_at < $4
		GROUP BY currency_code
		ORDER BY currency_code;
	`

	rows, err := r.Pool.Query(ctx, query, programID, string(domain.ExpenseApproved), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum approved expenses for program %s: %w", programID, err)
	}
	defer rows.Close()

	return collectMonetarySums(rows)
}

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var expense domain.Expense
	var status string
	err := row.Scan(
		&expense.ExpenseID,
		&expense.ProgramID,
		&expense.Category,
		&expense.Description,
		&expense.Amount,
		&expense.CurrencyCode,
		&expense.SpentAt,
		&status,
		&expense.CreatedAt,
		&expense.CreatedBy,
		&expense.LastUpdatedAt,
		&expense.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	expense.Status = domain.ExpenseStatus(status)
	return &expense, nil
}

func collectMonetarySums(rows pgx.Rows) ([]domain.MonetaryAmount, error) {
	sums := []domain.MonetaryAmount{}
	for rows.Next() {
		var sum domain.MonetaryAmount
		if err := rows.Scan(&sum.CurrencyCode, &sum.Amount); err != nil {
			return nil, fmt.Errorf("failed to scan monetary sum: %w", err)
		}
		sums = append(sums, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate monetary sums: %w", err)
	}
	return sums, nil
}
