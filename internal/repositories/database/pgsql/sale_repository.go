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

type PgxSaleRepository struct {
	BaseRepository
}

func newPgxSaleRepository(pool *pgxpool.Pool) portsrepo.SaleRepository {
	return &PgxSaleRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SaleRepository = (*PgxSaleRepository)(nil)

const saleColumns = `sale_id, program_id, description, amount, currency_code, sold_at, status, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxSaleRepository) SaveSale(ctx context.Context, sale domain.Sale) error {
	query := `
		INSERT INTO sales (sale_id, program_id, description, amount, currency_code, sold_at, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`

	_, err := r.Pool.Exec(ctx, query,
		sale.SaleID,
		sale.ProgramID,
		sale.Description,
		sale.Amount,
		sale.CurrencyCode,
		sale.SoldAt,
		string(sale.Status),
		sale.CreatedAt,
		sale.CreatedBy,
		sale.LastUpdatedAt,
		sale.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save sale %s: %w", sale.SaleID, err)
	}
	return nil
}

func (r *PgxSaleRepository) UpdateSale(ctx context.Context, sale domain.Sale) error {
	query := `
		UPDATE sales
		SET description = $2, amount = $3, currency_code = $4, sold_at = $5, status = $6, last_updated_at = $7, last_updated_by = $8
		WHERE sale_id = $1;
	`

	tag, err := r.Pool.Exec(ctx, query,
		sale.SaleID,
		sale.Description,
		sale.Amount,
		sale.CurrencyCode,
		sale.SoldAt,
		string(sale.Status),
		sale.LastUpdatedAt,
		sale.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update sale %s: %w", sale.SaleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxSaleRepository) FindSaleByID(ctx context.Context, saleID string) (*domain.Sale, error) {
	query := `SELECT ` + saleColumns + ` FROM sales WHERE sale_id = $1;`

	sale, err := scanSale(r.Pool.QueryRow(ctx, query, saleID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find sale %s: %w", saleID, err)
	}
	return sale, nil
}

func (r *PgxSaleRepository) ListSalesByProgram(ctx context.Context, programID string, limit, offset int) ([]domain.Sale, int, error) {
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM sales WHERE program_id = $1`, programID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	query := `SELECT ` + saleColumns + ` FROM sales WHERE program_id = $1 ORDER BY sold_at DESC, sale_id LIMIT $2 OFFSET $3;`
	rows, err := r.Pool.Query(ctx, query, programID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query sales: %w", err)
	}
	defer rows.Close()

	sales := []domain.Sale{}
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate sales: %w", err)
	}
	return sales, total, nil
}

func (r *PgxSaleRepository) DeleteSale(ctx context.Context, saleID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM sales WHERE sale_id = $1;`, saleID)
	if err != nil {
		return fmt.Errorf("failed to delete sale %s: %w", saleID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// SumPaidSales returns per-currency totals of paid sales for the program
// with sold_at in [from, to).
func (r *PgxSaleRepository) SumPaidSales(ctx context.Context, programID string, from, to time.Time) ([]domain.MonetaryAmount, error) {
	query := `
		SELECT currency_code, COALESCE(SUM(amount), 0)
		FROM sales
		WHERE program_id = $1 AND status = $2 AND sold_at >= $3 AND sold_at < $4
		GROUP BY currency_code
		ORDER BY currency_code;
	`

	rows, err := r.Pool.Query(ctx, query, programID, string(domain.SalePaid), from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to sum paid sales for program %s: %w", programID, err)
	}
	defer rows.Close()

	return collectMonetarySums(rows)
}

func scanSale(row pgx.Row) (*domain.Sale, error) {
	var sale domain.Sale
	var status string
	err := row.Scan(
		&sale.SaleID,
		&sale.ProgramID,
		&sale.Description,
		&sale.Amount,
		&sale.CurrencyCode,
		&sale.SoldAt,
		&status,
		&sale.CreatedAt,
		&sale.CreatedBy,
		&sale.LastUpdatedAt,
		&sale.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	sale.Status = domain.SaleStatus(status)
	return &sale, nil
}
