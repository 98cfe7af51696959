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

type PgxProgramRepository struct {
	BaseRepository
}

func newPgxProgramRepository(pool *pgxpool.Pool) portsrepo.ProgramRepository {
	return &PgxProgramRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.ProgramRepository = (*PgxProgramRepository)(nil)

const programColumns = `program_id, name, description, status, created_at, created_by, last_updated_at, last_updated_by`

func (r *PgxProgramRepository) SaveProgram(ctx context.Context, program domain.Program) error {
	query := `
		INSERT INTO programs (program_id, name, description, status, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`

	_, err := r.Pool.Exec(ctx, query,
		program.ProgramID,
		program.Name,
		program.Description,
		string(program.Status),
		program.CreatedAt,
		program.CreatedBy,
		program.LastUpdatedAt,
		program.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save program %s: %w", program.ProgramID, err)
	}
	return nil
}

func (r *PgxProgramRepository) UpdateProgram(ctx context.Context, program domain.Program) error {
	query := `
		UPDATE programs
		SET name = $2, description = $3, status = $4, last_updated_at = $5, last_updated_by = $6
		WHERE program_id = $1;
	`

	tag, err := r.Pool.Exec(ctx, query,
		program.ProgramID,
		program.Name,
		program.Description,
		string(program.Status),
		program.LastUpdatedAt,
		program.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update program %s: %w", program.ProgramID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxProgramRepository) FindProgramByID(ctx context.Context, programID string) (*domain.Program, error) {
	query := `SELECT ` + programColumns + ` FROM programs WHERE program_id = $1;`

	program, err := scanProgram(r.Pool.QueryRow(ctx, query, programID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find program %s: %w", programID, err)
	}
	return program, nil
}

func (r *PgxProgramRepository) ListPrograms(ctx context.Context, limit, offset int) ([]domain.Program, int, error) {
	var total int
	if err := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM programs`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count programs: %w", err)
	}

	query := `SELECT ` + programColumns + ` FROM programs ORDER BY name LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query programs: %w", err)
	}
	defer rows.Close()

	programs := []domain.Program{}
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan program: %w", err)
		}
		programs = append(programs, *program)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate programs: %w", err)
	}
	return programs, total, nil
}

func (r *PgxProgramRepository) DeleteProgram(ctx context.Context, programID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM programs WHERE program_id = $1;`, programID)
	if err != nil {
		return fmt.Errorf("failed to delete program %s: %w", programID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func scanProgram(row pgx.Row) (*domain.Program, error) {
	var program domain.Program
	var status string
	err := row.Scan(
		&program.ProgramID,
		&program.Name,
		&program.Description,
		&status,
		&program.CreatedAt,
		&program.CreatedBy,
		&program.LastUpdatedAt,
		&program.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	program.Status = domain.ProgramStatus(status)
	return &program, nil
}
