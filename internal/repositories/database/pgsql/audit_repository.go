package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
)

// auditChainLockKey is the advisory lock key that serializes appends to the
// activity log. All appends share one chain, so they share one key.
const auditChainLockKey = int64(0x43415541554449)

type PgxAuditRepository struct {
	BaseRepository
}

func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepository {
	return &PgxAuditRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.AuditRepository = (*PgxAuditRepository)(nil)

const auditColumns = `id, actor_id, action, entity_type, entity_id, changes, description, ip_address, url, user_agent, prev_hash, hash, created_at`

// AppendAuditRecord inserts a hashed record at the tail of the chain. The
// transaction takes an advisory lock so that concurrent appends serialize,
// then re-checks that record.PrevHash still matches the stored tail. A
// mismatch means another append won the race and the caller must rebuild the
// record against the new tail.
func (r *PgxAuditRepository) AppendAuditRecord(ctx context.Context, record *domain.AuditRecord) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock($1)`, auditChainLockKey); err != nil {
		return fmt.Errorf("failed to acquire activity chain lock: %w", err)
	}

	var tailHash string
	err = tx.QueryRow(ctx, `SELECT hash FROM audit_records ORDER BY id DESC LIMIT 1`).Scan(&tailHash)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("failed to read activity chain tail: %w", err)
	}
	if tailHash != record.PrevHash {
		return apperrors.ErrChainConflict
	}

	var changes any
	if len(record.Changes) > 0 {
		changes = string(record.Changes)
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO audit_records (actor_id, action, entity_type, entity_id, changes, description, ip_address, url, user_agent, prev_hash, hash, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id;
	`,
		record.ActorID,
		string(record.Action),
		record.EntityType,
		record.EntityID,
		changes,
		record.Description,
		record.IPAddress,
		record.URL,
		record.UserAgent,
		record.PrevHash,
		record.Hash,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("failed to append activity record: %w", err)
	}

	return r.Commit(ctx, tx)
}

// FindTail returns the most recently appended record, or nil for an empty log.
func (r *PgxAuditRepository) FindTail(ctx context.Context) (*domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_records ORDER BY id DESC LIMIT 1;`

	record, err := scanAuditRecord(r.Pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find activity chain tail: %w", err)
	}
	return record, nil
}

// FindLastRecordBefore returns the record with the greatest ID strictly below
// id, or nil when none precedes it.
func (r *PgxAuditRepository) FindLastRecordBefore(ctx context.Context, id int64) (*domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_records WHERE id < $1 ORDER BY id DESC LIMIT 1;`

	record, err := scanAuditRecord(r.Pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find preceding activity record: %w", err)
	}
	return record, nil
}

// FindAuditRecordsAscending returns up to limit records with ID >= afterID in
// insertion order.
func (r *PgxAuditRepository) FindAuditRecordsAscending(ctx context.Context, afterID int64, limit int) ([]domain.AuditRecord, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_records WHERE id >= $1 ORDER BY id ASC LIMIT $2;`

	rows, err := r.Pool.Query(ctx, query, afterID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity records: %w", err)
	}
	defer rows.Close()

	return collectAuditRecords(rows)
}

// ListAuditRecords returns filtered records newest first along with the total
// count for the filter.
func (r *PgxAuditRepository) ListAuditRecords(ctx context.Context, filter portsrepo.AuditFilter, limit, offset int) ([]domain.AuditRecord, int, error) {
	var conditions []string
	var args []any

	addCondition := func(clause string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.EntityType != "" {
		addCondition("entity_type = $%d", filter.EntityType)
	}
	if filter.EntityID != "" {
		addCondition("entity_id = $%d", filter.EntityID)
	}
	if filter.ActorID != "" {
		addCondition("actor_id = $%d", filter.ActorID)
	}
	if filter.Action != "" {
		addCondition("action = $%d", filter.Action)
	}
	if filter.From != nil {
		addCondition("created_at >= $%d", *filter.From)
	}
	if filter.To != nil {
		addCondition("created_at < $%d", *filter.To)
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM audit_records` + whereClause
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count activity records: %w", err)
	}

	args = append(args, limit, offset)
	listQuery := fmt.Sprintf(`SELECT `+auditColumns+` FROM audit_records%s ORDER BY id DESC LIMIT $%d OFFSET $%d;`,
		whereClause, len(args)-1, len(args))

	rows, err := r.Pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query activity records: %w", err)
	}
	defer rows.Close()

	records, err := collectAuditRecords(rows)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

func scanAuditRecord(row pgx.Row) (*domain.AuditRecord, error) {
	var record domain.AuditRecord
	var changes *string
	var action string

	err := row.Scan(
		&record.ID,
		&record.ActorID,
		&action,
		&record.EntityType,
		&record.EntityID,
		&changes,
		&record.Description,
		&record.IPAddress,
		&record.URL,
		&record.UserAgent,
		&record.PrevHash,
		&record.Hash,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	record.Action = domain.AuditAction(action)
	if changes != nil {
		record.Changes = []byte(*changes)
	}
	record.CreatedAt = record.CreatedAt.UTC()
	return &record, nil
}

func collectAuditRecords(rows pgx.Rows) ([]domain.AuditRecord, error) {
	records := []domain.AuditRecord{}
	for rows.Next() {
		record, err := scanAuditRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity record: %w", err)
		}
		records = append(records, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate activity records: %w", err)
	}
	return records, nil
}
