package services

import (
	"context"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

// AuditEntry is the input for recording one activity log entry. Before and
// After are optional snapshots merged into the record's changes payload when
// at least one is non-nil.
type AuditEntry struct {
	ActorID     *string
	Action      domain.AuditAction
	EntityType  string
	EntityID    string
	Before      map[string]any
	After       map[string]any
	Description string
	IPAddress   string
	URL         string
	UserAgent   string
}

// AuditSvcFacade is the tamper-evident activity log.
type AuditSvcFacade interface {
	// Record appends one entry to the hash chain and returns the persisted
	// record. Appends serialize against each other; concurrent callers never
	// produce two records with the same prevHash.
	Record(ctx context.Context, entry AuditEntry) (*domain.AuditRecord, error)
	// VerifyChain recomputes hashes and linkage over the given ID range
	// (whole log when both bounds are nil).
	VerifyChain(ctx context.Context, fromID, toID *int64) (domain.ChainVerification, error)
	// ListRecords returns matching records, newest first, with the total count.
	ListRecords(ctx context.Context, req dto.ListAuditRequest) ([]domain.AuditRecord, int, error)
}

// AuditRecorder is the narrow facade other services use to write entries.
type AuditRecorder interface {
	Record(ctx context.Context, entry AuditEntry) (*domain.AuditRecord, error)
}
