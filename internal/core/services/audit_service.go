package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

// maxAppendRetries bounds how often an append is retried after losing the
// race for the chain tail.
const maxAppendRetries = 3

// verifyBatchSize is how many records a verification walk loads per query.
const verifyBatchSize = 500

// auditService implements portssvc.AuditSvcFacade over an append-only store.
type auditService struct {
	auditRepo portsrepo.AuditRepository
}

// NewAuditService creates the activity log service.
func NewAuditService(auditRepo portsrepo.AuditRepository) portssvc.AuditSvcFacade {
	return &auditService{auditRepo: auditRepo}
}

// Record appends one entry to the hash chain. It reads the current tail,
// links and hashes the new record against it, and lets the repository commit
// with a tail re-check. When another writer got there first the repository
// reports apperrors.ErrChainConflict and the append retries against the
// fresh tail.
func (s *auditService) Record(ctx context.Context, entry portssvc.AuditEntry) (*domain.AuditRecord, error) {
	if entry.Action == "" || entry.EntityType == "" || entry.EntityID == "" {
		return nil, fmt.Errorf("%w: action, entity type and entity id are required", apperrors.ErrValidation)
	}

	changes, err := marshalChanges(entry.Before, entry.After)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize changes: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= maxAppendRetries; attempt++ {
		tail, err := s.auditRepo.FindTail(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to read chain tail: %w", err)
		}
		prevHash := ""
		if tail != nil {
			prevHash = tail.Hash
		}

		record := domain.AuditRecord{
			ActorID:     entry.ActorID,
			Action:      entry.Action,
			EntityType:  entry.EntityType,
			EntityID:    entry.EntityID,
			Changes:     changes,
			Description: entry.Description,
			IPAddress:   entry.IPAddress,
			URL:         entry.URL,
			UserAgent:   entry.UserAgent,
			PrevHash:    prevHash,
			CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
		}
		record.Hash = domain.ComputeAuditHash(record)

		err = s.auditRepo.AppendAuditRecord(ctx, &record)
		if err == nil {
			return &record, nil
		}
		if !errors.Is(err, apperrors.ErrChainConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("append lost the chain tail %d times: %w", maxAppendRetries+1, lastErr)
}

// VerifyChain walks the log in ascending ID order, recomputing every hash
// and checking linkage. With no bounds it covers the whole log; with a lower
// bound the record before the range anchors the linkage check.
func (s *auditService) VerifyChain(ctx context.Context, fromID, toID *int64) (domain.ChainVerification, error) {
	startID := int64(1)
	if fromID != nil {
		startID = *fromID
	}

	prevHash := ""
	if startID > 1 {
		anchor, err := s.auditRepo.FindLastRecordBefore(ctx, startID)
		if err != nil {
			return domain.ChainVerification{}, fmt.Errorf("failed to load anchor record: %w", err)
		}
		if anchor != nil {
			prevHash = anchor.Hash
		}
	}

	result := domain.ChainVerification{Valid: true}
	nextID := startID
	for {
		batch, err := s.auditRepo.FindAuditRecordsAscending(ctx, nextID, verifyBatchSize)
		if err != nil {
			return domain.ChainVerification{}, fmt.Errorf("failed to load records for verification: %w", err)
		}
		if toID != nil {
			trimmed := batch[:0]
			for _, r := range batch {
				if r.ID <= *toID {
					trimmed = append(trimmed, r)
				}
			}
			batch = trimmed
		}
		if len(batch) == 0 {
			return result, nil
		}

		partial := domain.VerifyChain(batch, prevHash)
		result.Checked += partial.Checked
		if !partial.Valid {
			result.Valid = false
			result.FirstBrokenID = partial.FirstBrokenID
			return result, nil
		}

		last := batch[len(batch)-1]
		prevHash = last.Hash
		nextID = last.ID + 1
		if toID != nil && nextID > *toID {
			return result, nil
		}
	}
}

// ListRecords returns matching records, newest first.
func (s *auditService) ListRecords(ctx context.Context, req dto.ListAuditRequest) ([]domain.AuditRecord, int, error) {
	filter := portsrepo.AuditFilter{
		EntityType: req.EntityType,
		EntityID:   req.EntityID,
		ActorID:    req.ActorID,
		Action:     req.Action,
		From:       req.From,
		To:         req.To,
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	return s.auditRepo.ListAuditRecords(ctx, filter, pageSize, (page-1)*pageSize)
}

// marshalChanges builds the canonical changes payload, or nil when both
// snapshots are absent. json.Marshal sorts map keys, so the bytes are
// deterministic for a given diff.
func marshalChanges(before, after map[string]any) (json.RawMessage, error) {
	if before == nil && after == nil {
		return nil, nil
	}
	diff := make(map[string]any, 2)
	if before != nil {
		diff["before"] = before
	}
	if after != nil {
		diff["after"] = after
	}
	return json.Marshal(diff)
}
