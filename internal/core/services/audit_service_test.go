package services_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/apperrors"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portsrepo "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/repositories"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/dto"
)

// memoryAuditRepository is an in-memory chain store with the same tail
// re-check semantics as the Postgres repository. IDs come from a counter
// that, like a sequence, can skip values.
type memoryAuditRepository struct {
	mu      sync.Mutex
	nextID  int64
	records []domain.AuditRecord
}

func (m *memoryAuditRepository) AppendAuditRecord(ctx context.Context, record *domain.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tailHash := ""
	if len(m.records) > 0 {
		tailHash = m.records[len(m.records)-1].Hash
	}
	if tailHash != record.PrevHash {
		return apperrors.ErrChainConflict
	}
	m.nextID++
	record.ID = m.nextID
	m.records = append(m.records, *record)
	return nil
}

// skipID burns one sequence value without inserting, like a rolled-back
// insert against BIGSERIAL.
func (m *memoryAuditRepository) skipID() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
}

func (m *memoryAuditRepository) FindTail(ctx context.Context) (*domain.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.records) == 0 {
		return nil, nil
	}
	tail := m.records[len(m.records)-1]
	return &tail, nil
}

func (m *memoryAuditRepository) FindAuditRecordsAscending(ctx context.Context, afterID int64, limit int) ([]domain.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.AuditRecord{}
	for _, r := range m.records {
		if r.ID >= afterID {
			out = append(out, r)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

func (m *memoryAuditRepository) FindLastRecordBefore(ctx context.Context, id int64) (*domain.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.records) - 1; i >= 0; i-- {
		if m.records[i].ID < id {
			anchor := m.records[i]
			return &anchor, nil
		}
	}
	return nil, nil
}

func (m *memoryAuditRepository) ListAuditRecords(ctx context.Context, filter portsrepo.AuditFilter, limit, offset int) ([]domain.AuditRecord, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	matched := []domain.AuditRecord{}
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if filter.EntityType != "" && r.EntityType != filter.EntityType {
			continue
		}
		if filter.EntityID != "" && r.EntityID != filter.EntityID {
			continue
		}
		matched = append(matched, r)
	}
	total := len(matched)
	if offset >= len(matched) {
		return []domain.AuditRecord{}, total, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (m *memoryAuditRepository) tamper(id int64, mutate func(*domain.AuditRecord)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.records {
		if m.records[i].ID == id {
			mutate(&m.records[i])
			return
		}
	}
}

// conflictingAuditRepository forces a fixed number of tail conflicts before
// delegating to the underlying store.
type conflictingAuditRepository struct {
	*memoryAuditRepository
	conflicts int
}

func (c *conflictingAuditRepository) AppendAuditRecord(ctx context.Context, record *domain.AuditRecord) error {
	if c.conflicts > 0 {
		c.conflicts--
		return apperrors.ErrChainConflict
	}
	return c.memoryAuditRepository.AppendAuditRecord(ctx, record)
}

type AuditServiceTestSuite struct {
	suite.Suite
	repo    *memoryAuditRepository
	service portssvc.AuditSvcFacade
}

func (s *AuditServiceTestSuite) SetupTest() {
	s.repo = &memoryAuditRepository{}
	s.service = services.NewAuditService(s.repo)
}

func (s *AuditServiceTestSuite) record(entityID string) *domain.AuditRecord {
	actor := "user-1"
	rec, err := s.service.Record(context.Background(), portssvc.AuditEntry{
		ActorID:    &actor,
		Action:     domain.ActionCreated,
		EntityType: "expense",
		EntityID:   entityID,
		After:      map[string]any{"amount": "100"},
	})
	s.Require().NoError(err)
	return rec
}

func (s *AuditServiceTestSuite) TestRecord_FirstEntryHasEmptyPrevHash() {
	rec := s.record("e-1")

	s.Equal(int64(1), rec.ID)
	s.Empty(rec.PrevHash)
	s.NotEmpty(rec.Hash)
	s.Equal(rec.Hash, domain.ComputeAuditHash(*rec))
}

func (s *AuditServiceTestSuite) TestRecord_LinksSequentialAppends() {
	first := s.record("e-1")
	second := s.record("e-2")
	third := s.record("e-3")

	s.Equal(first.Hash, second.PrevHash)
	s.Equal(second.Hash, third.PrevHash)

	result, err := s.service.VerifyChain(context.Background(), nil, nil)
	s.Require().NoError(err)
	s.True(result.Valid)
	s.Equal(3, result.Checked)
	s.Nil(result.FirstBrokenID)
}

func (s *AuditServiceTestSuite) TestRecord_RejectsIncompleteEntry() {
	_, err := s.service.Record(context.Background(), portssvc.AuditEntry{Action: domain.ActionCreated})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *AuditServiceTestSuite) TestRecord_RetriesAfterTailConflict() {
	repo := &conflictingAuditRepository{memoryAuditRepository: s.repo, conflicts: 2}
	service := services.NewAuditService(repo)

	rec, err := service.Record(context.Background(), portssvc.AuditEntry{
		Action:     domain.ActionUpdated,
		EntityType: "sale",
		EntityID:   "s-1",
	})
	s.Require().NoError(err)
	s.Equal(int64(1), rec.ID)
}

func (s *AuditServiceTestSuite) TestRecord_GivesUpAfterRepeatedConflicts() {
	repo := &conflictingAuditRepository{memoryAuditRepository: s.repo, conflicts: 10}
	service := services.NewAuditService(repo)

	_, err := service.Record(context.Background(), portssvc.AuditEntry{
		Action:     domain.ActionUpdated,
		EntityType: "sale",
		EntityID:   "s-1",
	})
	s.ErrorIs(err, apperrors.ErrChainConflict)
}

func (s *AuditServiceTestSuite) TestVerifyChain_DetectsTamperedRecord() {
	for i := 0; i < 5; i++ {
		s.record("e-" + string(rune('1'+i)))
	}

	s.repo.tamper(3, func(r *domain.AuditRecord) {
		r.Description = "edited after the fact"
	})

	result, err := s.service.VerifyChain(context.Background(), nil, nil)
	s.Require().NoError(err)
	s.False(result.Valid)
	s.Require().NotNil(result.FirstBrokenID)
	s.Equal(int64(3), *result.FirstBrokenID)
}

func (s *AuditServiceTestSuite) TestVerifyChain_DetectsBrokenLinkage() {
	for i := 0; i < 4; i++ {
		s.record("e-" + string(rune('1'+i)))
	}

	// Rewrite record 2 with a recomputed hash. Its own hash checks out but
	// record 3 no longer links to it.
	s.repo.tamper(2, func(r *domain.AuditRecord) {
		r.Description = "rewritten"
		r.Hash = domain.ComputeAuditHash(*r)
	})

	result, err := s.service.VerifyChain(context.Background(), nil, nil)
	s.Require().NoError(err)
	s.False(result.Valid)
	s.Require().NotNil(result.FirstBrokenID)
	s.Equal(int64(3), *result.FirstBrokenID)
}

func (s *AuditServiceTestSuite) TestVerifyChain_RangeUsesAnchorRecord() {
	for i := 0; i < 5; i++ {
		s.record("e-" + string(rune('1'+i)))
	}

	from := int64(3)
	to := int64(5)
	result, err := s.service.VerifyChain(context.Background(), &from, &to)
	s.Require().NoError(err)
	s.True(result.Valid)
	s.Equal(3, result.Checked)
}

func (s *AuditServiceTestSuite) TestVerifyChain_RangeAnchorsAcrossIDGap() {
	s.record("e-1")
	s.record("e-2")
	s.repo.skipID()
	third := s.record("e-3")
	s.record("e-4")

	// Records carry IDs 1, 2, 4, 5. Anchoring the range at ID 4 must pick
	// up record 2, not assume an ID 3 exists.
	s.Require().Equal(int64(4), third.ID)

	from := third.ID
	result, err := s.service.VerifyChain(context.Background(), &from, nil)
	s.Require().NoError(err)
	s.True(result.Valid)
	s.Equal(2, result.Checked)
	s.Nil(result.FirstBrokenID)
}

func (s *AuditServiceTestSuite) TestVerifyChain_EmptyLogIsValid() {
	result, err := s.service.VerifyChain(context.Background(), nil, nil)
	s.Require().NoError(err)
	s.True(result.Valid)
	s.Zero(result.Checked)
}

func (s *AuditServiceTestSuite) TestListRecords_FiltersByEntity() {
	s.record("e-1")
	s.record("e-2")

	records, total, err := s.service.ListRecords(context.Background(), dto.ListAuditRequest{
		EntityType: "expense",
		EntityID:   "e-2",
	})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(records, 1)
	s.Equal("e-2", records[0].EntityID)
}

func TestAuditServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AuditServiceTestSuite))
}
