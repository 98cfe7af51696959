package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func chainOf(t *testing.T, n int) []AuditRecord {
	t.Helper()
	actor := "user-1"
	records := make([]AuditRecord, 0, n)
	prevHash := ""
	base := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		r := AuditRecord{
			ID:         int64(i + 1),
			ActorID:    &actor,
			Action:     ActionCreated,
			EntityType: "expense",
			EntityID:   "exp-1",
			Changes:    json.RawMessage(`{"after":{"amount":"100"}}`),
			PrevHash:   prevHash,
			CreatedAt:  base.Add(time.Duration(i) * time.Second),
		}
		r.Hash = ComputeAuditHash(r)
		prevHash = r.Hash
		records = append(records, r)
	}
	return records
}

func TestComputeAuditHash_Deterministic(t *testing.T) {
	records := chainOf(t, 1)
	assert.Equal(t, ComputeAuditHash(records[0]), ComputeAuditHash(records[0]))
	assert.Len(t, records[0].Hash, 64)
}

func TestComputeAuditHash_SensitiveToEveryField(t *testing.T) {
	base := chainOf(t, 1)[0]

	mutations := map[string]func(r *AuditRecord){
		"action":      func(r *AuditRecord) { r.Action = ActionDeleted },
		"entity type": func(r *AuditRecord) { r.EntityType = "sale" },
		"entity id":   func(r *AuditRecord) { r.EntityID = "exp-2" },
		"changes":     func(r *AuditRecord) { r.Changes = json.RawMessage(`{"after":{"amount":"999"}}`) },
		"description": func(r *AuditRecord) { r.Description = "tampered" },
		"prev hash":   func(r *AuditRecord) { r.PrevHash = "deadbeef" },
		"actor":       func(r *AuditRecord) { r.ActorID = nil },
		"timestamp":   func(r *AuditRecord) { r.CreatedAt = r.CreatedAt.Add(time.Microsecond) },
	}
	for name, mutate := range mutations {
		r := base
		mutate(&r)
		assert.NotEqual(t, base.Hash, ComputeAuditHash(r), "mutating %s must change the hash", name)
	}
}

func TestComputeAuditHash_SubMicrosecondTimestampIgnored(t *testing.T) {
	// The store keeps microsecond precision, so nanosecond jitter must not
	// affect verification after a round trip.
	r := chainOf(t, 1)[0]
	r.CreatedAt = r.CreatedAt.Add(300 * time.Nanosecond)
	assert.Equal(t, r.Hash, ComputeAuditHash(r))
}

func TestVerifyChain_Valid(t *testing.T) {
	records := chainOf(t, 5)
	result := VerifyChain(records, "")
	assert.True(t, result.Valid)
	assert.Nil(t, result.FirstBrokenID)
	assert.Equal(t, 5, result.Checked)
}

func TestVerifyChain_FirstRecordHasEmptyPrevHash(t *testing.T) {
	records := chainOf(t, 1)
	require.Empty(t, records[0].PrevHash)
	assert.True(t, VerifyAuditRecord(records[0]))
	assert.True(t, VerifyChain(records, "").Valid)
}

func TestVerifyChain_DetectsTamperedContent(t *testing.T) {
	records := chainOf(t, 5)
	records[2].Description = "edited after the fact"

	result := VerifyChain(records, "")
	require.False(t, result.Valid)
	require.NotNil(t, result.FirstBrokenID)
	assert.Equal(t, int64(3), *result.FirstBrokenID)
}

func TestVerifyChain_DetectsBrokenLinkage(t *testing.T) {
	records := chainOf(t, 4)
	// Re-hash record 2 so its own hash is internally consistent but the
	// successor's prev_hash no longer matches.
	records[1].Description = "rewritten"
	records[1].Hash = ComputeAuditHash(records[1])

	result := VerifyChain(records, "")
	require.False(t, result.Valid)
	require.NotNil(t, result.FirstBrokenID)
	assert.Equal(t, int64(3), *result.FirstBrokenID)
}

func TestVerifyChain_EmptyLog(t *testing.T) {
	result := VerifyChain(nil, "")
	assert.True(t, result.Valid)
	assert.Equal(t, 0, result.Checked)
}

func TestVerifyChain_RangeStartsMidChain(t *testing.T) {
	records := chainOf(t, 6)
	result := VerifyChain(records[3:], records[2].Hash)
	assert.True(t, result.Valid)

	// Wrong anchor hash means the first record in range is reported broken.
	result = VerifyChain(records[3:], records[1].Hash)
	require.False(t, result.Valid)
	assert.Equal(t, records[3].ID, *result.FirstBrokenID)
}
