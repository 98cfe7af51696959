package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// AuditAction is the short verb tag recorded with an activity entry.
type AuditAction string

const (
	ActionCreated  AuditAction = "created"
	ActionUpdated  AuditAction = "updated"
	ActionDeleted  AuditAction = "deleted"
	ActionApproved AuditAction = "approved"
	ActionLogin    AuditAction = "login"
	ActionLogout   AuditAction = "logout"
)

// AuditRecord is one entry in the append-only, hash-chained activity log.
// Each record's Hash covers the canonical payload of every stored field
// except Hash itself, including PrevHash, so modifying any record breaks the
// chain from that point forward. Records are immutable once written; no code
// path updates or deletes them.
type AuditRecord struct {
	ID          int64           `json:"id"`      // assigned by the store, monotonically increasing
	ActorID     *string         `json:"actorID"` // nil for system actions
	Action      AuditAction     `json:"action"`
	EntityType  string          `json:"entityType"` // e.g., "expense", "program_budget"
	EntityID    string          `json:"entityID"`
	Changes     json.RawMessage `json:"changes,omitempty"` // {"before": {...}, "after": {...}}
	Description string          `json:"description,omitempty"`
	IPAddress   string          `json:"ipAddress,omitempty"`
	URL         string          `json:"url,omitempty"`
	UserAgent   string          `json:"userAgent,omitempty"`
	PrevHash    string          `json:"prevHash"` // empty for the first record
	Hash        string          `json:"hash"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// auditCreatedAtFormat fixes the timestamp serialization inside the hashed
// payload to microsecond precision in UTC, matching what the store persists,
// so recomputing a hash after a round trip yields the same bytes.
const auditCreatedAtFormat = "2006-01-02T15:04:05.000000Z"

// auditPayload is the canonical form hashed for an AuditRecord. Field order
// is fixed and Changes is embedded verbatim, so serialization is
// deterministic.
type auditPayload struct {
	ActorID     *string         `json:"actor_id"`
	Action      AuditAction     `json:"action"`
	EntityType  string          `json:"entity_type"`
	EntityID    string          `json:"entity_id"`
	Changes     json.RawMessage `json:"changes,omitempty"`
	Description string          `json:"description,omitempty"`
	IPAddress   string          `json:"ip_address,omitempty"`
	URL         string          `json:"url,omitempty"`
	UserAgent   string          `json:"user_agent,omitempty"`
	PrevHash    string          `json:"prev_hash,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

// ComputeAuditHash calculates the SHA-256 digest of a record's canonical
// payload. Every input to the digest is a stored column, so any reader can
// recompute it independently.
func ComputeAuditHash(r AuditRecord) string {
	payload := auditPayload{
		ActorID:     r.ActorID,
		Action:      r.Action,
		EntityType:  r.EntityType,
		EntityID:    r.EntityID,
		Changes:     r.Changes,
		Description: r.Description,
		IPAddress:   r.IPAddress,
		URL:         r.URL,
		UserAgent:   r.UserAgent,
		PrevHash:    r.PrevHash,
		CreatedAt:   r.CreatedAt.UTC().Truncate(time.Microsecond).Format(auditCreatedAtFormat),
	}
	// Marshalling a struct with fixed fields cannot fail.
	b, _ := json.Marshal(payload)
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// VerifyAuditRecord reports whether a record's stored hash matches the hash
// recomputed from its contents.
func VerifyAuditRecord(r AuditRecord) bool {
	return r.Hash == ComputeAuditHash(r)
}

// ChainVerification is the result of walking a section of the activity log.
type ChainVerification struct {
	Valid         bool   `json:"valid"`
	FirstBrokenID *int64 `json:"firstBrokenID,omitempty"`
	Checked       int    `json:"checked"`
}

// VerifyChain walks records in ascending ID order, recomputing each hash and
// checking the prev-hash linkage. prevHash is the hash of the record
// immediately before the slice, or empty when the slice starts at the head of
// the log.
func VerifyChain(records []AuditRecord, prevHash string) ChainVerification {
	for i, r := range records {
		if r.PrevHash != prevHash || !VerifyAuditRecord(r) {
			id := r.ID
			return ChainVerification{Valid: false, FirstBrokenID: &id, Checked: i + 1}
		}
		prevHash = r.Hash
	}
	return ChainVerification{Valid: true, Checked: len(records)}
}
