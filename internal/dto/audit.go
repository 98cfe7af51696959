package dto

import (
	"encoding/json"
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
)

// ListAuditRequest holds query filters for the activity log listing.
type ListAuditRequest struct {
	EntityType string     `form:"entityType"`
	EntityID   string     `form:"entityID"`
	ActorID    string     `form:"actorID"`
	Action     string     `form:"action"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page,default=1" binding:"min=1"`
	PageSize   int        `form:"pageSize,default=50" binding:"min=1,max=200"`
}

// VerifyChainRequest holds the optional ID range for a verification walk.
type VerifyChainRequest struct {
	FromID *int64 `form:"fromID" binding:"omitempty,min=1"`
	ToID   *int64 `form:"toID" binding:"omitempty,min=1"`
}

// AuditRecordResponse is the API representation of an activity log entry.
type AuditRecordResponse struct {
	ID          int64           `json:"id"`
	ActorID     *string         `json:"actorID"`
	Action      string          `json:"action"`
	EntityType  string          `json:"entityType"`
	EntityID    string          `json:"entityID"`
	Changes     json.RawMessage `json:"changes,omitempty"`
	Description string          `json:"description,omitempty"`
	IPAddress   string          `json:"ipAddress,omitempty"`
	URL         string          `json:"url,omitempty"`
	UserAgent   string          `json:"userAgent,omitempty"`
	PrevHash    string          `json:"prevHash,omitempty"`
	Hash        string          `json:"hash"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToAuditRecordResponse maps a domain record to its API representation.
func ToAuditRecordResponse(r *domain.AuditRecord) AuditRecordResponse {
	return AuditRecordResponse{
		ID:          r.ID,
		ActorID:     r.ActorID,
		Action:      string(r.Action),
		EntityType:  r.EntityType,
		EntityID:    r.EntityID,
		Changes:     r.Changes,
		Description: r.Description,
		IPAddress:   r.IPAddress,
		URL:         r.URL,
		UserAgent:   r.UserAgent,
		PrevHash:    r.PrevHash,
		Hash:        r.Hash,
		CreatedAt:   r.CreatedAt,
	}
}
