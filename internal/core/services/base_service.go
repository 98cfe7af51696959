package services

import (
	"context"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
	portssvc "github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/ports/services"
	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/middleware"
)

// auditEntryFromCtx builds an activity log entry for a mutation, capturing
// the request's IP, URL and user agent when the context carries them. An
// empty actorID records a system action.
func auditEntryFromCtx(ctx context.Context, actorID string, action domain.AuditAction, entityType, entityID string, before, after map[string]any) portssvc.AuditEntry {
	var actor *string
	if actorID != "" {
		actor = &actorID
	}
	meta := middleware.GetRequestMetaFromCtx(ctx)
	return portssvc.AuditEntry{
		ActorID:    actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Before:     before,
		After:      after,
		IPAddress:  meta.IPAddress,
		URL:        meta.URL,
		UserAgent:  meta.UserAgent,
	}
}

// clampPage normalizes limit/offset for list queries.
func clampPage(limit, offset int) (int, int) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
