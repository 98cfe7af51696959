package dto

import (
	"time"

	"github.com/geoffkats/CAU-Accounts-management-platform-sub001/internal/core/domain"
)

// CreateProgramRequest is the payload for creating a program.
type CreateProgramRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

// UpdateProgramRequest is the payload for updating a program. Nil fields are
// left unchanged.
type UpdateProgramRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=ACTIVE COMPLETED SUSPENDED"`
}

// ProgramResponse is the API representation of a program.
type ProgramResponse struct {
	ProgramID   string               `json:"programID"`
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Status      domain.ProgramStatus `json:"status"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// ToProgramResponse maps a domain program to its API representation.
func ToProgramResponse(p *domain.Program) ProgramResponse {
	return ProgramResponse{
		ProgramID:   p.ProgramID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

// ListResponse is a generic paginated envelope.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}
